// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package billyx

import (
	"io"
	"os"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pkg/errors"
)

func must[T any](t T, err error) T {
	if err != nil {
		panic(err)
	}
	return t
}

func must1(err error) {
	if err != nil {
		panic(err)
	}
}

func TestExists(t *testing.T) {
	fs := memfs.New()
	must1(util.WriteFile(fs, "/a/file.txt", []byte("x"), 0644))
	for _, tc := range []struct {
		name string
		path string
		want bool
	}{
		{"file", "/a/file.txt", true},
		{"dir", "/a", false},
		{"missing", "/a/nope.txt", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Exists(fs, tc.path)
			if err != nil {
				t.Fatalf("Exists() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Exists(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestCopyFile(t *testing.T) {
	fs := memfs.New()
	must1(util.WriteFile(fs, "/src/contigs.fa", []byte(">k141_1\nACGT\n"), 0644))
	must1(fs.MkdirAll("/dst", 0755))
	must1(util.WriteFile(fs, "/dst/out.fa", []byte("stale content that is longer"), 0644))
	if err := CopyFile(fs, "/dst/out.fa", "/src/contigs.fa"); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	got := string(must(util.ReadFile(fs, "/dst/out.fa")))
	if got != ">k141_1\nACGT\n" {
		t.Errorf("copied content = %q", got)
	}
	// Source is untouched.
	if ok := must(Exists(fs, "/src/contigs.fa")); !ok {
		t.Error("source removed by CopyFile")
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	fs := memfs.New()
	err := CopyFile(fs, "/dst.fa", "/missing.fa")
	if !os.IsNotExist(err) {
		t.Errorf("CopyFile() error = %v, want not-exist", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	fs := memfs.New()
	must1(fs.MkdirAll("/out", 0755))
	err := WriteFileAtomic(fs, "/out/table.tsv", func(w io.Writer) error {
		_, err := io.WriteString(w, "a\tb\n")
		return err
	})
	if err != nil {
		t.Fatalf("WriteFileAtomic() error = %v", err)
	}
	if got := string(must(util.ReadFile(fs, "/out/table.tsv"))); got != "a\tb\n" {
		t.Errorf("content = %q", got)
	}
	entries := must(fs.ReadDir("/out"))
	if len(entries) != 1 {
		t.Errorf("ReadDir() = %d entries, want 1 (temp file left behind?)", len(entries))
	}
}

func TestWriteFileAtomicFailureLeavesTarget(t *testing.T) {
	fs := memfs.New()
	must1(util.WriteFile(fs, "/out/table.tsv", []byte("previous"), 0644))
	boom := errors.New("boom")
	err := WriteFileAtomic(fs, "/out/table.tsv", func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if errors.Cause(err) != boom {
		t.Fatalf("WriteFileAtomic() error = %v, want %v", err, boom)
	}
	if got := string(must(util.ReadFile(fs, "/out/table.tsv"))); got != "previous" {
		t.Errorf("content = %q, want previous", got)
	}
	if entries := must(fs.ReadDir("/out")); len(entries) != 1 {
		t.Errorf("ReadDir() = %d entries, want 1", len(entries))
	}
}

func TestLockedConcurrentWrites(t *testing.T) {
	fs := NewLocked(memfs.New())
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dir := fs.Join("/runs", string(rune('a'+i%26)))
			if err := fs.MkdirAll(dir, 0755); err != nil {
				t.Error(err)
				return
			}
			f, err := fs.TempFile(dir, "x")
			if err != nil {
				t.Error(err)
				return
			}
			f.Close()
		}()
	}
	wg.Wait()
	entries, err := fs.ReadDir("/runs")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 26 {
		t.Errorf("ReadDir() = %d entries, want 26", len(entries))
	}
}
