// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/coassembly/checkpointing/pkg/act/cli"
	"github.com/coassembly/checkpointing/pkg/assembler"
	"github.com/coassembly/checkpointing/pkg/assembler/assemblertest"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Inputs:         []string{"coassembly_1"},
				Output:         "out",
				MaxConcurrency: 1,
			},
			wantErr: false,
		},
		{
			name: "no inputs",
			cfg: Config{
				Output:         "out",
				MaxConcurrency: 1,
			},
			wantErr: true,
		},
		{
			name: "no output",
			cfg: Config{
				Inputs:         []string{"coassembly_1"},
				MaxConcurrency: 1,
			},
			wantErr: true,
		},
		{
			name: "zero concurrency",
			cfg: Config{
				Inputs: []string{"coassembly_1"},
				Output: "out",
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func newDeps(t *testing.T) (*Deps, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	fs := memfs.New()
	for _, name := range []string{"coassembly_1", "coassembly_2"} {
		if err := assemblertest.Megahit(name).WriteMegahit(fs, "/runs/"+name); err != nil {
			t.Fatal(err)
		}
	}
	var stdout, stderr bytes.Buffer
	deps := &Deps{FS: fs}
	deps.SetIO(cli.IO{Out: &stdout, Err: &stderr})
	deps.SetLogger(zaptest.NewLogger(t))
	return deps, &stdout, &stderr
}

func TestHandler(t *testing.T) {
	deps, _, stderr := newDeps(t)
	cfg := Config{
		Inputs:         []string{"/runs/coassembly_1", "/runs/coassembly_2"},
		Output:         "/out",
		MaxConcurrency: 2,
	}
	got, err := Handler(context.Background(), cfg, deps)
	if err != nil {
		t.Fatalf("Handler() error = %v", err)
	}
	if len(got.Runs) != 2 || got.BenchmarkRows != 2 {
		t.Errorf("Handler() = %+v", got.Result)
	}
	if stderr.Len() == 0 {
		t.Error("no progress written to stderr")
	}
	var report bytes.Buffer
	if err := got.Report(&report); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"2 coassemblies", "/out/benchmarks.tsv", "/out/coassembly_contigs.tsv"} {
		if !strings.Contains(report.String(), want) {
			t.Errorf("Report() = %q, missing %q", report.String(), want)
		}
	}
}

func TestHandlerKeepGoing(t *testing.T) {
	deps, _, _ := newDeps(t)
	if err := deps.FS.MkdirAll("/runs/coassembly_3/metaspades", 0755); err != nil {
		t.Fatal(err)
	}
	cfg := Config{
		Inputs:         []string{"/runs/coassembly_1", "/runs/coassembly_3", "/runs/coassembly_2"},
		Output:         "/out",
		MaxConcurrency: 1,
		NoProgress:     true,
	}
	if _, err := Handler(context.Background(), cfg, deps); !errors.Is(err, assembler.ErrUnsupportedAssembler) {
		t.Fatalf("Handler() error = %v, want %v", err, assembler.ErrUnsupportedAssembler)
	}
	cfg.KeepGoing = true
	got, err := Handler(context.Background(), cfg, deps)
	if err != nil {
		t.Fatalf("Handler() with KeepGoing error = %v", err)
	}
	if len(got.Runs) != 2 || len(got.Skipped) != 1 {
		t.Errorf("Handler() = %+v", got.Result)
	}
	var report bytes.Buffer
	if err := got.Report(&report); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(report.String(), "/runs/coassembly_3") {
		t.Errorf("Report() = %q, missing skipped run", report.String())
	}
}

func TestHandlerProgressHoldsBackRunLogs(t *testing.T) {
	for _, tc := range []struct {
		name           string
		noProgress     bool
		wantProcessing int
	}{
		{name: "progress bar", noProgress: false, wantProcessing: 0},
		{name: "no progress bar", noProgress: true, wantProcessing: 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			deps, _, _ := newDeps(t)
			core, logs := observer.New(zapcore.InfoLevel)
			deps.SetLogger(zap.New(core))
			cfg := Config{
				Inputs:         []string{"/runs/coassembly_1", "/runs/coassembly_2"},
				Output:         "/out",
				MaxConcurrency: 1,
				NoProgress:     tc.noProgress,
			}
			if _, err := Handler(context.Background(), cfg, deps); err != nil {
				t.Fatalf("Handler() error = %v", err)
			}
			if n := logs.FilterMessageSnippet("Output directory").Len(); n != 1 {
				t.Errorf("got %d output directory entries, want 1", n)
			}
			if n := logs.FilterMessage("Processing").Len(); n != tc.wantProcessing {
				t.Errorf("got %d per-run entries, want %d", n, tc.wantProcessing)
			}
		})
	}
}
