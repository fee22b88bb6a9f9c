// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package assemblertest writes fake assembler run directories for tests.
package assemblertest

import (
	"path/filepath"
	"slices"

	"github.com/coassembly/checkpointing/pkg/assembler"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Artifacts that a Run may leave out.
const (
	Contigs      = "contigs"
	AssemblerLog = "assembler_log"
	Options      = "options"
	MainLog      = "main_log"
	BenchmarkDir = "benchmark_dir"
)

// Run describes the on-disk contents of a completed megahit run.
type Run struct {
	Contigs      string
	AssemblerLog string
	Options      string
	MainLog      string
	// Benchmarks maps rule name to the TSV content of <rule>.tsv.
	Benchmarks map[string]string
	// Omit lists artifacts that are not written.
	Omit []string
}

// Megahit returns a Run with small placeholder content and a single
// "assemble" benchmark.
func Megahit(name string) Run {
	return Run{
		Contigs:      ">" + name + "_k141_1\nACGTACGT\n",
		AssemblerLog: "MEGAHIT v1.2.9\n",
		Options:      `{"k_list": [21, 29, 39]}` + "\n",
		MainLog:      "Finished job 0.\n",
		Benchmarks: map[string]string{
			"assemble": "s\th:m:s\tmax_rss\n12.00\t0:00:12\t512.5\n",
		},
	}
}

// WriteMegahit writes r as a megahit run rooted at runPath.
func (r Run) WriteMegahit(fs billy.Filesystem, runPath string) error {
	p, err := assembler.Locate(runPath, assembler.Megahit)
	if err != nil {
		return err
	}
	files := []struct {
		artifact, path, content string
	}{
		{Contigs, p.Contigs, r.Contigs},
		{AssemblerLog, p.AssemblerLog, r.AssemblerLog},
		{Options, p.Options, r.Options},
		{MainLog, p.MainLog, r.MainLog},
	}
	for _, f := range files {
		if slices.Contains(r.Omit, f.artifact) {
			continue
		}
		if err := util.WriteFile(fs, f.path, []byte(f.content), 0644); err != nil {
			return err
		}
	}
	if slices.Contains(r.Omit, BenchmarkDir) {
		// Keep the assembler directory present so the run still validates.
		return fs.MkdirAll(filepath.Dir(p.BenchmarkDir), 0755)
	}
	if err := fs.MkdirAll(p.BenchmarkDir, 0755); err != nil {
		return err
	}
	for rule, content := range r.Benchmarks {
		if err := util.WriteFile(fs, filepath.Join(p.BenchmarkDir, rule+".tsv"), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
