// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package layout names the files of the combined coassembly output tree.
package layout

import "path/filepath"

const (
	ContigsDir     = "contigs"                // Renamed contigs, one per coassembly.
	LogsDir        = "logs"                   // Main logs, assembler logs and options.
	BenchmarksFile = "benchmarks.tsv"         // Combined per-rule benchmarks.
	ManifestFile   = "coassembly_contigs.tsv" // Coassembly name to contigs path.
)

// Dirs are created under the output root before any run is processed.
var Dirs = []string{ContigsDir, LogsDir}

// Output roots the layout at a directory.
type Output string

func (o Output) Contigs(name string) string {
	return filepath.Join(string(o), ContigsDir, name+".contigs.fasta")
}

// MainLog keeps the source basename.
func (o Output) MainLog(src string) string {
	return filepath.Join(string(o), LogsDir, filepath.Base(src))
}

func (o Output) AssemblerLog(name string) string {
	return filepath.Join(string(o), LogsDir, name+"_assembler.log")
}

func (o Output) Options(name string) string {
	return filepath.Join(string(o), LogsDir, name+".options.json")
}

func (o Output) Benchmarks() string {
	return filepath.Join(string(o), BenchmarksFile)
}

func (o Output) Manifest() string {
	return filepath.Join(string(o), ManifestFile)
}

// RunName derives a coassembly's logical name from its run directory path.
func RunName(runPath string) string {
	return filepath.Base(filepath.Clean(runPath))
}
