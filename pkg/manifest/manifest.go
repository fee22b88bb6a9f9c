// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package manifest builds the table linking coassembly names to their contigs.
package manifest

import "github.com/coassembly/checkpointing/internal/tsv"

// Header of the manifest table.
var Header = []string{"name", "assembly"}

// Entry maps a coassembly to the contigs file it produced.
type Entry struct {
	Name     string
	Assembly string
}

// Builder accumulates entries in insertion order.
type Builder struct {
	entries []Entry
}

// AddRun records the resolved contigs path of a coassembly.
func (b *Builder) AddRun(name, contigs string) {
	b.entries = append(b.entries, Entry{Name: name, Assembly: contigs})
}

// Entries returns the recorded entries.
func (b *Builder) Entries() []Entry { return b.entries }

// Finalize renders the entries as a two-column table.
func (b *Builder) Finalize() *tsv.Table {
	t := &tsv.Table{Header: Header, Rows: make([][]string, 0, len(b.entries))}
	for _, e := range b.entries {
		t.Rows = append(t.Rows, []string{e.Name, e.Assembly})
	}
	return t
}
