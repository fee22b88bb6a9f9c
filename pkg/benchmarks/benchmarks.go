// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package benchmarks combines the per-rule benchmark tables of many runs into
// a single table.
package benchmarks

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/coassembly/checkpointing/internal/tsv"
	"github.com/coassembly/checkpointing/pkg/artifact"
	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// Columns added to every benchmark row.
const (
	RuleColumn       = "benchmark"
	CoassemblyColumn = "coassembly"
)

const fileSuffix = ".tsv"

// ErrSchemaMismatch is returned when benchmark tables disagree on their columns.
var ErrSchemaMismatch = errors.New("benchmark schema mismatch")

// File is one per-rule benchmark table.
type File struct {
	Rule string
	Path string
}

// List returns the <rule>.tsv files in dir ordered by rule name.
func List(fs billy.Filesystem, dir string) ([]File, error) {
	entries, err := fs.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(artifact.ErrMissingArtifactFile, "benchmark directory %s", dir)
	} else if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	var files []File
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		files = append(files, File{
			Rule: strings.TrimSuffix(e.Name(), fileSuffix),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	slices.SortFunc(files, func(a, b File) int { return strings.Compare(a.Rule, b.Rule) })
	return files, nil
}

// Source is a benchmark table tagged with the rule and coassembly it came from.
type Source struct {
	Rule       string
	Coassembly string
	Table      *tsv.Table
}

// Load reads files and tags every row with its rule and coassembly.
func Load(fs billy.Filesystem, coassembly string, files []File) ([]Source, error) {
	sources := make([]Source, 0, len(files))
	for _, f := range files {
		t, err := tsv.ReadFile(fs, f.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "loading benchmark %s", f.Rule)
		}
		sources = append(sources, Source{
			Rule:       f.Rule,
			Coassembly: coassembly,
			Table:      tag(t, f.Rule, coassembly),
		})
	}
	return sources, nil
}

// tag sets the rule and coassembly columns on every row, appending the
// columns when the source table lacks them.
func tag(t *tsv.Table, rule, coassembly string) *tsv.Table {
	header := slices.Clone(t.Header)
	ri, ci := t.Column(RuleColumn), t.Column(CoassemblyColumn)
	if ri < 0 {
		ri = len(header)
		header = append(header, RuleColumn)
	}
	if ci < 0 {
		ci = len(header)
		header = append(header, CoassemblyColumn)
	}
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, len(header))
		copy(row, r)
		row[ri] = rule
		row[ci] = coassembly
		rows[i] = row
	}
	return &tsv.Table{Header: header, Rows: rows}
}

// Aggregator accumulates benchmark tables in the order they are added.
type Aggregator struct {
	fs      billy.Filesystem
	sources []Source
}

// NewAggregator returns an Aggregator that reads tables from fs.
func NewAggregator(fs billy.Filesystem) *Aggregator {
	return &Aggregator{fs: fs}
}

// AddRun loads and queues the benchmark files of one coassembly.
func (a *Aggregator) AddRun(coassembly string, files []File) error {
	sources, err := Load(a.fs, coassembly, files)
	if err != nil {
		return err
	}
	a.Add(sources...)
	return nil
}

// Add queues already loaded sources.
func (a *Aggregator) Add(sources ...Source) {
	a.sources = append(a.sources, sources...)
}

// Len is the number of queued tables.
func (a *Aggregator) Len() int { return len(a.sources) }

// Finalize concatenates the queued tables. Column order follows the first
// table; later tables must have the same set of columns, in any order. Column
// names must be unique within a table.
func (a *Aggregator) Finalize() (*tsv.Table, error) {
	if len(a.sources) == 0 {
		return &tsv.Table{Header: []string{RuleColumn, CoassemblyColumn}}, nil
	}
	header := a.sources[0].Table.Header
	want := sortedCopy(header)
	out := &tsv.Table{Header: slices.Clone(header)}
	for _, s := range a.sources {
		if col, ok := repeatedColumn(s.Table.Header); ok {
			return nil, errors.Wrapf(ErrSchemaMismatch, "benchmark %s of %s repeats column %q", s.Rule, s.Coassembly, col)
		}
		if !slices.Equal(sortedCopy(s.Table.Header), want) {
			return nil, errors.Wrapf(ErrSchemaMismatch, "benchmark %s of %s has columns [%s], want [%s]",
				s.Rule, s.Coassembly, strings.Join(s.Table.Header, ", "), strings.Join(header, ", "))
		}
		if slices.Equal(s.Table.Header, header) {
			out.Rows = append(out.Rows, s.Table.Rows...)
			continue
		}
		perm := make([]int, len(header))
		for i, col := range header {
			perm[i] = s.Table.Column(col)
		}
		for _, r := range s.Table.Rows {
			row := make([]string, len(perm))
			for i, j := range perm {
				row[i] = r[j]
			}
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

func sortedCopy(s []string) []string {
	c := slices.Clone(s)
	slices.Sort(c)
	return c
}

func repeatedColumn(header []string) (string, bool) {
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if seen[col] {
			return col, true
		}
		seen[col] = true
	}
	return "", false
}
