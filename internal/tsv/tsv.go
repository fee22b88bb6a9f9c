// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package tsv reads and writes tab-separated tables with a header row.
package tsv

import (
	"encoding/csv"
	"io"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// ErrEmpty is returned when a table has no header row.
var ErrEmpty = errors.New("empty table")

// Table is an in-memory tab-separated table. Every row has len(Header) fields.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of name in the header, or -1.
func (t *Table) Column(name string) int {
	return slices.Index(t.Header, name)
}

// Read parses a table from r. The first record is the header.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	} else if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading rows")
	}
	return &Table{Header: header, Rows: rows}, nil
}

// ReadFile parses the table stored at path in fs.
func ReadFile(fs billy.Filesystem, path string) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Read(f)
	return t, errors.Wrapf(err, "parsing %s", path)
}

// Write emits the header followed by all rows.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(t.Header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return errors.Wrap(err, "writing rows")
	}
	return nil
}
