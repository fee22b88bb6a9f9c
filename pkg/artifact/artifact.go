// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package artifact copies a run's contigs, logs and options into the combined
// output tree.
package artifact

import (
	"strings"

	"github.com/coassembly/checkpointing/internal/billyx"
	"github.com/coassembly/checkpointing/pkg/assembler"
	"github.com/coassembly/checkpointing/pkg/layout"
	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// ErrMissingArtifactFile is returned when an expected source artifact is absent.
var ErrMissingArtifactFile = errors.New("missing artifact file")

// Copied are the destinations written for one run.
type Copied struct {
	Contigs      string
	MainLog      string
	AssemblerLog string
	Options      string
}

// Copier copies artifacts from run directories into Out. Sources are never
// moved or modified, and existing destinations are overwritten.
type Copier struct {
	FS  billy.Filesystem
	Out layout.Output
}

// Prepare creates the output directories. It is idempotent and must complete
// before the first Copy.
func (c *Copier) Prepare() error {
	for _, d := range layout.Dirs {
		dir := c.FS.Join(string(c.Out), d)
		if err := c.FS.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "creating %s", dir)
		}
	}
	return nil
}

type copyOp struct {
	src, dst string
}

// Copy copies the artifacts of the run called name. Every source is checked
// before the first byte is written, so a run with a missing artifact leaves
// nothing behind in the output tree.
func (c *Copier) Copy(name string, p *assembler.Paths) (*Copied, error) {
	out := &Copied{
		Contigs:      c.Out.Contigs(name),
		MainLog:      c.Out.MainLog(p.MainLog),
		AssemblerLog: c.Out.AssemblerLog(name),
		Options:      c.Out.Options(name),
	}
	ops := []copyOp{
		{p.Contigs, out.Contigs},
		{p.MainLog, out.MainLog},
		{p.AssemblerLog, out.AssemblerLog},
		{p.Options, out.Options},
	}
	var missing []string
	for _, op := range ops {
		ok, err := billyx.Exists(c.FS, op.src)
		if err != nil {
			return nil, errors.Wrapf(err, "checking %s", op.src)
		}
		if !ok {
			missing = append(missing, op.src)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(ErrMissingArtifactFile, "%s", strings.Join(missing, ", "))
	}
	for _, op := range ops {
		if err := billyx.CopyFile(c.FS, op.dst, op.src); err != nil {
			return nil, errors.Wrapf(err, "copying %s to %s", op.src, op.dst)
		}
	}
	return out, nil
}
