// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package assembler identifies which assembler produced a coassembly run
// directory and where that assembler leaves its artifacts.
package assembler

import (
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// Kind is the assembler that produced a run.
type Kind string

// Kind constants. The value is the name of the run's assembler subdirectory.
const (
	Unknown    Kind = ""
	Megahit    Kind = "megahit"
	Metaspades Kind = "metaspades"
)

// ParseKind maps an assembler subdirectory name onto a Kind.
func ParseKind(name string) Kind {
	switch k := Kind(name); k {
	case Megahit, Metaspades:
		return k
	default:
		return Unknown
	}
}

func (k Kind) String() string {
	if k == Unknown {
		return "unknown"
	}
	return string(k)
}

var (
	ErrMissingAssemblerOutput   = errors.New("no assembler output directory")
	ErrAmbiguousAssemblerOutput = errors.New("multiple assembler output directories")
	ErrUnknownAssembler         = errors.New("unknown assembler")
	ErrUnsupportedAssembler     = errors.New("assembler not yet supported")
)

// Validate inspects the immediate children of runPath, which must be exactly
// one assembler output directory. It returns the parsed Kind along with the
// entry's name; an unrecognized name yields Unknown without error so that
// callers can decide how to report it.
func Validate(fs billy.Filesystem, runPath string) (Kind, string, error) {
	entries, err := fs.ReadDir(runPath)
	if err != nil {
		return Unknown, "", errors.Wrapf(err, "listing %s", runPath)
	}
	switch len(entries) {
	case 0:
		return Unknown, "", errors.Wrapf(ErrMissingAssemblerOutput, "%s is empty", runPath)
	case 1:
		name := entries[0].Name()
		return ParseKind(name), name, nil
	default:
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		return Unknown, "", errors.Wrapf(ErrAmbiguousAssemblerOutput, "%s contains [%s], expected exactly one", runPath, strings.Join(names, ", "))
	}
}

// Paths are the artifact locations of a single run.
type Paths struct {
	Contigs      string
	AssemblerLog string
	Options      string
	MainLog      string
	BenchmarkDir string
}

// MainLogPath is the workflow log written next to the run directory.
func MainLogPath(runPath string) string {
	return filepath.Clean(runPath) + ".log"
}

// Locate computes the artifact paths for a run produced by kind. It does not
// check that any of them exist.
func Locate(runPath string, kind Kind) (*Paths, error) {
	runPath = filepath.Clean(runPath)
	switch kind {
	case Megahit:
		out := filepath.Join(runPath, string(kind), "assembly_output")
		return &Paths{
			Contigs:      filepath.Join(out, "final.contigs.fa"),
			AssemblerLog: filepath.Join(out, "log"),
			Options:      filepath.Join(out, "options.json"),
			MainLog:      MainLogPath(runPath),
			BenchmarkDir: filepath.Join(runPath, string(kind), "benchmark"),
		}, nil
	case Metaspades:
		// TODO: Add the metaspades layout once runs are configured to use it.
		return nil, errors.Wrapf(ErrUnsupportedAssembler, "%s in %s", kind, runPath)
	case Unknown:
		return nil, errors.Wrapf(ErrUnknownAssembler, "in %s", runPath)
	default:
		return nil, errors.Wrapf(ErrUnknownAssembler, "%q in %s", string(kind), runPath)
	}
}
