// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package extract copies finished assemblies, and their logs and benchmarks,
// out of a checkpointing workflow's results directory.
//
// A run is finished once the workflow has written the marker
// assemblies/<name>.done next to the run directory assemblies/<name>.
package extract

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/coassembly/checkpointing/internal/billyx"
	"github.com/coassembly/checkpointing/pkg/artifact"
	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	AssembliesDir = "assemblies"
	BenchmarksDir = "benchmarks"
	LogsDir       = "logs"
	DoneSuffix    = ".done"
	contigsFile   = "final_contigs.fa"
)

// ErrNotExtracted is returned by Extras for a finished run whose contigs have
// not been copied to the output yet.
var ErrNotExtracted = errors.New("assembly not extracted")

// Finished lists the names of runs under input that have a done marker.
func Finished(fs billy.Filesystem, input string) ([]string, error) {
	dir := filepath.Join(input, AssembliesDir)
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), DoneSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), DoneSuffix))
	}
	slices.Sort(names)
	return names, nil
}

// ContigsPath is where a finished run's copied contigs are written.
func ContigsPath(output, name string) string {
	return filepath.Join(output, name+".fa")
}

// Summary reports which finished runs were handled.
type Summary struct {
	Copied  []string
	Skipped []string
}

// Assemblies copies the contigs of every finished run to <output>/<name>.fa.
// Runs without contigs in the expected place are skipped.
func Assemblies(fs billy.Filesystem, input, output string, log *zap.Logger) (*Summary, error) {
	names, err := Finished(fs, input)
	if err != nil {
		return nil, err
	}
	if err := fs.MkdirAll(output, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", output)
	}
	s := &Summary{}
	for _, name := range names {
		log.Info("Copying assembly", zap.String("run", name), zap.String("output", output))
		src := filepath.Join(input, AssembliesDir, name, contigsFile)
		ok, err := billyx.Exists(fs, src)
		if err != nil {
			return nil, errors.Wrapf(err, "checking %s", src)
		}
		if !ok {
			log.Error("Contigs not found, assembler output not yet supported", zap.String("run", name), zap.String("path", src))
			s.Skipped = append(s.Skipped, name)
			continue
		}
		if err := billyx.CopyFile(fs, ContigsPath(output, name), src); err != nil {
			return nil, errors.Wrapf(err, "copying contigs of %s", name)
		}
		s.Copied = append(s.Copied, name)
	}
	return s, nil
}

// Extras copies the benchmark table and workflow log of every finished run
// into output, which must already hold the run's extracted contigs.
func Extras(fs billy.Filesystem, input, output string, log *zap.Logger) ([]string, error) {
	names, err := Finished(fs, input)
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		log.Info("Copying extras", zap.String("run", name), zap.String("output", output))
		ok, err := billyx.Exists(fs, ContigsPath(output, name))
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(ErrNotExtracted, "%s", name)
		}
		for _, src := range []string{
			filepath.Join(input, BenchmarksDir, name+".tsv"),
			filepath.Join(input, LogsDir, name+".log"),
		} {
			ok, err := billyx.Exists(fs, src)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.Wrapf(artifact.ErrMissingArtifactFile, "%s", src)
			}
			if err := billyx.CopyFile(fs, filepath.Join(output, filepath.Base(src)), src); err != nil {
				return nil, errors.Wrapf(err, "copying %s", src)
			}
		}
	}
	return names, nil
}
