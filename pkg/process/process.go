// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package process combines the outputs of many completed coassembly runs into
// a single output tree.
//
// Each run directory is validated, its artifacts are located and copied, and
// its benchmark tables are loaded. Only once every run has been handled are
// the combined benchmark table and the contigs manifest written, so a failed
// batch never leaves either table behind.
package process

import (
	"context"
	"io"

	"github.com/coassembly/checkpointing/internal/billyx"
	"github.com/coassembly/checkpointing/internal/tsv"
	"github.com/coassembly/checkpointing/pkg/artifact"
	"github.com/coassembly/checkpointing/pkg/assembler"
	"github.com/coassembly/checkpointing/pkg/benchmarks"
	"github.com/coassembly/checkpointing/pkg/layout"
	"github.com/coassembly/checkpointing/pkg/manifest"
	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNoInputs      = errors.New("no run directories provided")
	ErrDuplicateName = errors.New("duplicate coassembly name")
)

// Mode controls how a failing run affects the batch.
type Mode int

const (
	// FailFast aborts the batch on the first failing run.
	FailFast Mode = iota
	// SkipFailed drops failing runs from the outputs and carries on.
	SkipFailed
)

func (m Mode) String() string {
	switch m {
	case FailFast:
		return "fail-fast"
	case SkipFailed:
		return "skip-failed"
	default:
		return "unknown"
	}
}

// Options configure a call to Process.
type Options struct {
	Mode Mode
	// MaxConcurrency bounds the number of runs handled at once. Values below
	// one are treated as one.
	MaxConcurrency int
	Logger         *zap.Logger
	// Done, if set, is called once per run as it finishes. It may be called
	// from several goroutines at once.
	Done func(path string, err error)
}

// Run is a successfully processed coassembly.
type Run struct {
	Name   string
	Path   string
	Kind   assembler.Kind
	Paths  *assembler.Paths
	Copied *artifact.Copied
	// Rules are the benchmark rules found for the run, in load order.
	Rules []string
}

// Failure is a run dropped under SkipFailed.
type Failure struct {
	Path string
	Err  error
}

// Result summarizes a completed batch.
type Result struct {
	Runs    []Run
	Skipped []Failure
	// BenchmarkTables counts the rule tables combined into BenchmarkRows.
	BenchmarkTables int
	BenchmarkRows   int
	BenchmarksPath  string
	ManifestPath    string
}

type runResult struct {
	run     Run
	sources []benchmarks.Source
	err     error
}

// Process handles every run directory in inputs and writes the combined
// outputs under out. Paths are interpreted by fs and should be absolute: the
// manifest records the contigs path as given.
//
// With MaxConcurrency above one, metadata calls on fs are serialized through
// billyx.Locked so that filesystems without their own locking, such as
// memfs, can be shared by the workers.
func Process(ctx context.Context, fs billy.Filesystem, inputs []string, out string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	if err := checkNames(inputs); err != nil {
		return nil, err
	}
	if opts.MaxConcurrency > 1 {
		if _, ok := fs.(*billyx.Locked); !ok {
			fs = billyx.NewLocked(fs)
		}
	}
	dst := layout.Output(out)
	copier := &artifact.Copier{FS: fs, Out: dst}
	if err := copier.Prepare(); err != nil {
		return nil, errors.Wrap(err, "preparing output directory")
	}
	results := make([]runResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.MaxConcurrency))
	for i, path := range inputs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := processRun(fs, copier, path, log)
			if opts.Done != nil {
				opts.Done(path, res.err)
			}
			if res.err != nil {
				res.err = errors.Wrapf(res.err, "processing %s", path)
				if opts.Mode == FailFast {
					return res.err
				}
				log.Warn("Skipping failed run", zap.String("path", path), zap.Error(res.err))
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Parent cancellation may have stopped the loop before every run started.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	agg := benchmarks.NewAggregator(fs)
	var mb manifest.Builder
	result := &Result{
		BenchmarksPath: dst.Benchmarks(),
		ManifestPath:   dst.Manifest(),
	}
	for i, res := range results {
		if res.err != nil {
			result.Skipped = append(result.Skipped, Failure{Path: inputs[i], Err: res.err})
			continue
		}
		agg.Add(res.sources...)
		mb.AddRun(res.run.Name, res.run.Paths.Contigs)
		result.Runs = append(result.Runs, res.run)
	}
	combined, err := agg.Finalize()
	if err != nil {
		return nil, errors.Wrap(err, "combining benchmarks")
	}
	result.BenchmarkTables = agg.Len()
	result.BenchmarkRows = len(combined.Rows)
	if err := writeTable(fs, result.BenchmarksPath, combined); err != nil {
		return nil, err
	}
	if err := writeTable(fs, result.ManifestPath, mb.Finalize()); err != nil {
		return nil, err
	}
	log.Info("Wrote combined outputs",
		zap.Int("runs", len(result.Runs)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("benchmark_tables", result.BenchmarkTables),
		zap.Int("benchmark_rows", result.BenchmarkRows))
	return result, nil
}

func processRun(fs billy.Filesystem, copier *artifact.Copier, path string, log *zap.Logger) runResult {
	name := layout.RunName(path)
	log = log.With(zap.String("run", name))
	log.Info("Processing")
	kind, dir, err := assembler.Validate(fs, path)
	if err != nil {
		return runResult{err: err}
	}
	paths, err := assembler.Locate(path, kind)
	if err != nil {
		return runResult{err: errors.Wrapf(err, "assembler directory %q", dir)}
	}
	log.Debug("Located artifacts",
		zap.Stringer("assembler", kind),
		zap.String("contigs", paths.Contigs),
		zap.String("benchmarks", paths.BenchmarkDir))
	files, err := benchmarks.List(fs, paths.BenchmarkDir)
	if err != nil {
		return runResult{err: err}
	}
	sources, err := benchmarks.Load(fs, name, files)
	if err != nil {
		return runResult{err: err}
	}
	copied, err := copier.Copy(name, paths)
	if err != nil {
		return runResult{err: err}
	}
	rules := make([]string, len(files))
	for i, f := range files {
		rules[i] = f.Rule
	}
	return runResult{
		run: Run{
			Name:   name,
			Path:   path,
			Kind:   kind,
			Paths:  paths,
			Copied: copied,
			Rules:  rules,
		},
		sources: sources,
	}
}

func checkNames(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, path := range inputs {
		name := layout.RunName(path)
		if prev, ok := seen[name]; ok {
			return errors.Wrapf(ErrDuplicateName, "%q from both %s and %s", name, prev, path)
		}
		seen[name] = path
	}
	return nil
}

func writeTable(fs billy.Filesystem, path string, t *tsv.Table) error {
	err := billyx.WriteFileAtomic(fs, path, func(w io.Writer) error { return t.Write(w) })
	return errors.Wrapf(err, "writing %s", path)
}
