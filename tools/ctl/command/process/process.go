// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"context"
	"flag"
	"fmt"
	"io"
	"slices"

	"github.com/cheggaaa/pb"
	"github.com/coassembly/checkpointing/pkg/act/cli"
	"github.com/coassembly/checkpointing/pkg/process"
	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds all configuration for the process command.
type Config struct {
	Inputs         []string
	Output         string
	MaxConcurrency int
	KeepGoing      bool
	NoProgress     bool
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("at least one run directory is required")
	}
	if c.Output == "" {
		return errors.New("output is required")
	}
	if c.MaxConcurrency < 1 {
		return errors.New("max-concurrency must be at least 1")
	}
	return nil
}

// Deps holds dependencies for the command.
type Deps struct {
	cli.Base
	FS billy.Filesystem
}

// InitDeps initializes Deps.
func InitDeps(context.Context) (*Deps, error) {
	return &Deps{FS: osfs.New("/")}, nil
}

func parseArgs(cfg *Config, args []string) error {
	cfg.Inputs = args
	return nil
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Summary is the outcome of a process invocation.
type Summary struct {
	*process.Result
}

// Report prints the runs handled and the files written.
func (s *Summary) Report(w io.Writer) error {
	fmt.Fprintf(w, "%s %d coassemblies (%d benchmark rows from %d tables)\n", green("Processed"), len(s.Runs), s.BenchmarkRows, s.BenchmarkTables)
	for _, f := range s.Skipped {
		fmt.Fprintf(w, "%s %s: %v\n", yellow("Skipped"), f.Path, f.Err)
	}
	fmt.Fprintf(w, "Wrote %s\n", s.BenchmarksPath)
	_, err := fmt.Fprintf(w, "Wrote %s\n", s.ManifestPath)
	return err
}

// Handler contains the business logic for the process command.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*Summary, error) {
	out := cfg.Output
	if err := cli.Abs(&out); err != nil {
		return nil, err
	}
	inputs := slices.Clone(cfg.Inputs)
	for i := range inputs {
		if err := cli.Abs(&inputs[i]); err != nil {
			return nil, err
		}
	}
	deps.Log.Sugar().Infof("Output directory: %s", out)
	opts := process.Options{
		MaxConcurrency: cfg.MaxConcurrency,
		Logger:         deps.Log,
	}
	if cfg.KeepGoing {
		opts.Mode = process.SkipFailed
	}
	if !cfg.NoProgress {
		// The bar shares stderr with the logger: only warnings and errors
		// may interrupt it.
		if deps.Log.Core().Enabled(zapcore.InfoLevel) {
			opts.Logger = deps.Log.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
		}
		bar := pb.New(len(inputs))
		bar.Output = deps.IO.Err
		bar.ShowTimeLeft = true
		bar.Start()
		defer bar.Finish()
		opts.Done = func(string, error) { bar.Increment() }
	}
	res, err := process.Process(ctx, deps.FS, inputs, out, opts)
	if err != nil {
		return nil, err
	}
	return &Summary{Result: res}, nil
}

// Command creates a new process command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "process --output <dir> [--max-concurrency N] [--keep-going] <run-dir>...",
		Short: "Combine completed coassembly runs into one output tree",
		Long: `Validates each run directory, copies its contigs, logs and options into
<output>/contigs and <output>/logs, and writes <output>/benchmarks.tsv and
<output>/coassembly_contigs.tsv once every run has been handled.

By default the first malformed run aborts the batch without writing either
table. With --keep-going, failing runs are reported and left out.`,
		Args: cobra.MinimumNArgs(1),
		RunE: cli.RunE(
			&cfg,
			parseArgs,
			InitDeps,
			Handler,
		),
	}
	cmd.Flags().AddGoFlagSet(flagSet(cmd.Name(), &cfg))
	return cmd
}

// flagSet returns the command-line flags for the Config struct.
func flagSet(name string, cfg *Config) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.StringVar(&cfg.Output, "output", "", "the directory to write combined outputs into")
	set.IntVar(&cfg.MaxConcurrency, "max-concurrency", 1, "maximum number of runs processed at once")
	set.BoolVar(&cfg.KeepGoing, "keep-going", false, "skip runs that fail instead of aborting the batch")
	set.BoolVar(&cfg.NoProgress, "no-progress", false, "do not display a progress bar")
	return set
}
