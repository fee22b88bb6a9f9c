// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package prepare

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/coassembly/checkpointing/pkg/act/cli"
	"github.com/coassembly/checkpointing/pkg/assembler"
	"github.com/coassembly/checkpointing/pkg/runconfig"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Config holds all configuration for the prepare command.
type Config struct {
	Input     string
	Output    string
	Assembler string
	Threads   int
	MemMB     int
	Runtime   string
	Format    string
}

func (c Config) defaults() runconfig.Defaults {
	return runconfig.Defaults{
		Assembler: assembler.Kind(c.Assembler),
		Threads:   c.Threads,
		MemMB:     c.MemMB,
		Runtime:   c.Runtime,
	}
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is required")
	}
	if c.Output == "" {
		return errors.New("output is required")
	}
	switch runconfig.Format(c.Format) {
	case runconfig.YAML, runconfig.TOML:
	default:
		return errors.Errorf("unknown format %q. Expected one of 'yaml' or 'toml'", c.Format)
	}
	return c.defaults().Validate()
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

// Written lists the generated configuration files.
type Written []string

func (ws *Written) Report(w io.Writer) error {
	for _, p := range *ws {
		if _, err := fmt.Fprintln(w, p); err != nil {
			return err
		}
	}
	return nil
}

// Handler contains the business logic for the prepare command.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*Written, error) {
	input, output := cfg.Input, cfg.Output
	if err := cli.Abs(&input, &output); err != nil {
		return nil, err
	}
	deps.Log.Info("Output directory", zap.String("path", output))
	f, err := deps.FS.Open(input)
	if err != nil {
		return nil, errors.Wrap(err, "opening read list")
	}
	defer f.Close()
	configs, err := runconfig.Parse(f, output, cfg.defaults())
	if err != nil {
		return nil, err
	}
	deps.Log.Info("Read forward reads", zap.Int("count", len(configs)))
	if len(configs) > 0 {
		c := configs[0]
		deps.Log.Sugar().Infof("Processing coassemblies, e.g. %s: %s, %s", c.Name, c.Config.R1, c.Config.R2)
	}
	paths, err := runconfig.Write(deps.FS, output, configs, runconfig.Format(cfg.Format))
	if err != nil {
		return nil, err
	}
	w := Written(paths)
	return &w, nil
}

// Command creates a new prepare command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "prepare --input <reads.txt> --output <dir> [--assembler megahit] [--threads N] [--mem-mb N] [--runtime 48h] [--format yaml|toml]",
		Short: "Write one assembly configuration per coassembly",
		Long: `Reads a list of concatenated forward read files (*_1.fastq.gz), one per
line, and writes <output>/coassembly_N.yaml for each. The reverse reads are
assumed to sit alongside as *_2.fastq.gz.`,
		Args: cobra.NoArgs,
		RunE: cli.RunE(
			&cfg,
			cli.SkipArgs[Config],
			InitDeps,
			Handler,
		),
	}
	cmd.Flags().AddGoFlagSet(flagSet(cmd.Name(), &cfg))
	return cmd
}

func flagSet(name string, cfg *Config) *flag.FlagSet {
	d := runconfig.DefaultDefaults
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.StringVar(&cfg.Input, "input", "", "file listing concatenated _1.fastq.gz files")
	set.StringVar(&cfg.Output, "output", "", "the directory for configuration files and run outputs")
	set.StringVar(&cfg.Assembler, "assembler", string(d.Assembler), "assembler to use")
	set.IntVar(&cfg.Threads, "threads", d.Threads, "number of threads to use")
	set.IntVar(&cfg.MemMB, "mem-mb", d.MemMB, "memory to request, in megabytes")
	set.StringVar(&cfg.Runtime, "runtime", d.Runtime, "runtime for each coassembly")
	set.StringVar(&cfg.Format, "format", string(runconfig.YAML), "configuration format [yaml, toml]")
	return set
}
