// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package extract

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/coassembly/checkpointing/pkg/act/cli"
	"github.com/coassembly/checkpointing/pkg/extract"
	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the extract command.
type Config struct {
	Input  string
	Output string
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is required")
	}
	if c.Output == "" {
		return errors.New("output is required")
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

// Summary lists the extracted assemblies.
type Summary struct {
	extract.Summary
}

// Report prints one line per finished run.
func (s *Summary) Report(w io.Writer) error {
	for _, name := range s.Copied {
		fmt.Fprintf(w, "%s %s\n", color.GreenString("copied"), name)
	}
	for _, name := range s.Skipped {
		fmt.Fprintf(w, "%s %s\n", color.YellowString("skipped"), name)
	}
	return nil
}

// Handler contains the business logic for the extract command.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*Summary, error) {
	input, output := cfg.Input, cfg.Output
	if err := cli.Abs(&input, &output); err != nil {
		return nil, err
	}
	s, err := extract.Assemblies(deps.FS, input, output, deps.Log)
	if err != nil {
		return nil, err
	}
	deps.Log.Info("Done")
	return &Summary{Summary: *s}, nil
}

// Command creates a new extract command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "extract --input <results-dir> --output <dir>",
		Short: "Copy the contigs of finished assemblies",
		Args:  cobra.NoArgs,
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

// flagSet returns the command-line flags for the Config struct.
func flagSet(name string, cfg *Config) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.StringVar(&cfg.Input, "input", "", "the assembly results folder containing assemblies/*.done")
	set.StringVar(&cfg.Output, "output", "", "the folder to copy contigs into")
	return set
}
