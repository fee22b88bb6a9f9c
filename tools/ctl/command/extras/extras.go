// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package extras

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/coassembly/checkpointing/pkg/act/cli"
	"github.com/coassembly/checkpointing/pkg/extract"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Config holds all configuration for the extras command.
type Config struct {
	Input  string
	Output string
}

// Validate ensures the configuration is valid.
func (c Config) Validate() error {
	if c.Input == "" || c.Output == "" {
		return errors.New("input and output are required")
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

// Copied lists the runs whose extras were copied.
type Copied []string

func (c *Copied) Report(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Copied extras for %d assemblies\n", len(*c))
	return err
}

// Handler contains the business logic for the extras command.
func Handler(ctx context.Context, cfg Config, deps *Deps) (*Copied, error) {
	input, output := cfg.Input, cfg.Output
	if err := cli.Abs(&input, &output); err != nil {
		return nil, err
	}
	names, err := extract.Extras(deps.FS, input, output, deps.Log)
	if err != nil {
		return nil, err
	}
	c := Copied(names)
	return &c, nil
}

// Command creates a new extras command instance.
func Command() *cobra.Command {
	cfg := Config{}
	cmd := &cobra.Command{
		Use:   "extras --input <results-dir> --output <dir>",
		Short: "Copy benchmarks and logs of extracted assemblies",
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

func flagSet(name string, cfg *Config) *flag.FlagSet {
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.StringVar(&cfg.Input, "input", "", "the assembly results folder containing assemblies/*.done")
	set.StringVar(&cfg.Output, "output", "", "the folder holding the extracted contigs")
	return set
}
