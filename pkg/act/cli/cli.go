// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/coassembly/checkpointing/internal/logging"
	"github.com/coassembly/checkpointing/pkg/act"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Deps is implemented by command dependency containers.
type Deps interface {
	SetIO(IO)
	SetLogger(*zap.Logger)
}

// ParseArgs populates an Input from positional arguments.
type ParseArgs[I act.Input] func(in *I, args []string) error

// SkipArgs is a ParseArgs that sets no arguments.
func SkipArgs[I act.Input](cfg *I, args []string) error {
	return nil
}

// RunE constructs a cobra.Command.RunE from act components.
// This function wires together:
//  1. Parsing positional arguments into the Input
//  2. Validating the Input
//  3. Initializing dependencies
//  4. Attaching IO streams and the context logger to dependencies
//  5. Executing the action
//  6. Reporting the output, when it is an act.Reporter
func RunE[I act.Input, O any, D Deps](
	cfg *I,
	parseArgs ParseArgs[I],
	initDeps act.InitDeps[D],
	action act.Action[I, O, D],
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := parseArgs(cfg, args); err != nil {
			return err
		}
		if err := (*cfg).Validate(); err != nil {
			return err
		}
		ctx := cmd.Context()
		deps, err := initDeps(ctx)
		if err != nil {
			return errors.Wrap(err, "initializing dependencies")
		}
		cio := IO{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
			Err: cmd.ErrOrStderr(),
		}
		deps.SetIO(cio)
		deps.SetLogger(logging.FromContext(ctx))
		out, err := action(ctx, *cfg, deps)
		if err != nil {
			return err
		}
		if r, ok := any(out).(act.Reporter); ok && out != nil {
			return r.Report(cio.Out)
		}
		return nil
	}
}
