// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"log"

	"github.com/coassembly/checkpointing/internal/logging"
	"github.com/coassembly/checkpointing/tools/ctl/command/extract"
	"github.com/coassembly/checkpointing/tools/ctl/command/extras"
	"github.com/coassembly/checkpointing/tools/ctl/command/prepare"
	"github.com/coassembly/checkpointing/tools/ctl/command/process"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debug bool
	quiet bool
)

var rootCmd = &cobra.Command{
	Use:           "assemblyctl",
	Short:         "Tools for preparing and collecting metagenomic coassembly runs",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := logging.New(logging.Level(debug, quiet))
		if err != nil {
			return errors.Wrap(err, "initializing logger")
		}
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		logger.Debug("Starting", zap.String("command", cmd.CommandPath()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Sync fails on terminals. Nothing to do about it.
		_ = logging.FromContext(cmd.Context()).Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "only log errors")

	rootCmd.AddCommand(prepare.Command())
	rootCmd.AddCommand(extract.Command())
	rootCmd.AddCommand(extras.Command())
	rootCmd.AddCommand(process.Command())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
