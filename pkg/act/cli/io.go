// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package cli provides utilities for building CLI commands using the act framework.
package cli

import (
	"io"

	"go.uber.org/zap"
)

// IO provides input/output streams for CLI commands.
type IO struct {
	In  io.Reader // stdin
	Out io.Writer // stdout
	Err io.Writer // stderr
}

// Base implements Deps. Command dependency containers embed it.
type Base struct {
	IO  IO
	Log *zap.Logger
}

func (b *Base) SetIO(cio IO) { b.IO = cio }

func (b *Base) SetLogger(l *zap.Logger) { b.Log = l }
