// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package act describes a command as a validated input, the dependencies it
// runs against, and the action joining the two.
package act

import (
	"context"
	"io"
)

// Input is a validated input type (config, request, etc.)
type Input interface {
	Validate() error
}

// Deps is a marker type for dependency containers.
type Deps any

// InitDeps initializes dependencies from context.
type InitDeps[D Deps] func(context.Context) (D, error)

// Action is a transport-agnostic operation.
type Action[I Input, O any, D Deps] func(context.Context, I, D) (*O, error)

// Reporter is implemented by outputs that have a human-readable summary.
type Reporter interface {
	Report(io.Writer) error
}
