// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"path/filepath"

	"github.com/pkg/errors"
)

// Abs rewrites each path in place as an absolute path.
func Abs(paths ...*string) error {
	for _, p := range paths {
		abs, err := filepath.Abs(*p)
		if err != nil {
			return errors.Wrapf(err, "resolving %s", *p)
		}
		*p = abs
	}
	return nil
}
