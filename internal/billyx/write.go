// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

package billyx

import (
	"io"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
)

// WriteFileAtomic streams the output of write into a temporary file next to
// path and renames it into place once write and Close both succeed. On any
// failure the temporary file is removed and path is left untouched.
func WriteFileAtomic(fs billy.Filesystem, path string, write func(io.Writer) error) error {
	tmp, err := fs.TempFile(filepath.Dir(path), "."+filepath.Base(path))
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	name := tmp.Name()
	if err := write(tmp); err != nil {
		tmp.Close()
		fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(name)
		return errors.Wrap(err, "closing temp file")
	}
	if err := fs.Rename(name, path); err != nil {
		fs.Remove(name)
		return errors.Wrapf(err, "renaming into %s", path)
	}
	return nil
}
