// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package billyx

import (
	"os"
	"sync"

	"github.com/go-git/go-billy/v5"
)

// Locked serializes the metadata operations of a billy.Filesystem.
//
// memfs keeps its directory tree in unguarded maps, so concurrent workers
// sharing one memfs must go through Locked. Reads and writes on the returned
// billy.File values are not serialized.
type Locked struct {
	fs billy.Filesystem
	mu *sync.Mutex
}

// NewLocked wraps fs.
func NewLocked(fs billy.Filesystem) *Locked {
	return &Locked{fs: fs, mu: &sync.Mutex{}}
}

func (l *Locked) do(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

func (l *Locked) Chroot(path string) (billy.Filesystem, error) {
	var sub billy.Filesystem
	err := l.do(func() (err error) {
		sub, err = l.fs.Chroot(path)
		return err
	})
	if err != nil {
		return nil, err
	}
	// Chrooted views share the parent's storage and so its mutex.
	return &Locked{fs: sub, mu: l.mu}, nil
}

func (l *Locked) Root() string { return l.fs.Root() }

func (l *Locked) Join(elem ...string) string { return l.fs.Join(elem...) }

func (l *Locked) OpenFile(filename string, flag int, perm os.FileMode) (f billy.File, err error) {
	err = l.do(func() (err error) {
		f, err = l.fs.OpenFile(filename, flag, perm)
		return err
	})
	return f, err
}

func (l *Locked) Create(filename string) (billy.File, error) {
	return l.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
}

func (l *Locked) Open(filename string) (billy.File, error) {
	return l.OpenFile(filename, os.O_RDONLY, 0)
}

func (l *Locked) TempFile(dir, prefix string) (f billy.File, err error) {
	err = l.do(func() (err error) {
		f, err = l.fs.TempFile(dir, prefix)
		return err
	})
	return f, err
}

func (l *Locked) MkdirAll(path string, perm os.FileMode) error {
	return l.do(func() error { return l.fs.MkdirAll(path, perm) })
}

func (l *Locked) Rename(from, to string) error {
	return l.do(func() error { return l.fs.Rename(from, to) })
}

func (l *Locked) Remove(filename string) error {
	return l.do(func() error { return l.fs.Remove(filename) })
}

func (l *Locked) Symlink(target, link string) error {
	return l.do(func() error { return l.fs.Symlink(target, link) })
}

func (l *Locked) Stat(filename string) (info os.FileInfo, err error) {
	err = l.do(func() (err error) {
		info, err = l.fs.Stat(filename)
		return err
	})
	return info, err
}

func (l *Locked) Lstat(filename string) (info os.FileInfo, err error) {
	err = l.do(func() (err error) {
		info, err = l.fs.Lstat(filename)
		return err
	})
	return info, err
}

func (l *Locked) ReadDir(path string) (infos []os.FileInfo, err error) {
	err = l.do(func() (err error) {
		infos, err = l.fs.ReadDir(path)
		return err
	})
	return infos, err
}

func (l *Locked) Readlink(link string) (target string, err error) {
	err = l.do(func() (err error) {
		target, err = l.fs.Readlink(link)
		return err
	})
	return target, err
}

func (l *Locked) Capabilities() billy.Capability {
	return billy.Capabilities(l.fs)
}

var _ billy.Filesystem = (*Locked)(nil)
var _ billy.Capable = (*Locked)(nil)
