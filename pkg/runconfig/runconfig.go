// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package runconfig renders one assembly workflow configuration per
// coassembly from a list of paired read files.
package runconfig

import (
	"bufio"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/coassembly/checkpointing/internal/billyx"
	"github.com/coassembly/checkpointing/pkg/assembler"
	"github.com/go-git/go-billy/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"
)

const (
	forwardSuffix = "_1.fastq.gz"
	reverseSuffix = "_2.fastq.gz"
)

var coassemblyPattern = regexp.MustCompile(`coassembly_\d+`)

var (
	ErrMalformedInput = errors.New("malformed read list")
	ErrDuplicateName  = errors.New("duplicate coassembly")
)

// Format is the serialization of a rendered Config.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// Resources are the scheduler requests for one assembly job.
type Resources struct {
	Runtime string `yaml:"runtime" toml:"runtime"`
	MemMB   int    `yaml:"mem_mb" toml:"mem_mb"`
}

// Config configures a single coassembly run.
type Config struct {
	Assembler       string    `yaml:"assembler" toml:"assembler"`
	OutputDirectory string    `yaml:"output_directory" toml:"output_directory"`
	R1              string    `yaml:"r1" toml:"r1"`
	R2              string    `yaml:"r2" toml:"r2"`
	Threads         int       `yaml:"threads" toml:"threads"`
	Resources       Resources `yaml:"resources" toml:"resources"`
}

// Defaults are applied to every generated Config.
type Defaults struct {
	Assembler assembler.Kind
	Threads   int
	MemMB     int
	Runtime   string
}

// DefaultDefaults match the resources requested by a typical megahit
// coassembly.
var DefaultDefaults = Defaults{
	Assembler: assembler.Megahit,
	Threads:   32,
	MemMB:     256000,
	Runtime:   "48h",
}

// Validate checks that d can produce runnable configurations.
func (d Defaults) Validate() error {
	if assembler.ParseKind(string(d.Assembler)) == assembler.Unknown {
		return errors.Errorf("unknown assembler %q", d.Assembler)
	}
	if d.Threads < 1 {
		return errors.New("threads must be positive")
	}
	if d.MemMB < 1 {
		return errors.New("mem_mb must be positive")
	}
	if d.Runtime == "" {
		return errors.New("runtime is required")
	}
	return nil
}

// Named pairs a Config with its coassembly name.
type Named struct {
	Name   string
	Config Config
}

// Parse reads forward read paths from r, one per line, and builds a Config
// for each. Runs are placed in subdirectories of output.
func Parse(r io.Reader, output string, d Defaults) ([]Named, error) {
	var out []Named
	seen := make(map[string]int)
	s := bufio.NewScanner(r)
	for n := 1; s.Scan(); n++ {
		forward := strings.TrimSpace(s.Text())
		if forward == "" {
			continue
		}
		if !strings.HasSuffix(forward, forwardSuffix) {
			return nil, errors.Wrapf(ErrMalformedInput, "line %d: %q does not end in %s", n, forward, forwardSuffix)
		}
		name := coassemblyPattern.FindString(forward)
		if name == "" {
			return nil, errors.Wrapf(ErrMalformedInput, "line %d: %q has no coassembly name", n, forward)
		}
		if prev, ok := seen[name]; ok {
			return nil, errors.Wrapf(ErrDuplicateName, "%s on lines %d and %d", name, prev, n)
		}
		seen[name] = n
		out = append(out, Named{
			Name: name,
			Config: Config{
				Assembler:       string(d.Assembler),
				OutputDirectory: filepath.Join(output, name),
				R1:              forward,
				R2:              strings.TrimSuffix(forward, forwardSuffix) + reverseSuffix,
				Threads:         d.Threads,
				Resources: Resources{
					Runtime: d.Runtime,
					MemMB:   d.MemMB,
				},
			},
		})
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "reading read list")
	}
	return out, nil
}

// Encode serializes c in format f.
func Encode(w io.Writer, c Config, f Format) error {
	switch f {
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return enc.Close()
	case TOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(c), "encoding toml")
	default:
		return errors.Errorf("unknown format %q", f)
	}
}

// Write renders each config to <output>/<name>.<format>.
func Write(fs billy.Filesystem, output string, configs []Named, f Format) ([]string, error) {
	if err := fs.MkdirAll(output, 0755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", output)
	}
	paths := make([]string, 0, len(configs))
	for _, nc := range configs {
		path := filepath.Join(output, nc.Name+"."+string(f))
		err := billyx.WriteFileAtomic(fs, path, func(w io.Writer) error {
			return Encode(w, nc.Config, f)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "writing %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
