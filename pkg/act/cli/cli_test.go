// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/coassembly/checkpointing/internal/logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zaptest"
)

type testConfig struct {
	Name string
}

func (c testConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type testDeps struct {
	Base
}

type greeting struct {
	Text string
}

func (g *greeting) Report(w io.Writer) error {
	_, err := fmt.Fprint(w, g.Text)
	return err
}

func testInitDeps(context.Context) (*testDeps, error) {
	return &testDeps{}, nil
}

func parseName(cfg *testConfig, args []string) error {
	if len(args) > 0 {
		cfg.Name = args[0]
	}
	return nil
}

func TestSkipArgs(t *testing.T) {
	cfg := &testConfig{}
	if err := SkipArgs(cfg, []string{"ignored"}); err != nil {
		t.Errorf("SkipArgs() error = %v", err)
	}
	if cfg.Name != "" {
		t.Errorf("SkipArgs() set Name = %q", cfg.Name)
	}
}

func TestRunE(t *testing.T) {
	var gotDeps *testDeps
	action := func(ctx context.Context, cfg testConfig, deps *testDeps) (*greeting, error) {
		gotDeps = deps
		deps.Log.Info("greeting")
		return &greeting{Text: "Hello " + cfg.Name}, nil
	}
	cfg := testConfig{}
	cmd := &cobra.Command{
		Use:  "test",
		RunE: RunE(&cfg, parseName, testInitDeps, action),
	}
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"World"})
	l := zaptest.NewLogger(t)
	if err := cmd.ExecuteContext(logging.WithLogger(context.Background(), l)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got, want := out.String(), "Hello World"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if gotDeps.Log != l {
		t.Error("context logger not attached to deps")
	}
	if gotDeps.IO.Out != &out {
		t.Error("command output not attached to deps")
	}
}

func TestRunEValidationFailure(t *testing.T) {
	called := false
	action := func(ctx context.Context, cfg testConfig, deps *testDeps) (*greeting, error) {
		called = true
		return &greeting{}, nil
	}
	cfg := testConfig{}
	cmd := &cobra.Command{
		Use:           "test",
		RunE:          RunE(&cfg, SkipArgs[testConfig], testInitDeps, action),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() with invalid config succeeded")
	}
	if called {
		t.Error("action ran despite invalid config")
	}
}
