// SPDX-FileCopyrightText: 2026 The bogotest authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bogo-os/bogotest/internal/config"
	"github.com/bogo-os/bogotest/internal/harness"
)

const defaultConfigFile = "bogotest.toml"

// IO provides input and output details for the command.
type IO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type options struct {
	configPath string
	kernel     string
	qemu       string
	artifact   string
	verbose    bool
}

func newRootCommand(cfg IO) *cobra.Command {
	opts := options{}

	root := &cobra.Command{
		Use:           "bogotest",
		Short:         "Boot the BogoKernel in QEMU and verify its console output",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cfg)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", defaultConfigFile,
		"path to the run configuration file")
	flags.StringVar(&opts.kernel, "kernel", "",
		"kernel image path, overrides the config file")
	flags.StringVar(&opts.qemu, "qemu", "",
		"qemu-system binary, overrides the config file")
	flags.StringVar(&opts.artifact, "artifact", "",
		"transcript artifact path, overrides the config file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false,
		"enable debug logging")

	root.SetOut(cfg.Stdout)
	root.SetErr(cfg.Stderr)

	return root
}

func run(ctx context.Context, opts options, cfg IO) error {
	setupLogging(cfg.Stderr, opts.verbose)

	runCfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if opts.kernel != "" {
		runCfg.Kernel = opts.kernel
	}

	if opts.qemu != "" {
		runCfg.Qemu = opts.qemu
	}

	if opts.artifact != "" {
		runCfg.Artifact = opts.artifact
	}

	report, err := harness.New(runCfg, cfg.Stdout, cfg.Stdout).Run(ctx)
	if err != nil {
		return err
	}

	if !report.AllPassed() {
		return errExpectationsFailed
	}

	return nil
}

// Run is the main entry point for the CLI command. It returns the process
// exit code: 0 if every expectation passed, 1 otherwise.
func Run(ctx context.Context, args []string, cfg IO) int {
	root := newRootCommand(cfg)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errExpectationsFailed) {
			slog.Error(err.Error())
		}

		return 1
	}

	return 0
}
