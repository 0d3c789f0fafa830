// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Command cogutil reports platform information and exercises the work queue
// under concurrent load.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
	"github.com/drzo/opencog-cogutil/logger"
	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=..." at build time.
var version = "dev"

// app carries the state shared by all subcommands. The logger is created once
// flags are parsed and closed when main returns.
type app struct {
	logCfg logger.Config
	log    *logger.Logger
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{logCfg: logger.DefaultConfig()}
	var quiet, noTimestamp bool

	root := &cobra.Command{
		Use:          "cogutil",
		Short:        "Platform utilities for the OpenCog toolchain",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logCfg.PrintToConsole = !quiet
			a.logCfg.Timestamp = !noTimestamp
			a.logCfg.Console = cmd.ErrOrStderr()
			log, err := logger.New(a.logCfg)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.Var(&a.logCfg.Level, "log-level", "most verbose level logged (NONE, ERROR, WARN, INFO, DEBUG, FINE)")
	flags.StringVar(&a.logCfg.FileName, "log-file", a.logCfg.FileName, "file to append log lines to; empty disables")
	flags.BoolVar(&noTimestamp, "no-timestamp", false, "omit timestamps from log lines")
	flags.BoolVar(&a.logCfg.ThreadID, "thread-id", false, "label log lines with the worker that wrote them")
	flags.BoolVar(&quiet, "quiet", false, "do not log to the console")

	root.AddCommand(newInfoCmd(a), newStressCmd(a))
	return root, a
}

func (a *app) closeLog() {
	if a.log != nil {
		_ = a.log.Close()
		a.log = nil
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root, a := newRootCmd()
	err := fang.Execute(ctx, root)
	a.closeLog()
	stop()
	if err != nil {
		os.Exit(1)
	}
}
