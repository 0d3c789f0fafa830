// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/drzo/opencog-cogutil/files"
	"github.com/drzo/opencog-cogutil/platform"
	"github.com/spf13/cobra"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print process and platform information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.printInfo(cmd.OutOrStdout())
		},
	}
}

func (a *app) printInfo(w io.Writer) error {
	exe, err := platform.ExePath()
	if err != nil {
		return err
	}
	cwd, err := platform.CurrentDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "pid:          %d\n", platform.PID())
	fmt.Fprintf(w, "user:         %s\n", platform.UserName())
	fmt.Fprintf(w, "executable:   %s\n", exe)
	fmt.Fprintf(w, "directory:    %s\n", cwd)
	fmt.Fprintf(w, "total RAM:    %s\n", a.ram("total", platform.TotalRAM))
	fmt.Fprintf(w, "free RAM:     %s\n", a.ram("free", platform.FreeRAM))
	fmt.Fprintf(w, "memory usage: %s\n", a.ram("used", platform.MemUsage))
	fmt.Fprintln(w, "module paths:")
	for _, p := range files.ModulePaths() {
		fmt.Fprintf(w, "  %s\n", files.ExpandPath(p))
	}
	return nil
}

func (a *app) ram(which string, f func() (uint64, error)) string {
	n, err := f()
	if err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			a.log.Debugf("%s RAM: %v", which, err)
		} else {
			a.log.Warnf("%s RAM: %v", which, err)
		}
		return "unavailable"
	}
	return fmt.Sprintf("%d MiB", n>>20)
}
