// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/drzo/opencog-cogutil/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log, err := logger.New(logger.Config{
		Level:          logger.Fine,
		PrintLevel:     true,
		ThreadID:       true,
		PrintToConsole: true,
		Console:        &buf,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = log.Close() })
	return log, &buf
}

func TestRunStress(t *testing.T) {
	chk := require.New(t)
	log, buf := newTestLogger(t)

	result, err := runStress(context.Background(), log, stressConfig{
		Producers: 8,
		Items:     1000,
		Consumers: 4,
	})
	chk.NoError(err)
	chk.Equal(8000, result.Expected)
	chk.Equal(8000, result.Received)
	chk.Zero(result.Missing)
	chk.Zero(result.Duplicated)
	chk.Contains(buf.String(), "received all 8000 items")
	chk.Contains(buf.String(), "[consumer-")
}

func TestRunStressNamedThreads(t *testing.T) {
	chk := require.New(t)
	log, _ := newTestLogger(t)

	result, err := runStress(context.Background(), log, stressConfig{
		Producers:   2,
		Items:       100,
		Consumers:   2,
		NameThreads: true,
	})
	chk.NoError(err)
	chk.Equal(200, result.Received)
}

func TestRunStressCancelled(t *testing.T) {
	chk := require.New(t)
	log, buf := newTestLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := runStress(ctx, log, stressConfig{
		Producers: 2,
		Items:     1000,
		Consumers: 2,
	})
	chk.ErrorIs(err, context.Canceled)
	chk.Zero(result.Duplicated)
	chk.Equal(result.Expected, result.Received+result.Missing)
	chk.Equal(2000, result.Missing)
	chk.Contains(buf.String(), "interrupted with 2000 items unsent")
}

func TestRunStressInterruptAfterAllSent(t *testing.T) {
	chk := require.New(t)
	log, buf := newTestLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nothing is left unsent, so an interrupt isn't a failure.
	result, err := runStress(ctx, log, stressConfig{
		Producers: 2,
		Items:     0,
		Consumers: 2,
	})
	chk.NoError(err)
	chk.Zero(result.Missing)
	chk.NotContains(buf.String(), "interrupted")
}

func TestStressConfigValidate(t *testing.T) {
	for name, tc := range map[string]struct {
		cfg stressConfig
		ok  bool
	}{
		"default":        {cfg: stressConfig{Producers: 8, Items: 1000, Consumers: 4}, ok: true},
		"no items":       {cfg: stressConfig{Producers: 1, Items: 0, Consumers: 1}, ok: true},
		"at limit":       {cfg: stressConfig{Producers: 4, Items: maxStressItems / 4, Consumers: 1}, ok: true},
		"no producers":   {cfg: stressConfig{Producers: 0, Items: 1, Consumers: 1}},
		"no consumers":   {cfg: stressConfig{Producers: 1, Items: 1, Consumers: 0}},
		"negative items": {cfg: stressConfig{Producers: 1, Items: -1, Consumers: 1}},
		"over limit":     {cfg: stressConfig{Producers: 4, Items: maxStressItems/4 + 1, Consumers: 1}},
		"overflow":       {cfg: stressConfig{Producers: math.MaxInt, Items: math.MaxInt, Consumers: 1}},
	} {
		t.Run(name, func(t *testing.T) {
			err := tc.cfg.validate()
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, errBadStressConfig)
			}
		})
	}
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, a := newRootCmd()
	t.Cleanup(a.closeLog)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestStressCommand(t *testing.T) {
	chk := require.New(t)
	logFile := filepath.Join(t.TempDir(), "cogutil.log")

	out, err := executeRoot(t,
		"--log-file", logFile,
		"--log-level", "debug",
		"--no-timestamp",
		"stress", "-p", "3", "-n", strconv.Itoa(50), "-c", "2",
	)
	chk.NoError(err)
	chk.Contains(out, "received 150 of 150 items")
	chk.Contains(out, "[INFO] starting 3 producers x 50 items, 2 consumers")
}

func TestStressCommandRejectsBadCounts(t *testing.T) {
	_, err := executeRoot(t, "--quiet", "--log-file=", "stress", "-c", "0")
	require.ErrorIs(t, err, errBadStressConfig)

	_, err = executeRoot(t, "--quiet", "--log-file=", "stress", "-p", "1000000", "-n", "1000000")
	require.ErrorIs(t, err, errBadStressConfig)
}

func TestInfoCommand(t *testing.T) {
	chk := require.New(t)
	t.Setenv("LOGNAME", "tester")

	out, err := executeRoot(t, "--quiet", "--log-file=", "info")
	chk.NoError(err)
	chk.Contains(out, "pid:")
	chk.Contains(out, "user:         tester")
	chk.Contains(out, "memory usage:")
	chk.Contains(out, "module paths:")
}

func TestBadLogLevel(t *testing.T) {
	_, err := executeRoot(t, "--log-level", "loud", "info")
	require.ErrorContains(t, err, logger.ErrBadLevel.Error())
}
