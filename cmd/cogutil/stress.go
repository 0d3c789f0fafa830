// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	cogutil "github.com/drzo/opencog-cogutil"
	"github.com/drzo/opencog-cogutil/logger"
	"github.com/drzo/opencog-cogutil/platform"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type constError string

func (e constError) Error() string {
	return string(e)
}

const (
	errDeliveryMismatch = constError("items lost or duplicated")
	errBadStressConfig  = constError("bad stress configuration")
)

// maxStressItems bounds Producers*Items, which sizes the delivery table.
const maxStressItems = 1 << 24

type stressConfig struct {
	Producers   int
	Items       int
	Consumers   int
	NameThreads bool
}

func (cfg stressConfig) validate() error {
	switch {
	case cfg.Producers < 1 || cfg.Consumers < 1:
		return fmt.Errorf("%w: need at least one producer and one consumer", errBadStressConfig)
	case cfg.Items < 0:
		return fmt.Errorf("%w: item count %d is negative", errBadStressConfig, cfg.Items)
	case cfg.Items > 0 && cfg.Producers > maxStressItems/cfg.Items:
		return fmt.Errorf("%w: %d producers x %d items exceeds %d", errBadStressConfig, cfg.Producers, cfg.Items, maxStressItems)
	}
	return nil
}

type stressResult struct {
	Expected   int
	Received   int
	Missing    int
	Duplicated int
	Elapsed    time.Duration
}

func newStressCmd(a *app) *cobra.Command {
	cfg := stressConfig{
		Producers: 8,
		Items:     1000,
		Consumers: max(1, runtime.NumCPU()/2),
	}
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Push items through a work queue from concurrent producers and consumers",
		Long: `stress starts the given number of producers, each pushing its own range of
distinct items onto one queue, and consumers that pop until the queue is
cancelled and drained. The queue is cancelled once every producer is done, or
on interrupt. The run fails unless every item was received exactly once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			result, err := runStress(cmd.Context(), a.log, cfg)
			fmt.Fprintf(cmd.OutOrStdout(), "received %d of %d items in %v (%d missing, %d duplicated)\n",
				result.Received, result.Expected, result.Elapsed.Round(time.Millisecond), result.Missing, result.Duplicated)
			return err
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&cfg.Producers, "producers", "p", cfg.Producers, "number of producer goroutines")
	flags.IntVarP(&cfg.Items, "items", "n", cfg.Items, "items pushed by each producer")
	flags.IntVarP(&cfg.Consumers, "consumers", "c", cfg.Consumers, "number of consumer goroutines")
	flags.BoolVar(&cfg.NameThreads, "name-threads", false, "pin consumers to OS threads named after them")
	return cmd
}

func workerLabel(role string) string {
	return role + "-" + uuid.NewString()[:8]
}

// runStress returns ctx.Err() if ctx ended before the producers pushed every
// item, and errDeliveryMismatch if a completed run lost or duplicated items.
// Items already queued when ctx ends are still drained. cfg must be valid.
func runStress(ctx context.Context, log *logger.Logger, cfg stressConfig) (stressResult, error) {
	var q cogutil.Queue[int]
	result := stressResult{Expected: cfg.Producers * cfg.Items}
	received := make([]atomic.Int32, result.Expected)

	stop := context.AfterFunc(ctx, q.Cancel)
	defer stop()

	log.Infof("starting %d producers x %d items, %d consumers", cfg.Producers, cfg.Items, cfg.Consumers)
	start := time.Now()

	var consumers sync.WaitGroup
	consumers.Add(cfg.Consumers)
	for range cfg.Consumers {
		label := workerLabel("consumer")
		go func() {
			defer consumers.Done()
			wlog := log.Thread(label)
			if cfg.NameThreads {
				// Left locked so the named thread is discarded on exit.
				runtime.LockOSThread()
				if err := platform.SetThreadName(label); err != nil {
					wlog.Debugf("naming thread: %v", err)
				}
			}
			var n int
			for {
				v, ok := q.Pop()
				if !ok {
					break
				}
				received[v].Add(1)
				n++
			}
			wlog.With(zap.Int("items", n)).Debug("consumer finished")
		}()
	}

	var producers sync.WaitGroup
	producers.Add(cfg.Producers)
	for id := range cfg.Producers {
		label := workerLabel("producer")
		go func() {
			defer producers.Done()
			first := id * cfg.Items
			for v := first; v < first+cfg.Items; v++ {
				if q.IsClosed() || ctx.Err() != nil {
					log.Thread(label).Warnf("queue cancelled after %d items", v-first)
					return
				}
				q.Push(v)
			}
			log.Thread(label).Fine("producer finished")
		}()
	}

	producers.Wait()
	stop()
	q.Cancel()
	consumers.Wait()
	result.Elapsed = time.Since(start)

	for i := range received {
		switch n := received[i].Load(); {
		case n == 0:
			result.Missing++
		case n > 1:
			result.Duplicated++
			result.Received += int(n)
		default:
			result.Received++
		}
	}

	if err := ctx.Err(); err != nil && result.Missing > 0 {
		log.Warnf("interrupted with %d items unsent: %v", result.Missing, err)
		return result, err
	}
	if result.Missing > 0 || result.Duplicated > 0 {
		log.Errorf("%d missing, %d duplicated", result.Missing, result.Duplicated)
		return result, errDeliveryMismatch
	}
	log.With(zap.Duration("elapsed", result.Elapsed)).Infof("received all %d items", result.Received)
	return result, nil
}
