// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package cogutil provides [Queue], a cancellable blocking work queue for
// handing items between producer and consumer goroutines, along with the
// platform utilities (logging, path resolution, OS helpers) shared by the
// rest of the cognitive-architecture code base.
//
// A Queue is unbounded and strictly FIFO. Consumers block in [Queue.Pop]
// until an item arrives or the queue is cancelled, at which point every
// blocked consumer wakes up. Cancellation is permanent: later pushes are
// dropped, while items that were already buffered can still be drained.
//
// The utility packages live alongside:
//
//   - [github.com/drzo/opencog-cogutil/logger] for leveled logging to a
//     console stream and a log file,
//   - [github.com/drzo/opencog-cogutil/platform] for process, environment and
//     directory helpers,
//   - [github.com/drzo/opencog-cogutil/files] for module search paths and
//     file loading,
//   - [github.com/drzo/opencog-cogutil/octime] for elapsed-time measurement,
//   - [github.com/drzo/opencog-cogutil/selector] for lazy selection of
//     distinct indices.
package cogutil
