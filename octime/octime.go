// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package octime measures elapsed wall-clock time against a reference instant.
package octime

import "time"

// Reference records a starting instant. The zero value is uninitialized; call
// [Reference.Init] or use [NewReference].
type Reference struct {
	start time.Time
}

// NewReference returns a Reference initialized to the current time.
func NewReference() Reference {
	var r Reference
	r.Init()
	return r
}

// Init sets the reference instant to the current time.
func (r *Reference) Init() {
	r.start = time.Now()
}

// Initialized reports whether Init has been called.
func (r Reference) Initialized() bool {
	return !r.start.IsZero()
}

// ElapsedMillis returns the number of whole milliseconds since the reference
// instant. It panics if the reference was never initialized.
func (r Reference) ElapsedMillis() uint64 {
	return uint64(r.Elapsed().Milliseconds())
}

// Elapsed returns the time since the reference instant. It panics if the
// reference was never initialized.
func (r Reference) Elapsed() time.Duration {
	if !r.Initialized() {
		panic("reference time not initialized")
	}
	return time.Since(r.start)
}
