// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package cogutil

type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrClosed is returned by [Queue.PopContext] once the queue has been
// cancelled and no buffered items remain.
const ErrClosed = constError("queue closed")
