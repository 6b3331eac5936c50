/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package startStop wraps a pair of blocking start/stop functions into a
// restartable, introspectable unit of work.
//
// A Runner runs its start function in its own goroutine. The start function
// is expected to block until the context it receives is cancelled (typically
// by Stop). Stop cancels that context and then invokes the stop function to
// perform any teardown, waiting for the start goroutine to return.
package startStop

import (
	"context"
	"time"
)

// Func is the signature shared by both the start and the stop callback.
type Func func(ctx context.Context) error

// Runner supervises a single start/stop pair, serializing Start/Stop/Restart
// against one another and tracking the last error and current uptime.
type Runner interface {
	// Start launches the start function in a new goroutine. If the runner
	// is already running, the previous instance is stopped first.
	Start(ctx context.Context) error

	// Stop cancels the running start function and runs the stop function,
	// waiting for the start goroutine to return. Safe to call when not
	// running, and safe to call concurrently.
	Stop(ctx context.Context) error

	// Restart stops then starts the runner. Safe to call when not running.
	Restart(ctx context.Context) error

	// IsRunning reports whether the start function is currently executing.
	IsRunning() bool

	// Uptime returns how long the current run has been active, or zero
	// when not running.
	Uptime() time.Duration

	// ErrorsLast returns the most recent error returned by the start or
	// stop function, or nil.
	ErrorsLast() error

	// ErrorsList returns every error observed since the last Start, oldest first.
	ErrorsList() []error
}

// New builds a Runner around the given start/stop functions. Either may be
// nil; a nil function is recorded as an "invalid start function" or
// "invalid stop function" error each time it would have been run.
func New(start, stop Func) Runner {
	return newRunner(start, stop)
}
