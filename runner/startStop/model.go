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

package startStop

import (
	"context"
	"errors"
	"sync"
	"time"

	libatm "github.com/nabbar/gcs/atomic"
)

type runner struct {
	mu sync.Mutex

	fnStart Func
	fnStop  Func

	running libatm.Value[bool]
	since   libatm.Value[time.Time]
	lastErr libatm.Value[error]
	errs    libatm.Value[[]error]

	cancel context.CancelFunc
	done   chan struct{}
}

func newRunner(start, stop Func) *runner {
	r := &runner{
		fnStart: start,
		fnStop:  stop,
		running: libatm.NewValue[bool](),
		since:   libatm.NewValue[time.Time](),
		lastErr: libatm.NewValue[error](),
		errs:    libatm.NewValue[[]error](),
	}
	r.errs.Store(make([]error, 0))
	return r
}

func (r *runner) addError(e error) {
	if e == nil {
		return
	}
	r.lastErr.Store(e)
	r.errs.Store(append(r.errs.Load(), e))
}

func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running.Load() {
		r.stopLocked(ctx)
	}

	r.errs.Store(make([]error, 0))

	cx, cn := context.WithCancel(ctx)
	r.cancel = cn
	r.done = make(chan struct{})
	r.since.Store(time.Now())
	r.running.Store(true)

	fn := r.fnStart
	done := r.done

	go func() {
		defer close(done)
		defer r.running.Store(false)
		defer r.since.Store(time.Time{})

		if fn == nil {
			r.addError(errors.New("invalid start function"))
			return
		}
		if e := fn(cx); e != nil {
			r.addError(e)
		}
	}()

	return nil
}

func (r *runner) stopLocked(ctx context.Context) error {
	if !r.running.Load() {
		return nil
	}

	if r.cancel != nil {
		r.cancel()
	}

	if r.fnStop != nil {
		if e := r.fnStop(ctx); e != nil {
			r.addError(e)
		}
	} else {
		r.addError(errors.New("invalid stop function"))
	}

	if r.done != nil {
		<-r.done
	}

	return nil
}

func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopLocked(ctx)
}

func (r *runner) Restart(ctx context.Context) error {
	r.mu.Lock()
	if r.running.Load() {
		_ = r.stopLocked(ctx)
	}
	r.mu.Unlock()

	return r.Start(ctx)
}

func (r *runner) IsRunning() bool {
	return r.running.Load()
}

func (r *runner) Uptime() time.Duration {
	since := r.since.Load()
	if since.IsZero() {
		return 0
	}
	return time.Since(since)
}

func (r *runner) ErrorsLast() error {
	return r.lastErr.Load()
}

func (r *runner) ErrorsList() []error {
	return r.errs.Load()
}
