/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
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

package gcs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	libact "github.com/nabbar/gcs/action"
	libbck "github.com/nabbar/gcs/backend"
	libatm "github.com/nabbar/gcs/atomic"
	libctx "github.com/nabbar/gcs/context"
	liberr "github.com/nabbar/gcs/errors"
	libcfg "github.com/nabbar/gcs/gcsconfig"
	libmc "github.com/nabbar/gcs/ioutils/mapCloser"
	librun "github.com/nabbar/gcs/runner/startStop"
	libseq "github.com/nabbar/gcs/sequencer"
	libwire "github.com/nabbar/gcs/wire"
)

// connection ties the fragmenter, sequencer and a backend together behind
// the two-worker pipeline spec.md describes: one goroutine drains outgoing
// fragments, the other drains inbound backend events into reassembled,
// sequenced actions.
type connection struct {
	cfg libcfg.Config
	url string
	be  libbck.Backend

	seq  *libseq.Sequencer
	frag *libwire.Reassembler

	// waiters holds one buffered channel per in-flight Replicate call,
	// keyed by the action_id_local it is waiting to see delivered back.
	waiters libctx.Config[uint64]

	actionID atomic.Uint64

	sendCh    chan []byte
	deliverCh chan libact.Action

	sendRunner librun.Runner
	recvRunner librun.Runner

	closer libmc.Closer

	mu          sync.Mutex
	open        bool
	destroyed   bool
	since       libatm.Value[time.Time]
	lastApplied libatm.Value[libact.Seqno]

	rootCancel context.CancelFunc
}

func newConnection(cfg libcfg.Config, url string) (*connection, error) {
	if cfg == nil {
		cfg = libcfg.New()
	}

	be, e := libbck.New(url)
	if e != nil {
		return nil, e
	}

	c := &connection{
		cfg:         cfg,
		url:         url,
		be:          be,
		seq:         libseq.New(),
		frag:        libwire.NewReassembler(),
		waiters:     libctx.New[uint64](context.Background()),
		sendCh:      make(chan []byte, 256),
		deliverCh:   make(chan libact.Action, 256),
		closer:      libmc.New(context.Background()),
		since:       libatm.NewValue[time.Time](),
		lastApplied: libatm.NewValue[libact.Seqno](),
	}

	c.closer.Add(be)
	c.sendRunner = librun.New(c.runSend, c.stopWorker)
	c.recvRunner = librun.New(c.runRecv, c.stopWorker)

	return c, nil
}

func (c *connection) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return errDestroyed
	}
	if c.open {
		return nil
	}

	if e := c.be.Open(ctx); e != nil {
		return e
	}

	rootCtx, cancel := context.WithCancel(context.Background())
	c.rootCancel = cancel

	if e := c.sendRunner.Start(rootCtx); e != nil {
		cancel()
		return e
	}
	if e := c.recvRunner.Start(rootCtx); e != nil {
		_ = c.sendRunner.Stop(ctx)
		cancel()
		return e
	}

	c.open = true
	c.since.Store(time.Now())
	return nil
}

func (c *connection) Close(ctx context.Context) error {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return nil
	}
	c.open = false
	c.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error { return c.sendRunner.Stop(ctx) })
	g.Go(func() error { return c.recvRunner.Stop(ctx) })
	e := g.Wait()

	if c.rootCancel != nil {
		c.rootCancel()
	}

	if e2 := c.be.Close(); e == nil {
		e = e2
	}

	return e
}

func (c *connection) Destroy() error {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil
	}
	c.destroyed = true
	open := c.open
	c.mu.Unlock()

	var e error
	if open {
		e = c.Close(context.Background())
	}

	if e2 := c.closer.Close(); e == nil {
		e = e2
	}

	return e
}

func (c *connection) Send(kind libact.Kind, payload []byte) (uint64, error) {
	if !kind.IsSendable() {
		return 0, errNotSendable
	}

	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return 0, errNotOpen
	}

	id := c.actionID.Add(1)
	frags, e := libwire.Split(c.be.Origin(), id, kind, payload, c.cfg.PktSize())
	if e != nil {
		return 0, e
	}

	for _, f := range frags {
		c.sendCh <- f
	}
	return id, nil
}

func (c *connection) Replicate(ctx context.Context, kind libact.Kind, payload []byte) (libact.Action, error) {
	if !kind.IsSendable() {
		return libact.Action{}, errNotSendable
	}

	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return libact.Action{}, errNotOpen
	}

	id := c.actionID.Add(1)
	ch := make(chan libact.Action, 1)
	c.waiters.Store(id, ch)

	frags, e := libwire.Split(c.be.Origin(), id, kind, payload, c.cfg.PktSize())
	if e != nil {
		c.waiters.LoadAndDelete(id)
		return libact.Action{}, e
	}

	for _, f := range frags {
		select {
		case c.sendCh <- f:
		case <-ctx.Done():
			c.waiters.LoadAndDelete(id)
			return libact.Action{}, ctx.Err()
		}
	}

	select {
	case a := <-ch:
		if a.Kind == libact.ERROR {
			return a, liberr.NonPrimary.Error()
		}
		return a, nil
	case <-ctx.Done():
		c.waiters.LoadAndDelete(id)
		return libact.Action{}, ctx.Err()
	}
}

func (c *connection) Recv(ctx context.Context) (libact.Action, error) {
	select {
	case a, ok := <-c.deliverCh:
		if !ok {
			return libact.Action{}, errNotOpen
		}
		return a, nil
	case <-ctx.Done():
		return libact.Action{}, ctx.Err()
	}
}

// SetLastApplied records the watermark locally and, best-effort, advertises
// it to the rest of the group as a SERVICE action: if the send worker's
// queue is full the advertisement is dropped rather than blocking the
// caller, since a later call will advertise a more current watermark anyway.
func (c *connection) SetLastApplied(seqno libact.Seqno) {
	c.lastApplied.Store(seqno)

	c.mu.Lock()
	open := c.open
	c.mu.Unlock()
	if !open {
		return
	}

	payload, e := libact.EncodeWatermark(libact.Watermark{LastApplied: seqno})
	if e != nil {
		c.cfg.Logger().WithError(e).Warn("gcs: could not encode last-applied watermark")
		return
	}

	id := c.actionID.Add(1)
	frags, e := libwire.Split(c.be.Origin(), id, libact.SERVICE, payload, c.cfg.PktSize())
	if e != nil {
		c.cfg.Logger().WithError(e).Warn("gcs: could not frame last-applied watermark")
		return
	}

	for _, f := range frags {
		select {
		case c.sendCh <- f:
		default:
			c.cfg.Logger().Warn("gcs: dropped last-applied watermark, send queue full")
			return
		}
	}
}

func (c *connection) LastApplied() libact.Seqno {
	return c.lastApplied.Load()
}

func (c *connection) SetPktSize(n int) {
	c.cfg.SetPktSize(n)
}

func (c *connection) IsPrimary() bool {
	return c.seq.IsPrimary()
}

func (c *connection) Uptime() time.Duration {
	c.mu.Lock()
	open := c.open
	since := c.since.Load()
	c.mu.Unlock()

	if !open {
		return 0
	}
	return time.Since(since)
}
