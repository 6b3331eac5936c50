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

	libact "github.com/nabbar/gcs/action"
	libbck "github.com/nabbar/gcs/backend"
	libwire "github.com/nabbar/gcs/wire"
)

// runSend is the send worker's body: it drains already-framed fragments and
// hands each atomically to the backend, in submission order.
func (c *connection) runSend(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case frag, ok := <-c.sendCh:
			if !ok {
				return nil
			}
			if e := c.be.Send(ctx, frag); e != nil {
				c.cfg.Logger().WithError(e).Warn("gcs: backend send failed")
			}
		}
	}
}

// runRecv is the recv worker's body: it drains backend events, reassembles
// fragments into actions, stamps them through the sequencer and delivers
// them in the order the backend reported them.
func (c *connection) runRecv(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		ev, e := c.be.Recv(ctx)
		if e != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.cfg.Logger().WithError(e).Warn("gcs: backend recv failed")
			continue
		}
		if ev.Closed {
			return nil
		}

		if ev.View != nil {
			c.handleView(ev.View)
			continue
		}

		c.handleMessage(ev)
	}
}

func (c *connection) stopWorker(_ context.Context) error {
	return nil
}

func (c *connection) handleView(v *libbck.ViewChange) {
	desc := libact.ConfDescriptor{
		NextSeqno:   libact.Seqno(v.NextSeqno),
		ConfID:      v.ConfID,
		MemberCount: v.MemberCount,
		MyIndex:     v.MyIndex,
	}
	_ = desc.DecodeMembers(v.MemberBlob)

	a := c.seq.ViewChange(desc, v.Primary)
	a.Origin = c.be.Origin()
	c.deliver(a)
}

func (c *connection) handleMessage(ev libbck.Event) {
	h, payload, _, e := libwire.Decode(ev.Message)
	if e != nil {
		c.cfg.Logger().WithError(e).Warn("gcs: dropping malformed fragment")
		return
	}
	h.Origin = ev.Origin

	buf, kind, done, e := c.frag.Feed(h, payload)
	if e != nil {
		a := libact.Action{Kind: libact.ERROR, Origin: h.Origin, ActionIDLocal: h.ActionIDLocal}
		c.seq.Assign(&a)
		c.deliver(a)
		return
	}
	if !done {
		return
	}

	a := libact.Action{Kind: kind, Payload: buf, Origin: h.Origin, ActionIDLocal: h.ActionIDLocal}
	c.seq.Assign(&a)
	if a.Global != libact.SeqnoIll {
		c.be.ReportSeqno(uint64(a.Global))
	}
	c.deliver(a)
}

// deliver hands a finished action to the application via Recv, and if it
// was this member's own, to whichever Replicate call is waiting on it.
func (c *connection) deliver(a libact.Action) {
	if a.Origin == c.be.Origin() {
		if v, ok := c.waiters.LoadAndDelete(a.ActionIDLocal); ok {
			if ch, k := v.(chan libact.Action); k {
				ch <- a
			}
		}
	}

	c.deliverCh <- a
}
