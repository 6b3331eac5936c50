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

// Package dummy is the required in-process backend: every member that opens
// the same address joins one loopback hub and sees every member's sends,
// including its own, exactly as a real transport would deliver them back.
package dummy

import (
	"context"
	"sync"

	libuid "github.com/hashicorp/go-uuid"

	libbck "github.com/nabbar/gcs/backend"
	liberr "github.com/nabbar/gcs/errors"
)

func init() {
	libbck.Register("dummy", New)
}

type hub struct {
	mu        sync.Mutex
	confID    int64
	lastSeqno uint64
	members   map[string]chan libbck.Event
}

var (
	hubsMu sync.Mutex
	hubs   = make(map[string]*hub)
)

func getHub(address string) *hub {
	hubsMu.Lock()
	defer hubsMu.Unlock()

	h, ok := hubs[address]
	if !ok {
		h = &hub{members: make(map[string]chan libbck.Event)}
		hubs[address] = h
	}
	return h
}

func (h *hub) broadcastView() {
	h.mu.Lock()
	h.confID++
	v := &libbck.ViewChange{
		Primary:     true,
		ConfID:      h.confID,
		MemberCount: len(h.members),
		NextSeqno:   h.lastSeqno + 1,
	}
	idx := 0
	for _, ch := range h.members {
		idx++
		vv := *v
		vv.MyIndex = idx
		ch <- libbck.Event{View: &vv}
	}
	h.mu.Unlock()
}

// bumpSeqno advances the hub's shared bookmark so the next view broadcast
// (e.g. for a late-joining member) resumes global seqnos from the right
// place instead of every member's own, independently-seeded sequencer.
func (h *hub) bumpSeqno(seqno uint64) {
	h.mu.Lock()
	if seqno > h.lastSeqno {
		h.lastSeqno = seqno
	}
	h.mu.Unlock()
}

func (h *hub) join(origin string) chan libbck.Event {
	ch := make(chan libbck.Event, 256)

	h.mu.Lock()
	h.members[origin] = ch
	h.mu.Unlock()

	h.broadcastView()
	return ch
}

func (h *hub) leave(origin string) {
	h.mu.Lock()
	ch, ok := h.members[origin]
	if ok {
		delete(h.members, origin)
		close(ch)
	}
	h.mu.Unlock()

	if ok {
		h.broadcastView()
	}
}

func (h *hub) send(origin string, p []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := make([]byte, len(p))
	copy(msg, p)

	for _, ch := range h.members {
		ch <- libbck.Event{Message: msg, Origin: origin}
	}
}

type dummyBackend struct {
	address string
	origin  string
	h       *hub
	in      chan libbck.Event

	mu     sync.Mutex
	closed bool
}

// New constructs the dummy backend's Factory; the address part of the URL
// names the in-process group, "" being a valid, distinct group.
func New(address string) (libbck.Backend, error) {
	origin, e := libuid.GenerateUUID()
	if e != nil {
		return nil, e
	}

	return &dummyBackend{
		address: address,
		origin:  origin,
		h:       getHub(address),
	}, nil
}

func (d *dummyBackend) Origin() string {
	return d.origin
}

func (d *dummyBackend) ReportSeqno(seqno uint64) {
	d.h.bumpSeqno(seqno)
}

func (d *dummyBackend) Open(_ context.Context) error {
	d.in = d.h.join(d.origin)
	return nil
}

func (d *dummyBackend) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.h.leave(d.origin)
	return nil
}

func (d *dummyBackend) Send(_ context.Context, p []byte) error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()

	if closed {
		return liberr.ConnectionClosed.Error()
	}

	d.h.send(d.origin, p)
	return nil
}

func (d *dummyBackend) Recv(ctx context.Context) (libbck.Event, error) {
	select {
	case ev, ok := <-d.in:
		if !ok {
			return libbck.Event{Closed: true}, nil
		}
		return ev, nil
	case <-ctx.Done():
		return libbck.Event{}, ctx.Err()
	}
}
