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

// Package natsbackend implements the "nats://" scheme: a group's channel is
// a NATS subject, and atomic send/recv of group messages is plain
// publish/subscribe on that subject. It is the pack's closest real analogue
// to a Spread-style group bus.
package natsbackend

import (
	"context"
	"strings"
	"sync"

	libuid "github.com/hashicorp/go-uuid"
	libnats "github.com/nats-io/nats.go"

	libbck "github.com/nabbar/gcs/backend"
	liberr "github.com/nabbar/gcs/errors"
)

func init() {
	libbck.Register("nats", New)
}

// subject is the single group channel every member of a given natsbackend
// process joins; the wire framer's own header already carries per-action
// and per-origin identity, so one subject per address is sufficient.
const subjectSuffix = ".gcs"

// seqBooks tracks, per address, the highest global seqno any backend bound
// to that address has reported through ReportSeqno. A plain NATS subject
// has no durable history of its own to consult, so this bookmark is the
// closest this backend gets to the continuity a real view-synchrony layer
// would provide across separate members sharing one Go process (e.g. the
// embedded-server test topology); genuinely separate OS processes would
// need the backend's own total-order layer to supply this, which is this
// library's explicit Non-goal.
var (
	seqBooksMu sync.Mutex
	seqBooks   = make(map[string]uint64)
)

func bumpSeqno(address string, seqno uint64) {
	seqBooksMu.Lock()
	if seqno > seqBooks[address] {
		seqBooks[address] = seqno
	}
	seqBooksMu.Unlock()
}

func nextSeqno(address string) uint64 {
	seqBooksMu.Lock()
	defer seqBooksMu.Unlock()
	return seqBooks[address] + 1
}

type natsBackend struct {
	address string
	origin  string

	mu   sync.Mutex
	conn *libnats.Conn
	sub  *libnats.Subscription
	in   chan libbck.Event
}

// New constructs the Factory bound to the "nats://" scheme; address is a
// NATS server URL (e.g. "127.0.0.1:4222") used as the group's connect
// target and subject namespace.
func New(address string) (libbck.Backend, error) {
	origin, e := libuid.GenerateUUID()
	if e != nil {
		return nil, e
	}

	return &natsBackend{
		address: address,
		origin:  origin,
		in:      make(chan libbck.Event, 256),
	}, nil
}

func (n *natsBackend) Origin() string {
	return n.origin
}

func (n *natsBackend) ReportSeqno(seqno uint64) {
	bumpSeqno(n.address, seqno)
}

func (n *natsBackend) subject() string {
	return "gcs." + strings.ReplaceAll(n.address, ":", "_") + subjectSuffix
}

func (n *natsBackend) Open(_ context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	conn, e := libnats.Connect("nats://" + n.address)
	if e != nil {
		return liberr.CouldNotConnect.Error(e)
	}

	sub, e := conn.Subscribe(n.subject(), func(msg *libnats.Msg) {
		origin, payload := splitEnvelope(msg.Data)
		n.in <- libbck.Event{Message: payload, Origin: origin}
	})
	if e != nil {
		conn.Close()
		return liberr.Backend.Error(e)
	}

	n.conn = conn
	n.sub = sub

	// A single NATS subject has no notion of membership view; a real
	// deployment pairs this backend with an external membership service.
	// Here we synthesize one PRIMARY view per Open, as the minimal
	// contract-satisfying behavior for a single-subject topology.
	n.in <- libbck.Event{View: &libbck.ViewChange{
		Primary:     true,
		ConfID:      1,
		MemberCount: 1,
		MyIndex:     1,
		NextSeqno:   nextSeqno(n.address),
	}}

	return nil
}

func (n *natsBackend) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.sub != nil {
		_ = n.sub.Unsubscribe()
		n.sub = nil
	}
	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
	}
	close(n.in)
	return nil
}

func (n *natsBackend) Send(_ context.Context, p []byte) error {
	n.mu.Lock()
	conn := n.conn
	n.mu.Unlock()

	if conn == nil {
		return liberr.ConnectionClosed.Error()
	}

	return conn.Publish(n.subject(), joinEnvelope(n.origin, p))
}

func (n *natsBackend) Recv(ctx context.Context) (libbck.Event, error) {
	select {
	case ev, ok := <-n.in:
		if !ok {
			return libbck.Event{Closed: true}, nil
		}
		return ev, nil
	case <-ctx.Done():
		return libbck.Event{}, ctx.Err()
	}
}

// joinEnvelope/splitEnvelope stamp the origin onto the NATS payload since a
// plain subject carries no sender identity of its own.
func joinEnvelope(origin string, p []byte) []byte {
	out := make([]byte, 0, len(origin)+1+len(p))
	out = append(out, []byte(origin)...)
	out = append(out, '\n')
	out = append(out, p...)
	return out
}

func splitEnvelope(b []byte) (string, []byte) {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i]), b[i+1:]
		}
	}
	return "", b
}
