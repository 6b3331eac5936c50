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

// Package backend defines the narrow capability set a concrete
// group-messaging driver must expose, and a URL-scheme registry used to
// construct one by name. Drivers live in sub-packages (dummy, natsbackend,
// raftbackend); this package only holds the contract and the registry.
//
//	application
//	    |
//	    v
//	connection core  --send/recv-->  Backend  --TYPE://ADDRESS-->  group
//
// Backends never interpret action payloads; they move opaque, already
// wire-framed bytes and report view changes.
package backend

import (
	"context"
)

// Event is what Recv yields: either a message from a peer, a view change,
// or an indication that the backend has been closed.
type Event struct {
	// Message is set when this event carries a peer's bytes.
	Message []byte
	// Origin identifies the sender of Message.
	Origin string
	// View is set on a membership/configuration change; Message is empty.
	View *ViewChange
	// Closed reports that the backend will yield no further events.
	Closed bool
}

// ViewChange describes a new configuration, primary or not.
type ViewChange struct {
	Primary     bool
	ConfID      int64
	MemberCount int
	MyIndex     int
	MemberBlob  []byte

	// NextSeqno is the group-agreed value a fresh PRIMARY configuration's
	// global sequence must resume from: 1 for the group's first-ever
	// primary, or one past the highest global seqno any member has reported
	// through ReportSeqno otherwise. A connection core must take this from
	// the view, never derive it from its own sequencer, or two members
	// would assign different globals to the same action (spec §3: "Valid
	// group seqnos are >= 1", "unique across the whole group history").
	NextSeqno uint64
}

// Backend is the adapter a connection core drives. Open/Close/Send/Recv
// must all be safe to call from different goroutines, though a connection
// core only ever calls Send from its send worker and Recv from its recv
// worker.
type Backend interface {
	// Origin returns this backend's own identity, as stamped on every event
	// it reports for messages it itself sent.
	Origin() string

	// Open joins the channel named by the URL given to New.
	Open(ctx context.Context) error

	// Close leaves the channel; further Send calls return a closed error,
	// and Recv reports an Event with Closed set once pending events drain.
	Close() error

	// Send transmits bytes atomically; len(p) must not exceed the packet
	// size this backend was configured with.
	Send(ctx context.Context, p []byte) error

	// Recv blocks until the next event is available.
	Recv(ctx context.Context) (Event, error)

	// ReportSeqno informs the backend of a global seqno a connection core
	// just assigned to an ordered action, so the backend can track group
	// continuity and populate ViewChange.NextSeqno on the next view it
	// reports. Every member assigns the same seqno to the same action (the
	// backend's own total-order promise), so concurrent reports from
	// different members converge on the same bookmark.
	ReportSeqno(seqno uint64)
}

// Factory constructs a Backend from a URL's address part (the scheme has
// already been stripped and used to select the factory).
type Factory func(address string) (Backend, error)
