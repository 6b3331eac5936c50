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

// Package gcs is a group communication client library: actions submitted on
// one member are fragmented, sent through a pluggable backend, reassembled
// on every member (including the sender) and delivered in an order every
// member agrees on, with every ordered action stamped by a global sequence
// number while the connection is in a primary configuration.
//
//	application
//	    |  Send / Replicate / Recv
//	    v
//	connection core  --fragments-->  backend  --TYPE://ADDRESS-->  group
//
// Create builds a connection bound to a "scheme://address" URL (see the
// backend package for the registered schemes); Open starts the two workers
// that drive it, Close stops them, Destroy releases every resource the
// connection owns.
package gcs

import (
	"context"
	"time"

	libact "github.com/nabbar/gcs/action"
	libcfg "github.com/nabbar/gcs/gcsconfig"
)

// Connection is the application's handle on one member's participation in a
// group. All methods are safe for concurrent use.
type Connection interface {
	// Open joins the group named by the URL given to Create and starts the
	// send/recv workers. Open after Open is a no-op.
	Open(ctx context.Context) error

	// Close leaves the group and stops the workers. The connection may be
	// reopened afterwards. Close on a connection that was never opened, or
	// already closed, is a no-op.
	Close(ctx context.Context) error

	// Destroy closes the connection if still open and then closes the
	// backend through the connection's closer registry. A destroyed
	// connection cannot be reopened.
	Destroy() error

	// Send fragments and transmits an action without waiting for delivery.
	// kind must be DATA or SNAPSHOT. Returns the action_id_local assigned
	// to it, which correlates with the Action eventually observed via Recv.
	Send(kind libact.Kind, payload []byte) (uint64, error)

	// Replicate sends an action and blocks until it is delivered back to
	// this member, returning it fully stamped with its global/local seqno.
	// If the action is delivered as ERROR (e.g. because the connection was
	// non-primary when it reached the front of the queue), Replicate
	// returns the non-primary error.
	Replicate(ctx context.Context, kind libact.Kind, payload []byte) (libact.Action, error)

	// Recv blocks until the next action is delivered, in total order.
	Recv(ctx context.Context) (libact.Action, error)

	// SetLastApplied records the caller's last applied global seqno locally
	// and, while the connection is open, advertises it to the rest of the
	// group as a SERVICE action (observable via Recv, like any other
	// action, but never consuming a global seqno). The library does not
	// itself implement state transfer; a peer watching for SERVICE actions
	// can use the watermark to decide how far behind a given member is. The
	// advertisement is best-effort: it is dropped rather than blocking the
	// caller if the send queue is full, so a later call's fresher watermark
	// simply supersedes it.
	SetLastApplied(seqno libact.Seqno)
	LastApplied() libact.Seqno

	// SetPktSize changes the transport fragment budget for subsequent
	// sends.
	SetPktSize(n int)

	// IsPrimary reports whether the connection currently believes the
	// group is in a primary configuration.
	IsPrimary() bool

	// Uptime reports how long the connection has been open.
	Uptime() time.Duration
}

// Create builds a Connection bound to url ("scheme://address") using cfg for
// its ambient settings. The connection is not yet open.
func Create(cfg libcfg.Config, url string) (Connection, error) {
	return newConnection(cfg, url)
}
