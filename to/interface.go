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

// Package to implements the Total Order monitor: a bounded ring of seqno
// slots that releases waiters strictly in sequence-number order.
//
// Slot states form this cycle, indexed by seqno mod len:
//
//	empty --grab--> waiting --release--> used
//	           |         |--cancel----> cancelled
//	           |         |--withdraw---> withdrawn --renew_wait--> waiting
//	           '--self_cancel (skips straight to "released without grab")
//
// A withdrawn slot blocks advancement of the released watermark r until it
// is either renewed and grabbed/released, or self-cancelled — the policy
// spec.md documents as the recommended resolution of withdraw's otherwise
// ambiguous interaction with release ordering.
package to

import (
	libact "github.com/nabbar/gcs/action"
)

// Monitor is a seqno-indexed barrier: grab(s) blocks until every seqno below
// s has been released (or cancelled out of the way), release(s) must be
// called by whichever goroutine's grab(s) returned successfully.
type Monitor interface {
	// Grab blocks until seqno s may enter its critical section, or until
	// s is cancelled. Returns ErrAgain if s is further ahead of the
	// released watermark than the ring's capacity.
	Grab(s libact.Seqno) error

	// Release advances the watermark past s and wakes s+1 if it is
	// waiting. Must be called by the goroutine that grabbed s.
	Release(s libact.Seqno) error

	// Cancel unblocks any present or future waiter on s with a cancelled
	// error, without advancing the watermark past s.
	Cancel(s libact.Seqno) error

	// SelfCancel is Cancel plus advancing the watermark through s, for a
	// seqno the caller knows it will never grab.
	SelfCancel(s libact.Seqno) error

	// Withdraw lets a waiter on s leave without consuming the slot; s
	// still blocks the watermark until RenewWait+Grab or SelfCancel.
	Withdraw(s libact.Seqno) error

	// RenewWait re-arms a withdrawn slot so Grab(s) may be called again.
	RenewWait(s libact.Seqno) error

	// Seqno returns a conservative lower bound on the released watermark.
	Seqno() libact.Seqno

	// Destroy releases the ring. Fails with a busy error while any slot
	// is waiting.
	Destroy() error
}

// New allocates a ring of the given length and sets the released watermark
// to seqno0-1 ("nothing released yet").
func New(length int, seqno0 libact.Seqno) Monitor {
	return newMonitor(length, seqno0)
}
