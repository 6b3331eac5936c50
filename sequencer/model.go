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

// Package sequencer assigns global and local sequence numbers to reassembled
// actions and synthesizes the PRIMARY/NON_PRIMARY service actions a view
// change produces.
package sequencer

import (
	libatm "github.com/nabbar/gcs/atomic"

	libact "github.com/nabbar/gcs/action"
)

// Sequencer owns the per-connection counters. It is driven exclusively by
// the connection core's single recv worker, so its fields need no locking
// of their own beyond the atomic primitives used for cross-goroutine
// visibility (seqno() readers elsewhere, e.g. the TO monitor, never touch
// this type directly).
type Sequencer struct {
	globalNext libatm.Value[libact.Seqno]
	localNext  libatm.Value[libact.Seqno]
	primary    libatm.Value[bool]
}

// New returns a Sequencer with localNext starting at 1, not yet primary.
func New() *Sequencer {
	s := &Sequencer{
		globalNext: libatm.NewValue[libact.Seqno](),
		localNext:  libatm.NewValue[libact.Seqno](),
		primary:    libatm.NewValue[bool](),
	}
	s.globalNext.Store(1)
	s.localNext.Store(1)
	return s
}

// IsPrimary reports whether the sequencer currently believes the connection
// is in a primary configuration.
func (s *Sequencer) IsPrimary() bool {
	return s.primary.Load()
}

// Assign stamps a reassembled action with its global/local seqno following
// spec §4.C's classification rules, mutating kind to ERROR when an ordered
// action arrives during a non-primary configuration.
func (s *Sequencer) Assign(a *libact.Action) {
	switch {
	case a.Kind.IsOrdered() && s.primary.Load():
		a.Global = s.globalNext.Load()
		s.globalNext.Store(a.Global + 1)
		a.Local = s.localNext.Load()
		s.localNext.Store(a.Local + 1)

	case a.Kind.IsOrdered():
		a.Kind = libact.ERROR
		a.Global = libact.SeqnoIll
		a.Local = s.localNext.Load()
		s.localNext.Store(a.Local + 1)

	default:
		a.Global = libact.SeqnoIll
		a.Local = s.localNext.Load()
		s.localNext.Store(a.Local + 1)
	}
}

// ViewChange synthesizes the PRIMARY/NON_PRIMARY service action for a
// backend view change, occupying the next local seqno but consuming no
// global seqno; transitioning into primary resets globalNext from the
// descriptor.
func (s *Sequencer) ViewChange(desc libact.ConfDescriptor, primary bool) libact.Action {
	kind := libact.NON_PRIMARY
	if primary {
		kind = libact.PRIMARY
		s.globalNext.Store(desc.NextSeqno)
	}
	s.primary.Store(primary)

	local := s.localNext.Load()
	s.localNext.Store(local + 1)

	payload, _ := desc.Encode(0)

	return libact.Action{
		Kind:    kind,
		Payload: payload,
		Global:  libact.SeqnoIll,
		Local:   local,
	}
}
