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

// Package raftbackend implements the "raft://" scheme on top of a
// single-shard dragonboat group: every proposed entry is replicated through
// Raft consensus before the state machine fans it out, giving genuine total
// order rather than best-effort ordering.
package raftbackend

import (
	"io"
	"sync"

	libbit "github.com/bits-and-blooms/bitset"
	sm "github.com/lni/dragonboat/v3/statemachine"
)

// groupSM is the dragonboat state machine backing one shard: applying an
// entry simply hands the already-framed fragment bytes to the backend's
// delivery channel, in the order Raft committed them.
type groupSM struct {
	mu      sync.Mutex
	deliver func(origin string, p []byte)
	members *libbit.BitSet
}

func newGroupSM(deliver func(origin string, p []byte)) *groupSM {
	return &groupSM{deliver: deliver, members: libbit.New(64)}
}

// Update applies one Raft log entry. The entry's first 16 bytes carry the
// origin replica ID (as a fixed-width decimal string), the remainder is the
// already wire-framed fragment payload.
func (g *groupSM) Update(data []byte) (sm.Result, error) {
	if len(data) < originFieldLen {
		return sm.Result{}, nil
	}

	origin := string(data[:originFieldLen])
	payload := data[originFieldLen:]

	g.mu.Lock()
	g.deliver(origin, payload)
	g.mu.Unlock()

	return sm.Result{Value: uint64(len(payload))}, nil
}

func (g *groupSM) Lookup(_ interface{}) (interface{}, error) {
	return nil, nil
}

func (g *groupSM) SaveSnapshot(w io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	_, e := w.Write([]byte{})
	return e
}

func (g *groupSM) RecoverFromSnapshot(_ io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	return nil
}

func (g *groupSM) Close() error {
	return nil
}

// originFieldLen is the fixed width an origin replica ID is padded/truncated
// to when stamped onto a proposed Raft entry.
const originFieldLen = 16
