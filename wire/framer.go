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

package wire

import (
	"sync"

	libact "github.com/nabbar/gcs/action"
)

// Split breaks a payload into ceil(len(payload)/budget) fragments, where
// budget = pktSize - HeaderOverhead. A zero-length payload still yields
// exactly one (empty) fragment, so zero-byte actions round-trip.
func Split(origin string, actionID uint64, kind libact.Kind, payload []byte, pktSize int) ([][]byte, error) {
	budget := pktSize - HeaderOverhead
	if budget <= 0 {
		return nil, codeShortBuffer.Error()
	}

	total := (len(payload) + budget - 1) / budget
	if total == 0 {
		total = 1
	}

	out := make([][]byte, 0, total)
	for i := 0; i < total; i++ {
		lo := i * budget
		hi := lo + budget
		if hi > len(payload) {
			hi = len(payload)
		}

		h := Header{
			Origin:        origin,
			ActionIDLocal: actionID,
			FragmentNo:    uint32(i),
			FragmentTotal: uint32(total),
			Kind:          kind,
		}

		f, e := Encode(h, payload[lo:hi])
		if e != nil {
			return nil, e
		}
		out = append(out, f)
	}

	return out, nil
}

// pending is one in-progress reassembly, keyed by (origin, action_id_local).
type pending struct {
	kind libact.Kind
	next uint32
	buf  []byte
}

type key struct {
	origin string
	id     uint64
}

// Reassembler accumulates inbound fragments per (origin, action_id_local)
// until an action is complete. It is safe for concurrent use, though the
// connection core only ever drives it from its single recv worker.
type Reassembler struct {
	mu    sync.Mutex
	table map[key]*pending
}

// NewReassembler returns an empty Reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{table: make(map[key]*pending)}
}

// Feed ingests one inbound fragment. It returns (payload, kind, true, nil)
// once the final fragment of an action has been seen, or (nil, 0, false,
// nil) while the action is still incomplete. A non-nil error means the
// fragment was out of order for its action: per spec, the buffer is torn
// down and the caller should synthesize an ERROR action for that origin.
func (r *Reassembler) Feed(h Header, payload []byte) ([]byte, libact.Kind, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{origin: h.Origin, id: h.ActionIDLocal}
	p, ok := r.table[k]

	if !ok {
		if h.FragmentNo != 0 {
			return nil, 0, false, errOutOfOrder
		}
		p = &pending{kind: h.Kind, next: 0}
		r.table[k] = p
	}

	if h.FragmentNo != p.next {
		delete(r.table, k)
		return nil, 0, false, errOutOfOrder
	}

	p.buf = append(p.buf, payload...)
	p.next++

	if p.next < h.FragmentTotal {
		return nil, 0, false, nil
	}

	delete(r.table, k)
	return p.buf, p.kind, true, nil
}

// Drop discards any in-progress reassembly for the given origin+action.
func (r *Reassembler) Drop(origin string, actionID uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.table, key{origin: origin, id: actionID})
}
