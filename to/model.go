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

package to

import (
	"sync"

	libact "github.com/nabbar/gcs/action"
)

type slotState uint8

const (
	stEmpty slotState = iota
	stWaiting
	stReady
	stCancelled
	stUsed
	stWithdrawn
)

type slot struct {
	cond  *sync.Cond
	state slotState
	seqno libact.Seqno
	valid bool
}

type monitor struct {
	mu     sync.Mutex
	slots  []slot
	length int
	r      libact.Seqno
	waitN  int
	closed bool
}

func newMonitor(length int, seqno0 libact.Seqno) *monitor {
	if length <= 0 {
		length = 1
	}

	m := &monitor{
		slots:  make([]slot, length),
		length: length,
		r:      seqno0 - 1,
	}

	for i := range m.slots {
		m.slots[i].cond = sync.NewCond(&m.mu)
	}

	return m
}

func (m *monitor) idx(s libact.Seqno) int {
	return int(uint64(s) % uint64(m.length))
}

func (m *monitor) Grab(s libact.Seqno) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s <= m.r {
		return errOutOfRange
	}
	if uint64(s-m.r) > uint64(m.length) {
		return errAgain
	}

	sl := &m.slots[m.idx(s)]
	sl.seqno = s
	sl.valid = true
	if sl.state != stWithdrawn {
		sl.state = stWaiting
	}
	m.waitN++

	for {
		switch sl.state {
		case stReady:
			sl.state = stUsed
			m.waitN--
			return nil
		case stCancelled:
			m.waitN--
			sl.state = stEmpty
			sl.valid = false
			return errCancelled
		case stWithdrawn:
			m.waitN--
			return errWithdrawn
		}

		if sl.seqno == m.r+1 && sl.state == stWaiting {
			sl.state = stReady
			continue
		}

		sl.cond.Wait()
	}
}

func (m *monitor) Release(s libact.Seqno) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sl := &m.slots[m.idx(s)]
	if !sl.valid || sl.seqno != s || sl.state != stUsed {
		return errOutOfRange
	}

	sl.state = stEmpty
	sl.valid = false
	m.r = s

	m.wakeNext(s)
	return nil
}

// wakeNext promotes the slot for s+1 to ready if it is already waiting for
// its turn, then wakes every waiter so it can re-check its own condition.
func (m *monitor) wakeNext(s libact.Seqno) {
	next := &m.slots[m.idx(s+1)]
	if next.valid && next.seqno == s+1 && next.state == stWaiting {
		next.state = stReady
	}
	for i := range m.slots {
		m.slots[i].cond.Broadcast()
	}
}

func (m *monitor) Cancel(s libact.Seqno) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s <= m.r {
		return errOutOfRange
	}

	sl := &m.slots[m.idx(s)]
	sl.seqno = s
	sl.valid = true
	sl.state = stCancelled

	for i := range m.slots {
		m.slots[i].cond.Broadcast()
	}
	return nil
}

func (m *monitor) SelfCancel(s libact.Seqno) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s <= m.r {
		return errOutOfRange
	}
	if s != m.r+1 {
		return errOutOfRange
	}

	sl := &m.slots[m.idx(s)]
	sl.state = stEmpty
	sl.valid = false
	m.r = s

	m.wakeNext(s)
	return nil
}

func (m *monitor) Withdraw(s libact.Seqno) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sl := &m.slots[m.idx(s)]
	if !sl.valid || sl.seqno != s || sl.state != stWaiting {
		return errOutOfRange
	}

	sl.state = stWithdrawn
	for i := range m.slots {
		m.slots[i].cond.Broadcast()
	}
	return nil
}

func (m *monitor) RenewWait(s libact.Seqno) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sl := &m.slots[m.idx(s)]
	if !sl.valid || sl.seqno != s || sl.state != stWithdrawn {
		return errOutOfRange
	}

	sl.state = stWaiting
	return nil
}

func (m *monitor) Seqno() libact.Seqno {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.r
}

func (m *monitor) Destroy() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.slots {
		if m.slots[i].valid && (m.slots[i].state == stWaiting || m.slots[i].state == stWithdrawn) {
			return errBusy
		}
	}

	m.closed = true
	return nil
}
