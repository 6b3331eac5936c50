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

package raftbackend

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// These specs exercise address parsing, origin stamping and the state
// machine's entry decoding directly, without bringing up a live dragonboat
// cluster (which needs real listening sockets and an elected leader); the
// Raft consensus path itself is dragonboat's own contract, not this
// package's.
var _ = Describe("raft:// address parsing", func() {
	It("parses a self-only address", func() {
		id, addr, initial, e := parseAddress("1@127.0.0.1:9001")
		Expect(e).ToNot(HaveOccurred())
		Expect(id).To(Equal(uint64(1)))
		Expect(addr).To(Equal("127.0.0.1:9001"))
		Expect(initial).To(Equal(map[uint64]string{1: "127.0.0.1:9001"}))
	})

	It("parses a self address plus initial peers", func() {
		id, addr, initial, e := parseAddress("2@127.0.0.1:9002,1@127.0.0.1:9001,3@127.0.0.1:9003")
		Expect(e).ToNot(HaveOccurred())
		Expect(id).To(Equal(uint64(2)))
		Expect(addr).To(Equal("127.0.0.1:9002"))
		Expect(initial).To(Equal(map[uint64]string{
			1: "127.0.0.1:9001",
			2: "127.0.0.1:9002",
			3: "127.0.0.1:9003",
		}))
	})

	It("rejects an address with no replica id separator", func() {
		_, _, _, e := parseAddress("not-a-valid-address")
		Expect(e).To(HaveOccurred())
	})

	It("rejects a non-numeric replica id", func() {
		_, _, _, e := parseAddress("abc@127.0.0.1:9001")
		Expect(e).To(HaveOccurred())
	})
})

var _ = Describe("raft backend construction", func() {
	It("stamps Origin with the fixed-width replica id used on the wire", func() {
		b, e := New("7@127.0.0.1:9007")
		Expect(e).ToNot(HaveOccurred())
		Expect(b.Origin()).To(Equal(string(originField(7))))
		Expect(len(b.Origin())).To(Equal(originFieldLen))
	})
})

var _ = Describe("group key canonicalization", func() {
	It("computes the same key regardless of which member's address lists the others first", func() {
		_, _, initialA, e := parseAddress("1@127.0.0.1:9001,2@127.0.0.1:9002,3@127.0.0.1:9003")
		Expect(e).ToNot(HaveOccurred())
		_, _, initialB, e := parseAddress("2@127.0.0.1:9002,3@127.0.0.1:9003,1@127.0.0.1:9001")
		Expect(e).ToNot(HaveOccurred())

		Expect(groupKey(initialA)).To(Equal(groupKey(initialB)))
	})

	It("gives distinct groups a distinct key", func() {
		_, _, initialA, e := parseAddress("1@127.0.0.1:9001,2@127.0.0.1:9002")
		Expect(e).ToNot(HaveOccurred())
		_, _, initialB, e := parseAddress("1@127.0.0.1:9011,2@127.0.0.1:9012")
		Expect(e).ToNot(HaveOccurred())

		Expect(groupKey(initialA)).ToNot(Equal(groupKey(initialB)))
	})
})

var _ = Describe("seqno bookmark", func() {
	It("reports one past the highest seqno bumped for a fresh key, and tracks max across reports", func() {
		key := "unit-test-group-unique-key"
		Expect(nextSeqno(key)).To(Equal(uint64(1)))

		bumpSeqno(key, 5)
		Expect(nextSeqno(key)).To(Equal(uint64(6)))

		bumpSeqno(key, 3) // stale/out-of-order report must not move the bookmark backwards
		Expect(nextSeqno(key)).To(Equal(uint64(6)))
	})
})

var _ = Describe("group state machine", func() {
	It("decodes the origin-stamped entry and hands the payload to deliver", func() {
		var gotOrigin string
		var gotPayload []byte

		sm := newGroupSM(func(origin string, p []byte) {
			gotOrigin = origin
			gotPayload = p
		})

		entry := append(originField(5), []byte("hello")...)
		_, e := sm.Update(entry)
		Expect(e).ToNot(HaveOccurred())

		Expect(gotOrigin).To(Equal(string(originField(5))))
		Expect(gotPayload).To(Equal([]byte("hello")))
	})

	It("ignores an entry shorter than the origin field", func() {
		called := false
		sm := newGroupSM(func(string, []byte) { called = true })

		_, e := sm.Update([]byte("short"))
		Expect(e).ToNot(HaveOccurred())
		Expect(called).To(BeFalse())
	})
})
