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

package action

// Seqno is the monotonic sequence number type shared by global and local
// counters. SeqnoIll marks "not ordered / not applicable".
type Seqno uint64

// SeqnoIll is the reserved sentinel for an action with no assigned seqno.
const SeqnoIll Seqno = 1<<64 - 1

// Action is the application-visible unit of replication, fully reassembled
// and (for delivered actions) stamped with its global and local seqno.
type Action struct {
	Kind    Kind
	Payload []byte
	Origin  string

	// ActionIDLocal is the per-connection, per-origin monotonic counter
	// used to correlate fragments and to key replicate's wait-object.
	ActionIDLocal uint64

	Global Seqno
	Local  Seqno
}

// MemberInfo describes one member of a configuration, as carried inside a
// ConfDescriptor's MemberBlob.
type MemberInfo struct {
	Index int
	Name  string
}

// ConfDescriptor is the payload of a PRIMARY/NON_PRIMARY service action.
type ConfDescriptor struct {
	NextSeqno   Seqno
	ConfID      int64
	MemberCount int
	MyIndex     int
	Members     []MemberInfo
}
