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

// Package wire implements the fragmenter/reassembler: splitting outbound
// actions into packet-sized fragments and reassembling inbound fragments
// back into complete actions, in the total order the backend delivers them.
//
// Wire framing is CBOR-encoded, in the idiom of the CBOR-framed-header
// multiplexers elsewhere in this codebase's lineage: each fragment is a
// length-prefixed CBOR message, never a delimiter-scanned stream, since
// fragment payloads may themselves contain any byte value.
package wire

import (
	"encoding/binary"

	libcbr "github.com/fxamacker/cbor/v2"

	libact "github.com/nabbar/gcs/action"
)

// Header stamps every fragment with enough information to reassemble it
// and to attribute the final action to its sender.
type Header struct {
	Origin         string
	ActionIDLocal  uint64
	FragmentNo     uint32
	FragmentTotal  uint32
	Kind           libact.Kind
}

// HeaderOverhead is a conservative upper bound on an encoded Header plus its
// 4-byte length prefix, used to size the per-fragment payload budget.
const HeaderOverhead = 96

// Encode serializes a header+payload fragment as a length-prefixed CBOR
// message: a 4-byte big-endian length, then the CBOR body.
func Encode(h Header, payload []byte) ([]byte, error) {
	body, e := libcbr.Marshal(&fragment{H: h, P: payload})
	if e != nil {
		return nil, e
	}

	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out[:4], uint32(len(body)))
	copy(out[4:], body)
	return out, nil
}

// Decode parses a single length-prefixed CBOR fragment message produced by
// Encode, returning the header, payload and the number of bytes consumed.
func Decode(buf []byte) (Header, []byte, int, error) {
	if len(buf) < 4 {
		return Header{}, nil, 0, errShortBuffer
	}

	n := int(binary.BigEndian.Uint32(buf[:4]))
	if len(buf) < 4+n {
		return Header{}, nil, 0, errShortBuffer
	}

	var f fragment
	if e := libcbr.Unmarshal(buf[4:4+n], &f); e != nil {
		return Header{}, nil, 0, e
	}

	return f.H, f.P, 4 + n, nil
}

type fragment struct {
	H Header
	P []byte
}
