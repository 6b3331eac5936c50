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

import (
	libcbr "github.com/fxamacker/cbor/v2"
)

// Encode marshals the descriptor's member list into the wire blob carried
// by the PRIMARY/NON_PRIMARY service action, bounding each name to max
// bytes (MemberNameMax, see gcsconfig).
func (c *ConfDescriptor) Encode(maxName int) ([]byte, error) {
	members := make([]MemberInfo, len(c.Members))
	for i, m := range c.Members {
		if maxName > 0 && len(m.Name) > maxName {
			m.Name = m.Name[:maxName]
		}
		members[i] = m
	}
	return libcbr.Marshal(members)
}

// DecodeMembers unmarshals a MemberBlob produced by Encode back into the
// descriptor's Members field.
func (c *ConfDescriptor) DecodeMembers(blob []byte) error {
	var members []MemberInfo
	if len(blob) == 0 {
		c.Members = nil
		return nil
	}
	if e := libcbr.Unmarshal(blob, &members); e != nil {
		return e
	}
	c.Members = members
	return nil
}
