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

// Watermark is the payload of the SERVICE action SetLastApplied sends: one
// member advertising the highest seqno it has durably applied, so the rest
// of the group can gauge how far behind a recovering or late-joining member
// is without a dedicated state-transfer protocol.
type Watermark struct {
	LastApplied Seqno
}

// EncodeWatermark marshals a Watermark into the SERVICE action's payload.
func EncodeWatermark(w Watermark) ([]byte, error) {
	return libcbr.Marshal(w)
}

// DecodeWatermark unmarshals a SERVICE action's payload produced by
// EncodeWatermark.
func DecodeWatermark(blob []byte) (Watermark, error) {
	var w Watermark
	if e := libcbr.Unmarshal(blob, &w); e != nil {
		return Watermark{}, e
	}
	return w, nil
}
