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
	liberr "github.com/nabbar/gcs/errors"
)

const (
	codeOutOfRange liberr.CodeError = iota + liberr.MinPkgTO
	codeAgain
	codeCancelled
	codeWithdrawn
	codeBusy
)

func init() {
	liberr.RegisterIdFctMessage(codeOutOfRange, getMessage)
}

func getMessage(code liberr.CodeError) string {
	switch code {
	case codeOutOfRange:
		return "seqno already released or not owned by a waiting slot"
	case codeAgain:
		return "seqno too far ahead of the released watermark, retry later"
	case codeCancelled:
		return "seqno was cancelled while waiting"
	case codeWithdrawn:
		return "seqno's slot was withdrawn"
	case codeBusy:
		return "monitor still has waiting slots"
	default:
		return liberr.NullMessage
	}
}

var (
	errOutOfRange = codeOutOfRange.Error()
	errAgain      = codeAgain.Error()
	errCancelled  = codeCancelled.Error()
	errWithdrawn  = codeWithdrawn.Error()
	errBusy       = codeBusy.Error()
)
