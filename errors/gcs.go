/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

package errors

// Stable taxonomy shared by every sub-package, mirroring the GCS_ERR_* enum.
const (
	Other CodeError = iota + MinAvailable
	Internal
	Channel
	Socket
	Backend
	CouldNotConnect
	ConnectionClosed
	NotConnected
	NonPrimary
	Aborted
	Again
	Busy
)

func init() {
	RegisterIdFctMessage(Other, gcsMessage)
}

func gcsMessage(code CodeError) string {
	switch code {
	case Other:
		return "other error"
	case Internal:
		return "internal error"
	case Channel:
		return "channel error"
	case Socket:
		return "socket error"
	case Backend:
		return "backend error"
	case CouldNotConnect:
		return "could not connect"
	case ConnectionClosed:
		return "connection closed"
	case NotConnected:
		return "not connected"
	case NonPrimary:
		return "non-primary configuration"
	case Aborted:
		return "aborted"
	case Again:
		return "again"
	case Busy:
		return "busy"
	default:
		return NullMessage
	}
}
