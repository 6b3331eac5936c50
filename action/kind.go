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

// Package action defines the application-visible unit of replication: its
// kind taxonomy, the Action envelope carrying global/local sequence numbers,
// and the configuration descriptor synthesized on view changes.
package action

// Kind is the closed set of action kinds a connection can send or deliver.
type Kind uint8

const (
	UNKNOWN Kind = iota
	DATA
	COMMIT_CUT
	SNAPSHOT
	PRIMARY
	SERVICE
	NON_PRIMARY
	ERROR
)

// IsOrdered reports whether actions of this kind consume a global seqno.
func (k Kind) IsOrdered() bool {
	return k == DATA || k == COMMIT_CUT
}

// IsSendable reports whether an application may submit this kind directly;
// the remaining kinds are synthesized by the core.
func (k Kind) IsSendable() bool {
	return k == DATA || k == SNAPSHOT
}

func (k Kind) String() string {
	switch k {
	case DATA:
		return "DATA"
	case COMMIT_CUT:
		return "COMMIT_CUT"
	case SNAPSHOT:
		return "SNAPSHOT"
	case PRIMARY:
		return "PRIMARY"
	case SERVICE:
		return "SERVICE"
	case NON_PRIMARY:
		return "NON_PRIMARY"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
