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

// Package gcsconfig holds the process-wide knobs a connection is opened
// with: transport packet size, member-name truncation, and the ambient
// logrus sink every component logs through.
package gcsconfig

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Defaults mirror gcs.h's own constants where one exists.
const (
	// DefaultPktSize is the default fragment budget handed to wire.Split.
	DefaultPktSize = 1500

	// DefaultMemberNameMax mirrors GCS_MEMBER_NAME_MAX.
	DefaultMemberNameMax = 64
)

// FuncLogger is a provider function, following the teacher's
// RegisterDefaultLogger idiom: components resolve a fresh *logrus.Logger
// through this indirection instead of capturing one at construction time.
type FuncLogger func() *logrus.Logger

// Config is the configuration object a connection.Create call is given.
type Config interface {
	// RegisterLogger registers the logger provider used by every component.
	RegisterLogger(fct FuncLogger)

	// Logger resolves the current logger, falling back to a discard logger
	// if none has been registered.
	Logger() *logrus.Logger

	// SetLogFile redirects this config's own logger's output to w.
	SetLogFile(w io.Writer)

	// SetLogCallback installs hook as this config's own logger's sole hook,
	// replacing any previously set; a nil hook clears it.
	SetLogCallback(hook logrus.Hook)

	// SetDebug toggles debug-level logging.
	SetDebug(enabled bool)
	Debug() bool

	// SetSelfTimestamp toggles whether log entries carry the library's own
	// timestamp instead of relying on the sink to stamp them.
	SetSelfTimestamp(enabled bool)
	SelfTimestamp() bool

	// SetPktSize sets the transport fragment budget in bytes.
	SetPktSize(n int)
	PktSize() int

	// SetMemberNameMax sets the member-name truncation length used when
	// encoding a ConfDescriptor; 0 disables truncation.
	SetMemberNameMax(n int)
	MemberNameMax() int
}

// New returns a Config with library defaults and a discard logger.
func New() Config {
	return newConfig()
}
