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

package gcsconfig

import (
	"io"

	"github.com/sirupsen/logrus"

	libatm "github.com/nabbar/gcs/atomic"
)

type config struct {
	fct           libatm.Value[FuncLogger]
	def           *logrus.Logger
	debug         libatm.Value[bool]
	selfTimestamp libatm.Value[bool]
	pktSize       libatm.Value[int]
	memberNameMax libatm.Value[int]
}

func newConfig() *config {
	def := logrus.New()
	def.SetOutput(io.Discard)

	c := &config{
		fct:           libatm.NewValue[FuncLogger](),
		def:           def,
		debug:         libatm.NewValue[bool](),
		selfTimestamp: libatm.NewValue[bool](),
		pktSize:       libatm.NewValue[int](),
		memberNameMax: libatm.NewValue[int](),
	}
	c.pktSize.Store(DefaultPktSize)
	c.memberNameMax.Store(DefaultMemberNameMax)
	return c
}

func (c *config) RegisterLogger(fct FuncLogger) {
	c.fct.Store(fct)
}

// Logger resolves the registered provider's logger if one is set, otherwise
// falls back to this config's own persistent logger, so SetLogFile/
// SetLogCallback/SetDebug/SetSelfTimestamp keep acting on the same instance
// every component sees rather than a fresh discard logger built per call.
func (c *config) Logger() *logrus.Logger {
	if fct := c.fct.Load(); fct != nil {
		if l := fct(); l != nil {
			return l
		}
	}

	return c.def
}

// SetLogFile redirects this config's own logger's output; it has no effect
// on a logger supplied through RegisterLogger, which owns its own sink.
func (c *config) SetLogFile(w io.Writer) {
	c.def.SetOutput(w)
}

// SetLogCallback installs hook as this config's own logger's sole hook,
// replacing whichever was previously set; a nil hook clears it.
func (c *config) SetLogCallback(hook logrus.Hook) {
	c.def.ReplaceHooks(make(logrus.LevelHooks))
	if hook != nil {
		c.def.AddHook(hook)
	}
}

func (c *config) SetDebug(enabled bool) {
	c.debug.Store(enabled)
	if enabled {
		c.Logger().SetLevel(logrus.DebugLevel)
	} else {
		c.Logger().SetLevel(logrus.InfoLevel)
	}
}

func (c *config) Debug() bool {
	return c.debug.Load()
}

func (c *config) SetSelfTimestamp(enabled bool) {
	c.selfTimestamp.Store(enabled)
	c.Logger().SetFormatter(&logrus.TextFormatter{FullTimestamp: enabled, DisableTimestamp: !enabled})
}

func (c *config) SelfTimestamp() bool {
	return c.selfTimestamp.Load()
}

func (c *config) SetPktSize(n int) {
	if n <= 0 {
		n = DefaultPktSize
	}
	c.pktSize.Store(n)
}

func (c *config) PktSize() int {
	return c.pktSize.Load()
}

func (c *config) SetMemberNameMax(n int) {
	c.memberNameMax.Store(n)
}

func (c *config) MemberNameMax() int {
	return c.memberNameMax.Load()
}
