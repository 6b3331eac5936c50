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

package backend

import (
	"strings"
	"sync"
)

var (
	regMu sync.RWMutex
	reg   = make(map[string]Factory)
)

// Register binds a scheme (e.g. "nats", "raft") to a Factory. Called from
// each backend sub-package's init(). Registering the same scheme twice
// overwrites the previous factory.
func Register(scheme string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	reg[strings.ToLower(scheme)] = f
}

// New parses a "<scheme>://<address>" URL and constructs the corresponding
// Backend. An unrecognized scheme fails with a backend error.
func New(url string) (Backend, error) {
	scheme, address, ok := strings.Cut(url, "://")
	if !ok {
		return nil, errBadURL
	}

	regMu.RLock()
	f, ok := reg[strings.ToLower(scheme)]
	regMu.RUnlock()

	if !ok {
		return nil, errUnknownScheme
	}

	return f(address)
}
