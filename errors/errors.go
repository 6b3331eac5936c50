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

import (
	"fmt"
)

// Error is a CodeError carrying a message and an optional parent.
type Error interface {
	error
	Code() CodeError
	Unwrap() error
}

type ers struct {
	c uint16
	m string
	p error
}

func (e *ers) Code() CodeError {
	return CodeError(e.c)
}

func (e *ers) Error() string {
	if e.m == "" {
		return CodeError(e.c).Message()
	}
	return e.m
}

func (e *ers) Unwrap() error {
	return e.p
}

func firstParent(p []error) error {
	for _, e := range p {
		if e != nil {
			return e
		}
	}
	return nil
}

// New builds an Error from a numeric code, a message and optional parent errors.
// Only the first non-nil parent is retained in the Unwrap chain.
func New(code uint16, message string, p ...error) Error {
	return &ers{c: code, m: message, p: firstParent(p)}
}

// Newf is New with the message built through fmt.Sprintf.
func Newf(code uint16, pattern string, args ...interface{}) Error {
	return &ers{c: code, m: fmt.Sprintf(pattern, args...)}
}

// IfError returns a non-nil Error only if at least one of e is non-nil.
func IfError(code uint16, message string, e ...error) Error {
	if firstParent(e) == nil {
		return nil
	}
	return New(code, message, e...)
}
