/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
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
 */

// Package upload receives multipart file uploads into a directory and keeps
// count of the bytes received for the upload in progress.
package upload

import (
	"io"
	"sync/atomic"
)

// Tracker counts file bytes received for the current or most recent upload.
// There is no upload identifier: concurrent uploads share one counter.
type Tracker struct {
	received atomic.Int64
	active   atomic.Int32
}

// Begin resets the counter for a new upload.
func (t *Tracker) Begin() {
	t.received.Store(0)
	t.active.Add(1)
}

// End marks an upload as finished. The counter keeps its final value.
func (t *Tracker) End() {
	t.active.Add(-1)
}

// Add records n more bytes.
func (t *Tracker) Add(n int64) {
	t.received.Add(n)
}

// Load returns the bytes received so far.
func (t *Tracker) Load() int64 {
	return t.received.Load()
}

// Active reports whether an upload is in progress.
func (t *Tracker) Active() bool {
	return t.active.Load() > 0
}

// Reader wraps r so that every byte read is added to the tracker.
func (t *Tracker) Reader(r io.Reader) io.Reader {
	return &countingReader{r: r, t: t}
}

type countingReader struct {
	r io.Reader
	t *Tracker
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.t.Add(int64(n))
	}
	return n, err
}
