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

package upload

import (
	"io"
	"strings"
	"testing"
)

func TestTracker(t *testing.T) {
	var tr Tracker

	if tr.Load() != 0 || tr.Active() {
		t.Fatal("zero Tracker should report 0 bytes and no active upload")
	}

	tr.Begin()
	n, err := io.Copy(io.Discard, tr.Reader(strings.NewReader("hello world")))
	if err != nil {
		t.Fatal(err)
	}
	if n != 11 || tr.Load() != 11 {
		t.Errorf("Load() = %d after %d bytes, want 11", tr.Load(), n)
	}
	if !tr.Active() {
		t.Error("Active() = false during upload")
	}

	tr.End()
	if tr.Active() {
		t.Error("Active() = true after End()")
	}
	if tr.Load() != 11 {
		t.Errorf("Load() after End() = %d, want 11 (kept)", tr.Load())
	}

	tr.Begin()
	if tr.Load() != 0 {
		t.Errorf("Load() after Begin() = %d, want 0", tr.Load())
	}
	tr.End()
}
