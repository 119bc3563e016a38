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

// Package console renders upload progress in a terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/phuonguno98/fatupload/pkg/progress"
)

// DefaultWidth is the number of cells of the bar itself.
const DefaultWidth = 40

var (
	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

// isTerminal is swapped in tests.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Bar is a one-line progress bar.
type Bar struct {
	mu          sync.Mutex
	out         io.Writer
	label       string
	width       int
	interactive bool
	last        float64
	drawn       bool
}

// NewBar creates a bar writing to out. On a terminal the line is redrawn in
// place and styled; otherwise every update is written as a plain line.
func NewBar(out io.Writer, label string) *Bar {
	return &Bar{
		out:         out,
		label:       label,
		width:       DefaultWidth,
		interactive: isTerminal(out),
	}
}

// SetValue implements poller.Display.
func (b *Bar) SetValue(value float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.interactive && b.drawn && value == b.last {
		return
	}
	b.last = value
	b.drawn = true

	line := b.render(value)
	if b.interactive {
		fmt.Fprintf(b.out, "\r%s", line)
		return
	}
	fmt.Fprintln(b.out, line)
}

// Finish terminates the in-place line.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.interactive && b.drawn {
		fmt.Fprintln(b.out)
	}
}

func (b *Bar) render(value float64) string {
	filled := int(value / progress.Complete * float64(b.width))
	if filled < 0 {
		filled = 0
	}
	if filled > b.width {
		filled = b.width
	}

	done := strings.Repeat("#", filled)
	rest := strings.Repeat("-", b.width-filled)
	pct := progress.Format(value) + "%"

	if b.interactive {
		return fmt.Sprintf("%s [%s%s] %6s",
			labelStyle.Render(b.label), filledStyle.Render(done), emptyStyle.Render(rest), pct)
	}
	return fmt.Sprintf("%s [%s%s] %s", b.label, done, rest, pct)
}
