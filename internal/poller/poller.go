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

// Package poller implements the client side of the upload progress protocol.
//
// A Poller asks the server for the number of bytes received so far at a fixed
// rate and turns each answer into a percentage of the file size captured when
// the user selected the file. Requests are fired on every tick regardless of
// whether earlier ones have completed, and answers are applied in the order
// they complete.
package poller

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/phuonguno98/fatupload/pkg/progress"
)

// DefaultInterval matches the one second refresh of the upload page.
const DefaultInterval = 1 * time.Second

// Display receives every new progress value.
type Display interface {
	SetValue(value float64)
}

// DisplayFunc adapts a function to the Display interface.
type DisplayFunc func(value float64)

// SetValue calls f(value).
func (f DisplayFunc) SetValue(value float64) {
	f(value)
}

// Options tunes a Poller.
type Options struct {
	Interval time.Duration // Time between polls (default: DefaultInterval)

	// Serialize skips a tick while an earlier request is still outstanding.
	// Off by default: overlapping requests and completion-order application
	// are the observed behavior of the upload page.
	Serialize bool
}

// State is a point-in-time copy of the poller's state.
type State struct {
	FileSizeTotal int64   // Size of the selected file (0 = none selected)
	FileSize      int64   // Bytes received according to the last successful poll
	Value         float64 // Last value sent to the display
	Polls         int     // Requests issued
	Failures      int     // Requests that failed or returned a non-200 status
}

// Poller is one progress-polling session.
type Poller struct {
	fetcher Fetcher
	display Display
	opts    Options
	logger  *slog.Logger

	mu       sync.Mutex
	state    State
	inflight int
	seq      uint64

	// displayMu orders display calls; shown is the seq of the last value drawn.
	displayMu sync.Mutex
	shown     uint64
}

// New creates a poller. The display starts at 0 and is only touched by successful polls.
func New(fetcher Fetcher, display Display, opts Options, logger *slog.Logger) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Poller{
		fetcher: fetcher,
		display: display,
		opts:    opts,
		logger:  logger,
	}
}

// Select records a file selection. Only the first file counts; an empty
// selection leaves the current total untouched.
func (p *Poller) Select(sizes ...int64) {
	if len(sizes) == 0 {
		return
	}

	p.mu.Lock()
	p.state.FileSizeTotal = sizes[0]
	p.mu.Unlock()

	p.logger.Debug("File selected", "size", sizes[0])
}

// Apply handles a successful poll that reported received bytes.
// It returns the displayed value and whether the display was updated.
// The display is called without holding the state lock.
func (p *Poller) Apply(received int64) (float64, bool) {
	p.mu.Lock()
	p.state.FileSize = received

	value, ok := progress.Value(progress.Reading{
		Received: received,
		Total:    p.state.FileSizeTotal,
	})
	if !ok {
		value = p.state.Value
		p.mu.Unlock()
		return value, false
	}

	p.state.Value = value
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	p.show(seq, value)
	return value, true
}

// show draws value unless a later update has already been drawn.
func (p *Poller) show(seq uint64, value float64) {
	if p.display == nil {
		return
	}

	p.displayMu.Lock()
	defer p.displayMu.Unlock()
	if seq <= p.shown {
		return
	}
	p.shown = seq
	p.display.SetValue(value)
}

// Snapshot returns a copy of the current state.
func (p *Poller) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Poll issues one request and waits for it. Useful for a final reading once
// an upload has finished.
func (p *Poller) Poll(ctx context.Context) {
	p.begin()
	p.complete(p.fetcher.FetchProgress(ctx))
}

// Run polls at the configured interval until ctx is cancelled.
// Outstanding requests share ctx and are abandoned when it is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	p.logger.Debug("Poller started", "interval", p.opts.Interval, "serialize", p.opts.Serialize)

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Poller stopping")
			return nil

		case <-ticker.C:
			if p.opts.Serialize && p.outstanding() > 0 {
				continue
			}

			p.begin()
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.complete(p.fetcher.FetchProgress(ctx))
			}()
		}
	}
}

func (p *Poller) begin() {
	p.mu.Lock()
	p.inflight++
	p.state.Polls++
	p.mu.Unlock()
}

func (p *Poller) complete(received int64, err error) {
	p.mu.Lock()
	p.inflight--
	if err != nil {
		p.state.Failures++
	}
	p.mu.Unlock()

	if err != nil {
		// The next tick is the retry.
		p.logger.Debug("Progress poll failed", "error", err)
		return
	}

	p.Apply(received)
}

func (p *Poller) outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight
}
