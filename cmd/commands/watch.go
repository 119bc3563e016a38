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

package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phuonguno98/fatupload/internal/config"
	"github.com/phuonguno98/fatupload/internal/console"
	"github.com/phuonguno98/fatupload/internal/poller"
	"github.com/phuonguno98/fatupload/pkg/progress"
	"github.com/spf13/cobra"
)

var (
	// Watch command specific flags
	watchTotal         string
	watchFile          string
	watchUntilComplete bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the progress of an upload started elsewhere",
	Long: `Poll readProgress at a fixed rate and show the received bytes as a
percentage of a known file size. The size comes from --total or from the
size of a local copy given with --file.

Examples:
  # Follow a 4 MiB upload until it completes
  fatupload watch --server http://192.168.4.1 --total 4MiB --until-complete

  # Use the size of the local file being uploaded from a browser
  fatupload watch --file ./firmware.bin`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addClientFlags(watchCmd)
	watchCmd.Flags().StringVar(&watchTotal, "total", "", "Size of the file being uploaded (e.g. 1500000, 4MiB)")
	watchCmd.Flags().StringVar(&watchFile, "file", "", "Local file whose size is the upload total")
	watchCmd.Flags().BoolVar(&watchUntilComplete, "until-complete", false, "Exit once the upload reaches 100%")
}

// watchTotalSize resolves the total from --total or --file.
// A total of zero would leave the poller waiting for a selection forever.
func watchTotalSize() (int64, error) {
	var total int64
	switch {
	case watchTotal != "" && watchFile != "":
		return 0, errors.New("use either --total or --file, not both")
	case watchTotal != "":
		size, err := config.ParseSize(watchTotal)
		if err != nil {
			return 0, err
		}
		total = size
	case watchFile != "":
		info, err := os.Stat(watchFile)
		if err != nil {
			return 0, fmt.Errorf("cannot read %s: %w", watchFile, err)
		}
		total = info.Size()
	default:
		return 0, errors.New("a file size is required: set --total or --file")
	}

	if total <= 0 {
		return 0, errors.New("file size must be greater than zero")
	}
	return total, nil
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, err := buildClientConfig()
	if err != nil {
		return err
	}

	total, err := watchTotalSize()
	if err != nil {
		return err
	}

	logger := InitLogger(cfg.LogLevel, cfg.LogFile)
	logger.Info("Watching upload progress", "config", cfg.String(), "total", total)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bar := console.NewBar(os.Stdout, "upload")
	display := poller.DisplayFunc(func(value float64) {
		bar.SetValue(value)
		if watchUntilComplete && value >= progress.Complete {
			cancel()
		}
	})

	p := poller.New(poller.NewHTTPFetcher(cfg.ServerURL, nil), display, pollerOptions(cfg), logger)
	p.Select(total)

	err = p.Run(ctx)
	bar.Finish()

	state := p.Snapshot()
	logger.Info("Stopped watching",
		"received", state.FileSize,
		"value", progress.Format(state.Value),
		"polls", state.Polls,
		"failures", state.Failures,
	)
	return err
}
