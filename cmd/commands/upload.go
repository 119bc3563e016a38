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
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/phuonguno98/fatupload/internal/client"
	"github.com/phuonguno98/fatupload/internal/console"
	"github.com/phuonguno98/fatupload/internal/poller"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a file and show its progress",
	Long: `Upload a file to a fatupload server (or a device serving the same page)
and poll readProgress while the transfer runs, like the upload page does.

Examples:
  # Upload to a device in access point mode
  fatupload upload firmware.bin --server http://192.168.4.1

  # Poll twice per second
  fatupload upload data.csv -s http://localhost:8080 --interval 500ms`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	addClientFlags(uploadCmd)
}

func runUpload(_ *cobra.Command, args []string) error {
	cfg, err := buildClientConfig()
	if err != nil {
		return err
	}

	logger := InitLogger(cfg.LogLevel, cfg.LogFile)

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}

	logger.Info("Uploading file",
		"file", path,
		"size", humanize.IBytes(uint64(info.Size())),
		"server", cfg.ServerURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bar := console.NewBar(os.Stdout, filepath.Base(path))
	p := poller.New(poller.NewHTTPFetcher(cfg.ServerURL, nil), bar, pollerOptions(cfg), logger)
	p.Select(info.Size())

	pollCtx, stopPolling := context.WithCancel(ctx)
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		if err := p.Run(pollCtx); err != nil {
			logger.Error("Poller stopped with error", "error", err)
		}
	}()

	entry, uploadErr := client.NewUploader(cfg.ServerURL, nil, logger).UploadFile(ctx, path)

	stopPolling()
	<-pollDone

	if uploadErr == nil {
		// One last reading so the bar ends on the server's final count
		p.Poll(ctx)
	}
	bar.Finish()

	if uploadErr != nil {
		return uploadErr
	}

	state := p.Snapshot()
	logger.Debug("Poller summary", "polls", state.Polls, "failures", state.Failures)

	fmt.Printf("Stored as %s (%s)\n", entry.Name, humanize.IBytes(uint64(entry.Size)))
	return nil
}
