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
	"fmt"
	"time"

	"github.com/phuonguno98/fatupload/internal/config"
	"github.com/phuonguno98/fatupload/internal/poller"
	"github.com/spf13/cobra"
)

var (
	// Flags shared by the upload and watch commands
	clientServerURL string
	clientInterval  time.Duration
	clientSerialize bool
)

func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&clientServerURL, "server", "s", config.DefaultServerURL,
		"Base URL of the upload server")
	cmd.Flags().DurationVar(&clientInterval, "interval", config.DefaultPollInterval,
		"Progress poll interval (e.g., 500ms, 1s)")
	cmd.Flags().BoolVar(&clientSerialize, "serialize", false,
		"Wait for each progress request to finish before sending the next")
}

// buildClientConfig creates a ClientConfig from parsed flags.
func buildClientConfig() (*config.ClientConfig, error) {
	cfg := &config.ClientConfig{
		ServerURL:    clientServerURL,
		PollInterval: clientInterval,
		Serialize:    clientSerialize,
		LogLevel:     logLevel,
		LogFile:      logFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func pollerOptions(cfg *config.ClientConfig) poller.Options {
	return poller.Options{
		Interval:  cfg.PollInterval,
		Serialize: cfg.Serialize,
	}
}
