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

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// Default configuration values.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8080
	DefaultMaxUploadSize = "200MiB"
	DefaultServerURL     = "http://192.168.4.1"
	DefaultPollInterval  = 1 * time.Second
	DefaultLogLevel      = "info"

	MinPollInterval = 100 * time.Millisecond
	MaxPollInterval = 1 * time.Minute
)

// ServerConfig configures the upload server.
type ServerConfig struct {
	Host          string // Listen address
	Port          int    // Listen port
	UploadDir     string // Directory that receives uploaded files
	MaxUploadSize int64  // Maximum request body size in bytes

	// Logging
	LogLevel string // Log level: debug, info, warn, error
	LogFile  string // Log file path (empty = stderr)
}

// ClientConfig configures the progress poller used by the upload and watch commands.
type ClientConfig struct {
	ServerURL    string        // Base URL of the upload server
	PollInterval time.Duration // Interval between progress polls
	Serialize    bool          // Skip a poll while the previous one is outstanding

	// Logging
	LogLevel string
	LogFile  string
}

// GetDefaultUploadDir returns "uploads" next to the executable, or in the
// working directory if the executable path is unknown.
func GetDefaultUploadDir() string {
	exePath, err := os.Executable()
	if err != nil {
		return "uploads"
	}
	return filepath.Join(filepath.Dir(exePath), "uploads")
}

// ParseSize parses a human readable size such as "200MiB" or "1GB".
func ParseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("size %q is too large", s)
	}
	return int64(n), nil
}

// Validate checks if the server configuration is valid.
func (c *ServerConfig) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	if c.UploadDir == "" {
		return errors.New("upload directory cannot be empty")
	}

	if c.MaxUploadSize < 1 {
		return errors.New("max upload size must be at least 1 byte")
	}

	return validateLogLevel(c.LogLevel)
}

// Addr returns the listen address in host:port form.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// String returns a human-readable representation of the configuration.
func (c *ServerConfig) String() string {
	return fmt.Sprintf("ServerConfig{Addr=%s, UploadDir=%s, MaxUploadSize=%s}",
		c.Addr(), c.UploadDir, humanize.IBytes(uint64(c.MaxUploadSize)))
}

// Validate checks if the client configuration is valid.
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL must use http or https: %s", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("server URL has no host: %s", c.ServerURL)
	}

	if c.PollInterval < MinPollInterval {
		return fmt.Errorf("poll interval must be at least %v", MinPollInterval)
	}

	if c.PollInterval > MaxPollInterval {
		return fmt.Errorf("poll interval must not exceed %v", MaxPollInterval)
	}

	return validateLogLevel(c.LogLevel)
}

// String returns a human-readable representation of the configuration.
func (c *ClientConfig) String() string {
	return fmt.Sprintf("ClientConfig{Server=%s, Interval=%v, Serialize=%v}",
		c.ServerURL, c.PollInterval, c.Serialize)
}

func validateLogLevel(level string) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", level)
	}
	return nil
}
