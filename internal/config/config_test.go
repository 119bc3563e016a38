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
	"strings"
	"testing"
	"time"
)

func TestServerConfig_Validate(t *testing.T) {
	valid := func() ServerConfig {
		return ServerConfig{
			Host:          DefaultHost,
			Port:          DefaultPort,
			UploadDir:     t.TempDir(),
			MaxUploadSize: 1024,
			LogLevel:      "info",
		}
	}

	tests := []struct {
		name    string
		modify  func(c *ServerConfig)
		wantErr bool
	}{
		{
			name:    "Valid Config",
			modify:  func(*ServerConfig) {},
			wantErr: false,
		},
		{
			name:    "Invalid Port (Zero)",
			modify:  func(c *ServerConfig) { c.Port = 0 },
			wantErr: true,
		},
		{
			name:    "Invalid Port (Too large)",
			modify:  func(c *ServerConfig) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "Empty Upload Dir",
			modify:  func(c *ServerConfig) { c.UploadDir = "" },
			wantErr: true,
		},
		{
			name:    "Invalid Max Upload Size",
			modify:  func(c *ServerConfig) { c.MaxUploadSize = 0 },
			wantErr: true,
		},
		{
			name:    "Invalid Log Level",
			modify:  func(c *ServerConfig) { c.LogLevel = "invalid" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ServerConfig.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ClientConfig
		wantErr bool
	}{
		{
			name:    "Valid Config",
			config:  ClientConfig{ServerURL: DefaultServerURL, PollInterval: time.Second, LogLevel: "info"},
			wantErr: false,
		},
		{
			name:    "HTTPS With Port",
			config:  ClientConfig{ServerURL: "https://device.local:8443", PollInterval: 500 * time.Millisecond, LogLevel: "debug"},
			wantErr: false,
		},
		{
			name:    "Missing Scheme",
			config:  ClientConfig{ServerURL: "192.168.4.1", PollInterval: time.Second, LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "Unsupported Scheme",
			config:  ClientConfig{ServerURL: "ftp://device", PollInterval: time.Second, LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "Interval Too Small",
			config:  ClientConfig{ServerURL: DefaultServerURL, PollInterval: 10 * time.Millisecond, LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "Interval Too Large",
			config:  ClientConfig{ServerURL: DefaultServerURL, PollInterval: 2 * time.Minute, LogLevel: "info"},
			wantErr: true,
		},
		{
			name:    "Invalid Log Level",
			config:  ClientConfig{ServerURL: DefaultServerURL, PollInterval: time.Second, LogLevel: "trace"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ClientConfig.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"200MiB", 200 * 1024 * 1024, false},
		{"1KB", 1000, false},
		{"512", 512, false},
		{"lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParseSize() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetDefaultUploadDir(t *testing.T) {
	dir := GetDefaultUploadDir()
	if !strings.HasSuffix(dir, "uploads") {
		t.Errorf("GetDefaultUploadDir() = %v, expected uploads suffix", dir)
	}
}

func TestServerConfig_String(t *testing.T) {
	cfg := ServerConfig{Host: "127.0.0.1", Port: 80, UploadDir: "/srv", MaxUploadSize: 1024}
	if got := cfg.String(); !strings.Contains(got, "127.0.0.1:80") || !strings.Contains(got, "1.0 KiB") {
		t.Errorf("String() = %q", got)
	}
}
