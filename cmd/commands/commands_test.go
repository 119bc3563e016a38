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
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phuonguno98/fatupload/internal/config"
	"github.com/phuonguno98/fatupload/internal/server"
)

func TestWatchTotalSize(t *testing.T) {
	local := filepath.Join(t.TempDir(), "local.bin")
	if err := os.WriteFile(local, make([]byte, 1234), 0o644); err != nil {
		t.Fatal(err)
	}
	empty := filepath.Join(t.TempDir(), "empty.bin")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		total    string
		file     string
		expected int64
		wantErr  bool
	}{
		{name: "Total in bytes", total: "5000", expected: 5000},
		{name: "Total with unit", total: "4KiB", expected: 4096},
		{name: "From file", file: local, expected: 1234},
		{name: "Both set", total: "1", file: local, wantErr: true},
		{name: "Neither set", wantErr: true},
		{name: "Missing file", file: local + ".missing", wantErr: true},
		{name: "Zero total", total: "0", wantErr: true},
		{name: "Empty file", file: empty, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			watchTotal, watchFile = tt.total, tt.file
			defer func() { watchTotal, watchFile = "", "" }()

			got, err := watchTotalSize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("watchTotalSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("watchTotalSize() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestRunWatch_UntilComplete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/readProgress", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "1000")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	clientServerURL = ts.URL
	clientInterval = 100 * time.Millisecond
	clientSerialize = false
	logLevel = "error"
	watchTotal, watchUntilComplete = "1000", true
	defer func() { watchTotal, watchUntilComplete = "", false }()

	done := make(chan error, 1)
	go func() { done <- runWatch(nil, nil) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runWatch() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch() did not return after the upload reached 100%")
	}
}

func TestBuildServerConfig(t *testing.T) {
	serveHost, servePort = config.DefaultHost, config.DefaultPort
	serveUploadDir = t.TempDir()
	serveMaxUploadSize = "1MiB"
	logLevel = "info"
	defer func() { serveUploadDir, serveMaxUploadSize = "", config.DefaultMaxUploadSize }()

	cfg, err := buildServerConfig()
	if err != nil {
		t.Fatalf("buildServerConfig() error = %v", err)
	}
	if cfg.MaxUploadSize != 1<<20 {
		t.Errorf("MaxUploadSize = %d, want %d", cfg.MaxUploadSize, 1<<20)
	}
	if !filepath.IsAbs(cfg.UploadDir) {
		t.Errorf("UploadDir = %q, want absolute path", cfg.UploadDir)
	}

	serveMaxUploadSize = "huge"
	if _, err := buildServerConfig(); err == nil {
		t.Error("buildServerConfig() with invalid size returned nil error")
	}
}

func TestRunUpload_EndToEnd(t *testing.T) {
	uploadDir := t.TempDir()
	srv, err := server.NewServer(uploadDir, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	source := filepath.Join(t.TempDir(), "sensor log.csv")
	content := strings.Repeat("t,v\n", 4096)
	if err := os.WriteFile(source, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	clientServerURL = ts.URL
	clientInterval = 100 * time.Millisecond
	clientSerialize = false
	logLevel = "error"

	if err := runUpload(nil, []string{source}); err != nil {
		t.Fatalf("runUpload() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(uploadDir, "sensor_log.csv"))
	if err != nil {
		t.Fatalf("Uploaded file not stored: %v", err)
	}
	if string(data) != content {
		t.Error("Stored content differs from source")
	}
	if got := srv.Tracker().Load(); got != int64(len(content)) {
		t.Errorf("Tracker = %d, want %d", got, len(content))
	}
}
