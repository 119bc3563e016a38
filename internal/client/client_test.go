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

package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phuonguno98/fatupload/internal/storage"
	"github.com/phuonguno98/fatupload/internal/upload"
)

func TestUploader_UploadFile(t *testing.T) {
	content := strings.Repeat("payload", 100)
	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != UploadPath || r.Method != http.MethodPost {
			t.Errorf("Request = %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}

		file, header, err := r.FormFile(upload.FieldName)
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()

		data, _ := io.ReadAll(file)
		if string(data) != content {
			t.Error("Received content differs")
		}

		_ = json.NewEncoder(w).Encode(storage.FileEntry{Name: header.Filename, Size: int64(len(data))})
	}))
	defer ts.Close()

	u := NewUploader(ts.URL+"/", ts.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	entry, err := u.UploadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if entry.Name != "image.bin" || entry.Size != int64(len(content)) {
		t.Errorf("Entry = %+v", entry)
	}
}

func TestUploader_Rejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusRequestEntityTooLarge)
		_, _ = w.Write([]byte(`{"error":"Not enough free storage"}`))
	}))
	defer ts.Close()

	u := NewUploader(ts.URL, ts.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := u.Upload(context.Background(), "big.bin", strings.NewReader("xxxx"))
	if err == nil {
		t.Fatal("Upload() error = nil, want rejection")
	}
	if !strings.Contains(err.Error(), "Not enough free storage") {
		t.Errorf("Upload() error = %v, want server message", err)
	}
}

func TestUploader_MissingFile(t *testing.T) {
	u := NewUploader("http://127.0.0.1:1", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if _, err := u.UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("UploadFile() on missing file returned nil error")
	}
}
