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

// Package client sends files to an upload server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuonguno98/fatupload/internal/storage"
	"github.com/phuonguno98/fatupload/internal/upload"
)

// UploadPath is the form action of the upload page.
const UploadPath = "/upload"

// Uploader posts files as multipart forms, the way the upload page does.
type Uploader struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewUploader creates an uploader for the server at baseURL.
// A nil client uses http.DefaultClient; uploads are not time limited.
func NewUploader(baseURL string, client *http.Client, logger *slog.Logger) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// UploadFile streams the file at path to the server and returns the entry
// the server stored it as.
func (u *Uploader) UploadFile(ctx context.Context, path string) (*storage.FileEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			u.logger.Warn("Failed to close upload source", "path", path, "error", err)
		}
	}()

	return u.Upload(ctx, filepath.Base(path), f)
}

// Upload streams r as a file named name.
func (u *Uploader) Upload(ctx context.Context, name string, r io.Reader) (*storage.FileEntry, error) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	go func() {
		part, err := writer.CreateFormFile(upload.FieldName, name)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = writer.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+UploadPath, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	u.logger.Debug("Uploading", "name", name, "url", req.URL.String())

	resp, err := u.client.Do(req)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("upload rejected (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}

	var entry storage.FileEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return &entry, nil
}
