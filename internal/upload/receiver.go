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

package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/phuonguno98/fatupload/internal/storage"
)

// FieldName is the multipart field that carries the file.
const FieldName = "data"

// ErrNoFile is returned when the form has no file in the data field.
var ErrNoFile = errors.New("no file in form field " + FieldName)

// Receiver stores uploaded files in a directory.
type Receiver struct {
	dir     string
	tracker *Tracker
	logger  *slog.Logger
}

// NewReceiver creates a receiver writing into dir.
func NewReceiver(dir string, tracker *Tracker, logger *slog.Logger) *Receiver {
	return &Receiver{
		dir:     dir,
		tracker: tracker,
		logger:  logger,
	}
}

// Tracker returns the progress tracker fed by this receiver.
func (rc *Receiver) Tracker() *Tracker {
	return rc.tracker
}

// Receive reads parts from mr until the file field has been stored, and
// returns the stored entry. Other fields are discarded.
func (rc *Receiver) Receive(mr *multipart.Reader) (*storage.FileEntry, error) {
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, ErrNoFile
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read multipart body: %w", err)
		}

		if part.FormName() != FieldName || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		entry, err := rc.store(part)
		_ = part.Close()
		return entry, err
	}
}

// store writes one file part to a temporary file and renames it into place.
func (rc *Receiver) store(part *multipart.Part) (*storage.FileEntry, error) {
	name := SanitizeFilename(part.FileName())
	tmpPath := filepath.Join(rc.dir, storage.TempPrefix+uuid.New().String())

	dst, err := os.Create(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	rc.tracker.Begin()
	defer rc.tracker.End()

	rc.logger.Info("Upload started", "name", part.FileName(), "saved_as", name)

	written, err := io.Copy(dst, rc.tracker.Reader(part))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			rc.logger.Error("Failed to remove incomplete file", "path", tmpPath, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	finalPath := filepath.Join(rc.dir, name)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			rc.logger.Error("Failed to remove incomplete file", "path", tmpPath, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to move file into place: %w", err)
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat stored file: %w", err)
	}

	rc.logger.Info("Upload finished", "name", name, "bytes", written)

	return &storage.FileEntry{
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// SanitizeFilename strips directories and keeps only characters that are safe
// on small file systems. Spaces become underscores.
func SanitizeFilename(name string) string {
	// Browsers on Windows may send the full client path
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	clean := func(s string, allowDot bool) string {
		return strings.Map(func(r rune) rune {
			switch {
			case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
				return r
			case r == '-' || r == '_':
				return r
			case r == ' ':
				return '_'
			case r == '.' && allowDot:
				return r
			}
			return -1
		}, s)
	}

	base = strings.TrimRight(strings.TrimLeft(clean(base, true), "._"), "_")
	ext = clean(ext, true)

	if base == "" {
		base = "unnamed"
	}
	// Limit length
	if len(base) > 64 {
		base = base[:64]
	}
	if ext == "." {
		ext = ""
	}
	return base + ext
}
