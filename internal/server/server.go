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

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/phuonguno98/fatupload/internal/page"
	"github.com/phuonguno98/fatupload/internal/storage"
	"github.com/phuonguno98/fatupload/internal/upload"
	"github.com/phuonguno98/fatupload/pkg/version"
	"github.com/phuonguno98/fatupload/web"
)

// DefaultMaxUploadSize limits file upload size (200MB)
const DefaultMaxUploadSize = 200 * 1024 * 1024

// Dependency injection point for testing
var volumeUsage = storage.Usage

// Server is the upload appliance's web server.
type Server struct {
	receiver      *upload.Receiver
	tracker       *upload.Tracker
	uploadDir     string
	maxUploadSize int64
	logger        *slog.Logger
	router        *mux.Router
}

// NewServer creates a new web server storing files in uploadDir.
// A maxUploadSize of 0 or less selects DefaultMaxUploadSize.
func NewServer(uploadDir string, maxUploadSize int64, logger *slog.Logger) (*Server, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}

	tracker := &upload.Tracker{}
	s := &Server{
		receiver:      upload.NewReceiver(uploadDir, tracker, logger),
		tracker:       tracker,
		uploadDir:     uploadDir,
		maxUploadSize: maxUploadSize,
		logger:        logger,
		router:        mux.NewRouter(),
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	// Add CORS middleware
	s.router.Use(corsMiddleware)
	// Add logging middleware
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/upload", s.handleUpload).Methods("POST")
	s.router.HandleFunc("/readProgress", s.handleReadProgress).Methods("GET")
	s.router.HandleFunc("/download/{name}", s.handleDownload).Methods("GET")
	s.router.HandleFunc("/files/{name}", s.handleDeleteFile).Methods("DELETE")
	s.router.HandleFunc("/api/files", s.handleGetFiles).Methods("GET")
	s.router.HandleFunc("/api/version", s.handleGetVersion).Methods("GET")
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// UploadDir returns the absolute path of the upload directory.
func (s *Server) UploadDir() string {
	return s.uploadDir
}

// Tracker returns the progress tracker behind /readProgress.
func (s *Server) Tracker() *upload.Tracker {
	return s.tracker
}

// handleIndex renders the upload page with live storage figures and file list.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	values := page.UnavailableValues()
	if stats, err := volumeUsage(s.uploadDir); err != nil {
		s.logger.Warn("Failed to read storage figures", "error", err)
	} else {
		values = page.StorageValues(stats)
	}

	files, err := storage.ListFiles(s.uploadDir)
	if err != nil {
		s.logger.Error("Failed to list files", "error", err)
		http.Error(w, "Internal Server Error: cannot list files", http.StatusInternalServerError)
		return
	}

	values.FileList, err = page.RenderFileList(files)
	if err != nil {
		s.logger.Error("Failed to render file list", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	if _, err := w.Write([]byte(page.Render(web.IndexHTML, values))); err != nil {
		s.logger.Error("Failed to serve index page", "error", err)
	}
}

// handleUpload streams the multipart body into the upload directory.
// Browsers are redirected back to the page; JSON clients get the stored entry.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	logger := s.logger.With("request_id", requestID)

	if r.ContentLength > s.maxUploadSize {
		s.writeError(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	// Reject early if the volume cannot hold the file
	if r.ContentLength > 0 {
		if stats, err := volumeUsage(s.uploadDir); err == nil && uint64(r.ContentLength) > stats.Free {
			logger.Warn("Upload rejected, not enough free space",
				"content_length", r.ContentLength, "free", stats.Free)
			s.writeError(w, "Not enough free storage", http.StatusRequestEntityTooLarge)
			return
		}
	}

	// Limit request body size
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)

	mr, err := r.MultipartReader()
	if err != nil {
		s.writeError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	entry, err := s.receiver.Receive(mr)
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, upload.ErrNoFile):
			s.writeError(w, "No file in form field "+upload.FieldName, http.StatusBadRequest)
		case errors.As(err, &maxErr):
			s.writeError(w, "File too large", http.StatusRequestEntityTooLarge)
		default:
			logger.Error("Upload failed", "error", err)
			s.writeError(w, "Failed to save file", http.StatusInternalServerError)
		}
		return
	}

	logger.Info("File uploaded successfully", "name", entry.Name, "size", entry.Size)

	if wantsJSON(r) {
		s.writeJSON(w, entry)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleReadProgress reports the bytes received for the current upload as plain text.
func (s *Server) handleReadProgress(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	if _, err := w.Write([]byte(strconv.FormatInt(s.tracker.Load(), 10))); err != nil {
		s.logger.Warn("Failed to write progress", "error", err)
	}
}

// handleDownload serves a stored file as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	path, err := storage.Resolve(s.uploadDir, name)
	if err != nil {
		s.writeStorageError(w, name, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

// handleDeleteFile removes a stored file.
func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := storage.Remove(s.uploadDir, name); err != nil {
		s.writeStorageError(w, name, err)
		return
	}

	s.logger.Info("File deleted", "name", name)
	w.WriteHeader(http.StatusNoContent)
}

// handleGetFiles returns the stored files as JSON.
func (s *Server) handleGetFiles(w http.ResponseWriter, _ *http.Request) {
	files, err := storage.ListFiles(s.uploadDir)
	if err != nil {
		s.logger.Error("Failed to list files", "error", err)
		s.writeError(w, "Failed to list files", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, files)
}

// handleGetVersion returns version information from the version package.
func (s *Server) handleGetVersion(w http.ResponseWriter, _ *http.Request) {
	versionInfo := map[string]string{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
	}
	s.writeJSON(w, versionInfo)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (s *Server) writeStorageError(w http.ResponseWriter, name string, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		s.writeError(w, "Invalid file name", http.StatusBadRequest)
	case errors.Is(err, storage.ErrNotFound):
		s.writeError(w, "File not found", http.StatusNotFound)
	default:
		s.logger.Error("Storage operation failed", "name", name, "error", err)
		s.writeError(w, "Storage error", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to write JSON response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	}); err != nil {
		s.logger.Error("Failed to write error response", "error", err)
	}
}
