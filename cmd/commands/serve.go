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
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/phuonguno98/fatupload/internal/config"
	"github.com/phuonguno98/fatupload/internal/server"
	"github.com/spf13/cobra"
)

var (
	// Serve command specific flags
	servePort          int
	serveHost          string
	serveUploadDir     string
	serveMaxUploadSize string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the upload server",
	Long: `Start the web server that accepts file uploads into a storage directory.

Endpoints:
  GET    /                 Upload page with storage figures and file list
  POST   /upload           Multipart upload, file field "data"
  GET    /readProgress     Bytes received for the current upload (plain text)
  GET    /download/{name}  Download a stored file
  DELETE /files/{name}     Delete a stored file

Examples:
  # Start server on default port 8080
  fatupload serve

  # Store files on a mounted card, localhost only
  fatupload serve --host 127.0.0.1 --port 3000 --upload-dir /media/sdcard`,

	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", config.DefaultHost, "HTTP server listen address")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", config.DefaultPort, "HTTP server port")
	serveCmd.Flags().StringVarP(&serveUploadDir, "upload-dir", "d", "", "Directory to store uploaded files (default: uploads next to the binary)")
	serveCmd.Flags().StringVar(&serveMaxUploadSize, "max-upload-size", config.DefaultMaxUploadSize, "Maximum upload size (e.g. 200MiB, 1GB)")
}

// buildServerConfig creates a ServerConfig from parsed flags.
func buildServerConfig() (*config.ServerConfig, error) {
	maxSize, err := config.ParseSize(serveMaxUploadSize)
	if err != nil {
		return nil, err
	}

	uploadDir := serveUploadDir
	if uploadDir == "" {
		uploadDir = config.GetDefaultUploadDir()
	}
	absUploadDir, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}

	cfg := &config.ServerConfig{
		Host:          serveHost,
		Port:          servePort,
		UploadDir:     absUploadDir,
		MaxUploadSize: maxSize,
		LogLevel:      logLevel,
		LogFile:       logFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// createServerInstance encapsulates server creation logic for testing.
func createServerInstance(cfg *config.ServerConfig, logger *slog.Logger) (*server.Server, error) {
	return server.NewServer(cfg.UploadDir, cfg.MaxUploadSize, logger)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := buildServerConfig()
	if err != nil {
		return err
	}

	logger := InitLogger(cfg.LogLevel, cfg.LogFile)
	logger.Info("Starting upload server", "config", cfg.String())

	srv, err := createServerInstance(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// No write timeout: large uploads to slow storage take a while
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("Received signal, initiating shutdown", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	if cfg.Host != config.DefaultHost {
		serverURL = fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port)
	}

	fmt.Printf("\nfatupload is running!\n")
	fmt.Printf("URL: %s\n", serverURL)
	fmt.Printf("Uploads: %s\n\n", srv.UploadDir())

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-ctx.Done()
	logger.Info("Server stopped")
	return nil
}
