package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kirychukyurii/adg-monitor/ui"
)

// ServeUI returns a handler that serves the embedded dashboard
func (h *Handler) ServeUI() http.HandlerFunc {
	fsys, err := ui.GetFileSystem()
	if err != nil {
		h.logger.Error("failed to get UI filesystem",
			slog.String("error", err.Error()),
		)
		return func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "UI not available", http.StatusNotFound)
		}
	}

	fileServer := http.FileServer(fsys)
	indexHTML := h.renderIndex(fsys)

	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Don't serve API routes through UI handler
		if strings.HasPrefix(path, "/api/") {
			http.NotFound(w, r)
			return
		}

		// Strip base path if present (chi.Mount doesn't strip it automatically)
		if h.basePath != "" && strings.HasPrefix(path, h.basePath) {
			path = strings.TrimPrefix(path, h.basePath)
			if path == "" {
				path = "/"
			}
		}

		if path == "/" || path == "/index.html" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(indexHTML)
			return
		}

		r.URL.Path = path
		fileServer.ServeHTTP(w, r)
	}
}

// renderIndex injects the base path so the dashboard can reach the API behind a reverse proxy
func (h *Handler) renderIndex(fsys http.FileSystem) []byte {
	file, err := fsys.Open("index.html")
	if err != nil {
		h.logger.Error("failed to open index.html",
			slog.String("error", err.Error()),
		)
		return nil
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read index.html",
			slog.String("error", err.Error()),
		)
		return nil
	}

	basePathScript := fmt.Sprintf("<script>window._BASE_PATH='%s';</script>", h.basePath)
	return bytes.Replace(content, []byte("</head>"), []byte(basePathScript+"</head>"), 1)
}
