// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/config"
	"github.com/shahran-n/Bug-Buster/internal/fileindex"
	"github.com/shahran-n/Bug-Buster/internal/history"
)

// Server exposes the debugging assistant over HTTP. Conversational
// turns rebuild the provider from the stored configuration so API key
// changes take effect without a restart.
type Server struct {
	router  chi.Router
	index   *fileindex.Index
	configs *config.Store
	history *history.Store
}

func NewServer(index *fileindex.Index, configs *config.Store, hist *history.Store) (*Server, error) {
	if index == nil {
		return nil, fmt.Errorf("file index required")
	}
	if configs == nil {
		return nil, fmt.Errorf("config store required")
	}
	srv := &Server{
		router:  chi.NewRouter(),
		index:   index,
		configs: configs,
		history: hist,
	}
	srv.routes()
	common.Logger().Info("api: server ready")
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Get("/api/config", s.handleGetConfig)
	s.router.Post("/api/config", s.handleUpdateConfig)
	s.router.Get("/api/files", s.handleFiles)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/api/refresh", s.handleRefresh)
	s.router.Get("/api/logs", s.handleLogs)
	s.router.Get("/api/history", s.handleHistory)
	s.router.Post("/api/history/clear", s.handleClearHistory)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
