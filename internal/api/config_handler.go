// File path: internal/api/config_handler.go
package api

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/config"
)

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configs.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	var req config.Config
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.configs.Save(req); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	// A new folder triggers an immediate re-index so the next chat sees it.
	if req.Folder != "" {
		if info, err := os.Stat(req.Folder); err == nil && info.IsDir() {
			if files, err := s.index.Scan(r.Context(), req.Folder); err != nil {
				logger.Error("api: re-index after config update failed", "folder", req.Folder, "error", err)
			} else {
				logger.Info("api: indexed folder", "folder", req.Folder, "files", len(files))
			}
		} else {
			logger.Warn("api: configured folder is not a directory", "folder", req.Folder)
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
