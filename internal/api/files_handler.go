// File path: internal/api/files_handler.go
package api

import (
	"fmt"
	"net/http"
	"os"

	"github.com/shahran-n/Bug-Buster/internal/common"
)

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"files": s.index.All()})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configs.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if cfg.Folder == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no valid folder set"))
		return
	}
	if info, err := os.Stat(cfg.Folder); err != nil || !info.IsDir() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no valid folder set"))
		return
	}
	files, err := s.index.Scan(r.Context(), cfg.Folder)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	common.Logger().Info("api: refresh complete", "folder", cfg.Folder, "files", len(files))
	writeJSON(w, http.StatusOK, map[string]interface{}{"files": files, "count": len(files)})
}
