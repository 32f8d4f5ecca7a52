// File path: cmd/fabb/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/shahran-n/Bug-Buster/internal/api"
	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/config"
	"github.com/shahran-n/Bug-Buster/internal/fileindex"
	"github.com/shahran-n/Bug-Buster/internal/history"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Debug("fabb: .env file not loaded", "error", err)
	} else {
		logger.Info("fabb: environment loaded from .env")
	}

	addr := flag.String("addr", "127.0.0.1:8765", "listen address")
	folder := flag.String("folder", "", "project folder to index on startup (overrides saved config)")
	historyPath := flag.String("history", defaultHistoryPath(), "path to the conversation history database")
	launch := flag.Bool("launch", false, "run as launcher: spawn the backend and wait for it")
	flag.Parse()

	if *launch {
		if err := runLauncher(*addr); err != nil {
			logger.Error("fabb: launcher failed", "error", err)
			fmt.Println("launcher error:", err)
			os.Exit(1)
		}
		return
	}

	if err := runServer(*addr, *folder, *historyPath); err != nil {
		logger.Error("fabb: server failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}
}

func runServer(addr, folder, historyPath string) error {
	logger := common.Logger()

	configs, err := config.NewStore("")
	if err != nil {
		return fmt.Errorf("init config store: %w", err)
	}
	cfg, err := configs.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(folder) != "" {
		if cfg, err = configs.Save(config.Config{Folder: folder}); err != nil {
			return fmt.Errorf("save folder config: %w", err)
		}
	}

	index := fileindex.New()
	if cfg.Folder != "" {
		if info, statErr := os.Stat(cfg.Folder); statErr == nil && info.IsDir() {
			files, scanErr := index.Scan(context.Background(), cfg.Folder)
			if scanErr != nil {
				logger.Warn("fabb: startup index failed", "folder", cfg.Folder, "error", scanErr)
			} else {
				logger.Info("fabb: indexed folder", "folder", cfg.Folder, "files", len(files))
			}
		} else {
			logger.Warn("fabb: configured folder unavailable", "folder", cfg.Folder)
		}
	}

	hist, err := history.Open(historyPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer hist.Close()

	srv, err := api.NewServer(index, configs, hist)
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	logger.Info("fabb: backend listening", "addr", addr)
	fmt.Printf("[FABB] Backend running on http://%s\n", addr)
	return http.ListenAndServe(addr, srv)
}

func defaultHistoryPath() string {
	if path := strings.TrimSpace(os.Getenv("FABB_HISTORY_FILE")); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "fabb_history.db"
	}
	return filepath.Join(home, ".fabb", "history.db")
}
