// File path: cmd/fabb/launcher.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/common/process"
)

// runLauncher spawns the backend as a supervised child, waits for its
// health endpoint, and keeps it running until interrupted.
func runLauncher(addr string) error {
	logger := common.Logger()

	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	fmt.Println("  FABB - Full-Auto Bug Buster")
	fmt.Println("[1/2] Starting backend server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, err := process.Start(ctx, process.ServiceConfig{
		Name:         "fabb-backend",
		Command:      self,
		Args:         []string{"-addr", addr},
		ReadyURL:     fmt.Sprintf("http://%s/healthz", addr),
		ReadyTimeout: 15 * time.Second,
		StopTimeout:  5 * time.Second,
		Logger:       logger.With("component", "launcher"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("[2/2] Backend running on http://%s\n", addr)
	fmt.Println("  FABB is running! Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	exited := make(chan error, 1)
	go func() { exited <- backend.Wait() }()

	select {
	case <-sigCh:
		fmt.Println("\n[FABB] Shutting down...")
		if err := backend.Stop(context.Background()); err != nil {
			logger.Warn("fabb: backend shutdown returned error", "error", err)
		}
		fmt.Println("[FABB] Stopped.")
		return nil
	case err := <-exited:
		if err != nil {
			return fmt.Errorf("backend exited: %w", err)
		}
		return nil
	}
}
