// File path: internal/api/chat_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shahran-n/Bug-Buster/internal/agent"
	"github.com/shahran-n/Bug-Buster/internal/common"
	"github.com/shahran-n/Bug-Buster/internal/llm"
	"github.com/shahran-n/Bug-Buster/internal/llm/providers"
	"github.com/shahran-n/Bug-Buster/internal/pipeline"
)

type chatRequest struct {
	Prompt  string              `json:"prompt"`
	History []providers.Message `json:"history"`
}

const historyWindow = 20

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: chat decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("empty prompt"))
		return
	}

	cfg, err := s.configs.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	provider := llm.NewProvider(llm.Settings{
		Provider: cfg.APIProvider,
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
	})
	logger.Info("api: chat request received", "prompt_length", len(req.Prompt), "provider", provider.Name())

	conversation, err := agent.New(provider, nil, pipeline.SystemPrompt)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	runner := pipeline.NewRunner(s.index, conversation)

	turns := req.History
	if turns == nil && s.history != nil {
		stored, err := s.history.Recent(ctx, historyWindow)
		if err != nil {
			logger.Warn("api: history load failed", "error", err)
		} else {
			for _, msg := range stored {
				turns = append(turns, providers.Message{Role: msg.Role, Content: msg.Content})
			}
		}
	}

	result, err := runner.Run(ctx, req.Prompt, turns)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if s.history != nil {
		if err := s.history.Append(ctx, "user", req.Prompt); err != nil {
			logger.Warn("api: history append failed", "error", err)
		} else if err := s.history.Append(ctx, "assistant", result.PlainText); err != nil {
			logger.Warn("api: history append failed", "error", err)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"messages": []struct{}{}})
		return
	}
	messages, err := s.history.Recent(r.Context(), 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}
	if err := s.history.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
