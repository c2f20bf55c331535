// Package api exposes the analyzer over HTTP: statement upload,
// derived-report retrieval, and the chat endpoint. The conversation is
// held by the client and resent each turn; the server keeps no session
// state beyond the derivation cache.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/finlens/finlens/internal/cache"
	"github.com/finlens/finlens/internal/chat"
	"github.com/finlens/finlens/internal/derive"
	"github.com/finlens/finlens/internal/ingest"
	"github.com/finlens/finlens/internal/llm"
	"github.com/finlens/finlens/internal/model"
	"github.com/finlens/finlens/internal/pipeline"
	"github.com/finlens/finlens/internal/report"
)

// Handler holds the HTTP handlers for the API
type Handler struct {
	Pipeline *pipeline.Pipeline
	Provider llm.Provider // nil when no LLM is configured
	Limiter  *chat.Limiter

	// MaxUploadBytes caps the statement file size
	MaxUploadBytes int64
}

// AnalyzeResponse is the JSON response from /api/analyze
type AnalyzeResponse struct {
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
	Fingerprint string            `json:"fingerprint,omitempty"`
	Statement   *model.Statement  `json:"statement,omitempty"`
	Metrics     *model.KeyMetrics `json:"metrics,omitempty"`
	Table       string            `json:"table,omitempty"`
}

// ChatRequest is the JSON body for /api/chat. The client resends its
// conversation every turn; the server rebuilds the session from it.
type ChatRequest struct {
	Fingerprint string        `json:"fingerprint"`
	Question    string        `json:"question"`
	History     []llm.Message `json:"history,omitempty"`
}

// ChatResponse is the JSON response from /api/chat
type ChatResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Kind    string        `json:"kind,omitempty"` // error classification
	Reply   string        `json:"reply,omitempty"`
	History []llm.Message `json:"history,omitempty"`
}

// RegisterRoutes sets up the HTTP routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.handleHealth)
	mux.HandleFunc("/api/analyze", h.handleAnalyze)
	mux.HandleFunc("/api/chat", h.handleChat)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleAnalyze accepts a multipart upload ("file") holding a
// three-column statement and returns the enriched report.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAnalyzeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	maxBytes := h.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeAnalyzeError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeAnalyzeError(w, http.StatusBadRequest, "missing 'file' form field")
		return
	}
	defer func() { _ = file.Close() }()

	rows, err := ingest.Read(file, ingest.DetectFormat(header.Filename))
	if err != nil {
		writeAnalyzeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.Pipeline.Analyze(rows)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, derive.ErrMissingAnchorRow) {
			status = http.StatusUnprocessableEntity
		}
		writeAnalyzeError(w, status, err.Error())
		return
	}

	metrics := report.Metrics(st)
	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Success:     true,
		Fingerprint: cache.Fingerprint(rows),
		Statement:   st,
		Metrics:     &metrics,
		Table:       report.Table(st),
	})
}

// handleChat answers one conversation turn about a previously analyzed
// statement, identified by its content fingerprint.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeChatError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeChatError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}
	if req.Fingerprint == "" || req.Question == "" {
		writeChatError(w, http.StatusBadRequest, "fingerprint and question are required", "")
		return
	}

	if h.Provider == nil {
		writeChatError(w, http.StatusServiceUnavailable,
			"no language-model provider configured; set an API key and provider", "config")
		return
	}

	st, found := h.Pipeline.Lookup(req.Fingerprint)
	if !found {
		writeChatError(w, http.StatusNotFound,
			"statement not found in cache; re-upload it via /api/analyze", "")
		return
	}

	session := chat.NewSession(h.Provider, h.Limiter, report.Context(st))
	session.Restore(req.History)

	reply, err := session.Ask(r.Context(), req.Question)
	if err != nil {
		// An external-service failure is local to this turn; nothing
		// derived is invalidated
		writeChatError(w, http.StatusBadGateway, err.Error(), string(llm.KindOf(err)))
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Success: true,
		Reply:   reply,
		History: session.History(),
	})
}

func writeAnalyzeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, AnalyzeResponse{Success: false, Error: msg})
}

func writeChatError(w http.ResponseWriter, status int, msg, kind string) {
	writeJSON(w, status, ChatResponse{Success: false, Error: msg, Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
