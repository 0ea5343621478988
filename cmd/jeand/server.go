package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jeantrail/kernel/pkg/bridge"
	"github.com/jeantrail/kernel/pkg/config"
	"github.com/jeantrail/kernel/pkg/contracts"
	"github.com/jeantrail/kernel/pkg/kernel"
	"github.com/jeantrail/kernel/pkg/store"
	"github.com/jeantrail/kernel/pkg/suggest"
	"github.com/jeantrail/kernel/pkg/thought"
)

type server struct {
	kernel         *kernel.Kernel
	bridge         *bridge.KernelBridge
	receipts       store.ReceiptStore
	thoughts       *thought.Store
	autonomyMode   contracts.AutonomyMode
	executionLimit int
	logger         *slog.Logger
}

func newServer(cfg *config.Config, k *kernel.Kernel, br *bridge.KernelBridge, receipts store.ReceiptStore, mode contracts.AutonomyMode, limit int, logger *slog.Logger) *http.Server {
	s := &server{
		kernel:         k,
		bridge:         br,
		receipts:       receipts,
		thoughts:       thought.NewStore(),
		autonomyMode:   mode,
		executionLimit: limit,
		logger:         logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/kernel/run", s.handleKernelRun)
	mux.HandleFunc("/v1/thoughts", s.handleThoughts)
	mux.HandleFunc("/v1/bridge/message", s.handleBridgeMessage)
	mux.HandleFunc("/v1/suggestions", s.handleSuggestions)
	mux.HandleFunc("/api/v1/receipts", s.handleReceipts)

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// tickRequest is a perception tick. When the thought aggregates are
// omitted they are taken from the daemon's thought store after expiring
// stale slots against the request time.
type tickRequest struct {
	Signals        contracts.Signals `json:"signals"`
	ThoughtsCount  *int              `json:"thoughtsCount,omitempty"`
	AvgConfidence  *float64          `json:"avgConfidence,omitempty"`
	Action         contracts.Action  `json:"action"`
	ExecutionCount int               `json:"executionCount"`
}

func (s *server) handleKernelRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}

	var req tickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	s.thoughts.ExpireOld(time.Now())
	stats := s.thoughts.Stats()
	thoughtsCount := stats.Count
	avgConfidence := stats.AvgConfidence
	if req.ThoughtsCount != nil {
		thoughtsCount = *req.ThoughtsCount
	}
	if req.AvgConfidence != nil {
		avgConfidence = *req.AvgConfidence
	}

	out := s.kernel.Run(r.Context(), contracts.KernelInput{
		Signals:        req.Signals,
		ThoughtsCount:  thoughtsCount,
		AvgConfidence:  avgConfidence,
		Action:         req.Action,
		AutonomyMode:   s.autonomyMode,
		ExecutionCount: req.ExecutionCount,
		ExecutionLimit: s.executionLimit,
	})
	writeJSON(w, http.StatusOK, out)
}

type thoughtRequest struct {
	Intent     contracts.Intent `json:"intent"`
	Confidence float64          `json:"confidence"`
}

func (s *server) handleThoughts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req thoughtRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
		id := s.thoughts.Observe(req.Intent, req.Confidence, time.Now())
		writeJSON(w, http.StatusOK, map[string]string{"id": id})
	case http.MethodGet:
		s.thoughts.ExpireOld(time.Now())
		writeJSON(w, http.StatusOK, map[string]any{
			"active": s.thoughts.Active(),
			"stats":  s.thoughts.Stats(),
		})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "GET or POST"})
	}
}

type suggestionRequest struct {
	Item        suggest.StoreItem         `json:"item"`
	Context     suggest.SuggestionContext `json:"context"`
	MatchReason string                    `json:"matchReason"`
}

func (s *server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}

	var req suggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	card := suggest.BuildSuggestionCard(req.Item, req.Context, req.MatchReason)
	if card == nil {
		writeJSON(w, http.StatusOK, map[string]any{"suggested": false})
		return
	}
	overlay := suggest.BuildTransparencyOverlay(req.Item, req.Context, req.MatchReason)
	writeJSON(w, http.StatusOK, map[string]any{
		"suggested":    true,
		"card":         card,
		"transparency": overlay,
	})
}

func (s *server) handleBridgeMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "POST only"})
		return
	}

	var signed bridge.SignedMessage
	if err := json.NewDecoder(r.Body).Decode(&signed); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	sessionID := r.Header.Get("X-Session-ID")
	resp := s.bridge.HandleMessage(r.Context(), signed, sessionID)
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleReceipts(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	receipts, err := s.receipts.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("receipt list failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage failure"})
		return
	}
	writeJSON(w, http.StatusOK, receipts)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
