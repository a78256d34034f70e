package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/RohanPatil7777/Document-Anonymizer/internal/anonymize"
	"github.com/RohanPatil7777/Document-Anonymizer/internal/store"
)

// maxRequestBytes caps anonymize request bodies at 10 MB of JSON.
const maxRequestBytes = 10 << 20

// anonymizeRequest is the POST /v1/anonymize body. Threshold and
// MaxChunkWords override the server defaults for this request only.
type anonymizeRequest struct {
	Text          string   `json:"text"`
	Threshold     *float64 `json:"confidence_threshold,omitempty"`
	MaxChunkWords *int     `json:"max_chunk_words,omitempty"`
}

// anonymizeResponse wraps the result with the persisted run ID, when any.
type anonymizeResponse struct {
	RunID string `json:"run_id,omitempty"`
	*anonymize.Result
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"recognizer":     s.recognizer.Name(),
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	var req anonymizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid JSON body: "+err.Error())
		return
	}

	threshold := s.threshold
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	maxWords := s.maxWords
	if req.MaxChunkWords != nil {
		maxWords = *req.MaxChunkWords
	}

	session, err := s.newSession(threshold, maxWords)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}

	result, err := session.Anonymize(r.Context(), req.Text)
	if err != nil {
		log.Error().Err(err).Msg("anonymization failed")
		writeError(w, http.StatusBadGateway, "recognizer_error", err.Error())
		return
	}

	resp := anonymizeResponse{Result: result}
	if s.runStore != nil {
		rec := store.NewRecord(req.Text, s.recognizer.Name(), s.model, result)
		if err := s.runStore.Save(r.Context(), rec); err != nil {
			// The caller still gets their result; the audit gap is logged.
			log.Warn().Err(err).Str("run_id", rec.ID).Msg("persisting run record failed")
		} else {
			resp.RunID = rec.ID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRunsList(w http.ResponseWriter, r *http.Request) {
	if s.runStore == nil {
		writeError(w, http.StatusNotFound, "not_found", "Run store not configured")
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.runStore.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	if records == nil {
		records = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": records})
}

func (s *Server) handleRunGet(w http.ResponseWriter, r *http.Request) {
	if s.runStore == nil {
		writeError(w, http.StatusNotFound, "not_found", "Run store not configured")
		return
	}

	id := chi.URLParam(r, "id")
	rec, err := s.runStore.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "No run with id "+id)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
