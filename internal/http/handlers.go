package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fincalc/internal/engine"
	"fincalc/internal/log"
	"fincalc/internal/storage"
)

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	if s.rateLimiter != nil && !s.rateLimiter.allow(clientIP(r)) {
		logger.WarnContext(ctx, "Rate limit exceeded", log.FieldClientIP, clientIP(r))
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	var req engine.Request
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request envelope")
		return
	}
	if req.ID == nil {
		// HTTP clients get correlation ids for free.
		req.ID, _ = json.Marshal(uuid.NewString())
	}

	key := cacheKey(req)
	if s.responseCache != nil && cacheable(req.Type) {
		if cached, ok := s.responseCache.Get(key); ok {
			cached.ID = req.ID
			logger.DebugContext(ctx, "Serving cached result",
				log.FieldOperation, req.Type,
				log.FieldCacheHit, true)
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	start := time.Now()
	resp := s.engine.Handle(req)
	elapsed := time.Since(start)

	if s.responseCache != nil && resp.Error == nil && cacheable(req.Type) {
		s.responseCache.Set(key, resp)
	}

	s.record(r, resp, elapsed)

	logger.InfoContext(ctx, "Calculation served",
		log.FieldOperation, req.Type,
		log.FieldDuration, elapsed.Milliseconds(),
		"failed", resp.Error != nil)

	// Engine-level failures still honor the envelope contract: HTTP 200 with
	// the error field set. Only transport problems use HTTP status codes.
	writeJSON(w, http.StatusOK, resp)
}

// cacheable reports whether results for the operation depend only on the
// payload. Cashflow forecasts also depend on the current date, so identical
// payloads produce different results across a month rollover and must not be
// served from the cache.
func cacheable(opType string) bool {
	return opType != engine.TypeCalculateCashflowForecast
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"operations": s.engine.Operations(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) record(r *http.Request, resp engine.Response, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	entry := storage.Entry{
		Operation:  resp.Type,
		DurationMs: elapsed.Milliseconds(),
	}
	if resp.Error != nil {
		entry.Error = *resp.Error
	}
	if err := s.recorder.Record(r.Context(), entry); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to record calculation",
			log.FieldError, err,
			log.FieldOperation, resp.Type)
	}
}
