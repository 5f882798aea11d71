// Package handler wires the verification endpoints to the orchestrator and
// the attempt store.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"verigate/internal/audit"
	"verigate/internal/ratelimit"
	"verigate/internal/verify"
	"verigate/internal/verify/gate"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks Service,AttemptReader

// Service is the slice of the verification service the handler needs beyond
// what the gate already covers.
type Service interface {
	Fallback(ctx context.Context, req verify.FallbackRequest) (*verify.FallbackResult, error)
}

// AttemptReader serves the audit read paths.
type AttemptReader interface {
	ListByUser(ctx context.Context, userID string, limit, skip int) ([]audit.Attempt, int, error)
	StatsByUser(ctx context.Context, userID string) (audit.Stats, error)
}

// Handler exposes the verification API.
type Handler struct {
	service  Service
	attempts AttemptReader
	limiter  *ratelimit.Limiter
	logger   *slog.Logger
}

// New constructs a handler with its dependencies.
func New(service Service, attempts AttemptReader, limiter *ratelimit.Limiter, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		attempts: attempts,
		limiter:  limiter,
		logger:   logger,
	}
}

// Register mounts the verification endpoints. The gate guards only
// /verify-secure; the fallback flow bypasses the AND-aggregation by design.
func (h *Handler) Register(r chi.Router, g *gate.Gate) {
	r.Group(func(r chi.Router) {
		r.Use(g.Protect)
		r.Post("/verify-secure", h.HandleVerifySecure)
	})
	r.Post("/fallback-verification", h.HandleFallback)
	r.Get("/logs/{userID}", h.HandleLogs)
	r.Get("/stats/{userID}", h.HandleStats)
}

type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// HandleVerifySecure runs after the gate has decided success; it only
// reports the verification marker back to the client.
func (h *Handler) HandleVerifySecure(w http.ResponseWriter, r *http.Request) {
	marker, ok := gate.MarkerFromContext(r.Context())
	if !ok {
		// Reachable only if the route was mounted without the gate.
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "verification marker missing"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successEnvelope{
		Success: true,
		Data: verifiedPayload{
			Verified:       true,
			RecaptchaScore: marker.RecaptchaScore,
			FaceConfidence: marker.FaceConfidence,
			Timestamp:      marker.Timestamp,
		},
	})
}

type verifiedPayload struct {
	Verified       bool      `json:"verified"`
	RecaptchaScore float64   `json:"recaptchaScore"`
	FaceConfidence float64   `json:"faceConfidence"`
	Timestamp      time.Time `json:"timestamp"`
}

// HandleFallback records a manual-fallback attempt and returns out-of-band
// instructions. The attempt record is persisted even though the response is
// always a success envelope.
func (h *Handler) HandleFallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wireReq, ok := httputil.DecodeJSON[fallbackRequest](w, r)
	if !ok {
		return
	}
	domainReq, err := wireReq.toDomain()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if !h.limiter.Allow(ctx, "fallback:"+domainReq.UserID) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "too many fallback requests"))
		return
	}

	result, err := h.service.Fallback(ctx, domainReq)
	if err != nil {
		h.logger.ErrorContext(ctx, "fallback verification failed",
			"user_id", domainReq.UserID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successEnvelope{Success: true, Data: result})
}

// HandleLogs returns a user's attempt records, newest first.
func (h *Handler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "userID is required"))
		return
	}

	limit, skip := pagination(r)
	attempts, total, err := h.attempts.ListByUser(ctx, userID, limit, skip)
	if err != nil {
		h.logger.ErrorContext(ctx, "attempt log query failed", "user_id", userID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query attempts"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successEnvelope{
		Success: true,
		Data: logsPayload{
			Attempts: attempts,
			Total:    total,
			Limit:    limit,
			Skip:     skip,
		},
	})
}

type logsPayload struct {
	Attempts []audit.Attempt `json:"attempts"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Skip     int             `json:"skip"`
}

// HandleStats returns aggregate counters for a user; zeroed defaults when the
// user has no attempts.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "userID is required"))
		return
	}

	stats, err := h.attempts.StatsByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "attempt stats query failed", "user_id", userID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to aggregate attempts"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, successEnvelope{Success: true, Data: stats})
}
