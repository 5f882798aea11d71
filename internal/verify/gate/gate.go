// Package gate is the request-handling boundary for verification. It decodes
// and validates the inbound request, applies rate limiting, runs the
// orchestrator, and either forwards the request marked as verified or
// short-circuits with the structured rejection payload.
package gate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"verigate/internal/ratelimit"
	"verigate/internal/verify"
	"verigate/pkg/platform/httputil"
)

// State tracks one request's progress through the gate.
type State int

const (
	StatePending State = iota
	StateEvaluating
	StateDecidedSuccess
	StateDecidedRejected
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateEvaluating:
		return "evaluating"
	case StateDecidedSuccess:
		return "decided_success"
	case StateDecidedRejected:
		return "decided_rejected"
	default:
		return "unknown"
	}
}

// Marker is attached to the request context once the gate decides success.
// Downstream handlers read it instead of re-running verification.
type Marker struct {
	UserID         string
	RecaptchaScore float64
	FaceConfidence float64
	Timestamp      time.Time
}

type markerKey struct{}

// MarkerFromContext returns the verification marker set by the gate.
func MarkerFromContext(ctx context.Context) (Marker, bool) {
	m, ok := ctx.Value(markerKey{}).(Marker)
	return m, ok
}

// WithMarker injects a marker; exported for downstream handler tests.
func WithMarker(ctx context.Context, m Marker) context.Context {
	return context.WithValue(ctx, markerKey{}, m)
}

// Evaluator runs the verification orchestration.
type Evaluator interface {
	Evaluate(ctx context.Context, req verify.Request) (*verify.Outcome, error)
}

// Gate guards downstream handlers behind multi-factor verification.
type Gate struct {
	evaluator  Evaluator
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
	production bool
}

// New builds a gate. The limiter may be nil to disable rate limiting.
func New(evaluator Evaluator, limiter *ratelimit.Limiter, logger *slog.Logger, production bool) *Gate {
	return &Gate{
		evaluator:  evaluator,
		limiter:    limiter,
		logger:     logger,
		production: production,
	}
}

// Protect is the middleware implementing the gate state machine:
// Pending -> Evaluating -> Decided(Success|Rejected). Only Decided(Success)
// reaches the next handler.
func (g *Gate) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		state := StatePending

		wireReq, ok := httputil.DecodeJSON[VerifyRequest](w, r)
		if !ok {
			return
		}
		domainReq, err := wireReq.ToDomain()
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, rejectionEnvelope{
				Success: false,
				Message: err.Error(),
			})
			return
		}

		if !g.limiter.Allow(ctx, "verify:"+domainReq.UserID) {
			g.logger.WarnContext(ctx, "verification rate limit exceeded", "user_id", domainReq.UserID)
			httputil.WriteJSON(w, http.StatusTooManyRequests, rejectionEnvelope{
				Success: false,
				Message: "Too many verification attempts, try again later",
			})
			return
		}

		state = StateEvaluating
		outcome, err := g.evaluator.Evaluate(ctx, domainReq)
		if err != nil {
			g.writeInternalError(ctx, w, domainReq.UserID, err)
			return
		}

		if !outcome.OverallSuccess {
			state = StateDecidedRejected
			g.logger.InfoContext(ctx, "verification rejected",
				"user_id", domainReq.UserID,
				"state", state.String(),
				"reason", outcome.FailureReason,
			)
			httputil.WriteJSON(w, http.StatusForbidden, rejectionEnvelope{
				Success: false,
				Message: "Authentication failed",
				Details: &rejectionDetails{
					Recaptcha:           outcome.Traffic,
					FaceVerification:    outcome.Biometric,
					AadhaarVerification: outcome.Document,
				},
				Reason: outcome.FailureReason,
			})
			return
		}

		state = StateDecidedSuccess
		g.logger.DebugContext(ctx, "verification passed",
			"user_id", domainReq.UserID,
			"state", state.String(),
		)

		ctx = WithMarker(ctx, Marker{
			UserID:         domainReq.UserID,
			RecaptchaScore: outcome.Traffic.ScoreValue(),
			FaceConfidence: outcome.Biometric.ScoreValue(),
			Timestamp:      outcome.EvaluatedAt,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeInternalError hides orchestrator failure detail unless the process
// runs in a non-production configuration.
func (g *Gate) writeInternalError(ctx context.Context, w http.ResponseWriter, userID string, err error) {
	g.logger.ErrorContext(ctx, "verification orchestration failed",
		"user_id", userID,
		"error", err,
	)

	env := rejectionEnvelope{
		Success: false,
		Message: "Internal server error",
	}
	if !g.production {
		env.Error = err.Error()
	}
	httputil.WriteJSON(w, http.StatusInternalServerError, env)
}

// rejectionEnvelope is the non-success response shape for gate-guarded
// endpoints.
type rejectionEnvelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Details *rejectionDetails `json:"details,omitempty"`
	Reason  string            `json:"reason,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type rejectionDetails struct {
	Recaptcha           verify.FactorResult `json:"recaptcha"`
	FaceVerification    verify.FactorResult `json:"faceVerification"`
	AadhaarVerification verify.FactorResult `json:"aadhaarVerification"`
}
