package verify

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"verigate/internal/audit"
	"verigate/internal/verify/metrics"
	"verigate/pkg/domain"
	"verigate/pkg/platform/middleware/metadata"
)

var tracer = otel.Tracer("verigate/internal/verify")

// Verifier interfaces are declared here, on the consumer side, so the
// orchestrator can be tested with controlled factor outcomes.
type trafficChecker interface {
	Verify(ctx context.Context, token string) FactorResult
}

type biometricChecker interface {
	Verify(payload *BiometricPayload) FactorResult
}

type documentChecker interface {
	Verify(ctx context.Context, payload *DocumentPayload) FactorResult
}

// AttemptRecorder receives the durable record for every attempt. The call
// must not block the request path.
type AttemptRecorder interface {
	Record(attempt audit.Attempt)
}

// Service orchestrates one verification request: it fans the three verifiers
// out concurrently, aggregates under the all-factors-must-pass policy,
// composes the failure explanation, and dispatches the audit record.
type Service struct {
	traffic   trafficChecker
	biometric biometricChecker
	document  documentChecker
	recorder  AttemptRecorder

	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics attaches verification metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithExternalTimeout bounds the verifier fan-out.
func WithExternalTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService wires the three verifiers and the audit recorder.
func NewService(traffic trafficChecker, biometric biometricChecker, document documentChecker, recorder AttemptRecorder, opts ...Option) *Service {
	s := &Service{
		traffic:   traffic,
		biometric: biometric,
		document:  document,
		recorder:  recorder,
		timeout:   5 * time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate runs all three factors against the request and returns the
// aggregated outcome. Factor failures are encoded in the outcome, never as
// errors; the error return covers only unexpected orchestration failures.
//
// The audit record is dispatched before returning and is not awaited.
func (s *Service) Evaluate(ctx context.Context, req Request) (*Outcome, error) {
	ctx, span := tracer.Start(ctx, "verify.Evaluate")
	defer span.End()

	start := time.Now()
	outcome, err := s.gatherFactors(ctx, req)
	if err != nil {
		return nil, err
	}

	outcome.OverallSuccess = outcome.Traffic.Passed && outcome.Biometric.Passed && outcome.Document.Passed
	outcome.EvaluatedAt = time.Now().UTC()
	if !outcome.OverallSuccess {
		outcome.FailureReason = ComposeFailureReason(outcome.Traffic, outcome.Biometric, outcome.Document)
	}

	span.SetAttributes(
		attribute.Bool("verify.success", outcome.OverallSuccess),
		attribute.Bool("verify.traffic_passed", outcome.Traffic.Passed),
		attribute.Bool("verify.biometric_passed", outcome.Biometric.Passed),
		attribute.Bool("verify.document_passed", outcome.Document.Passed),
	)

	decisionLabel := "rejected"
	if outcome.OverallSuccess {
		decisionLabel = "success"
	}
	s.metrics.IncrementDecision(decisionLabel)
	s.metrics.ObserveEvaluateLatency(time.Since(start))

	s.logger.InfoContext(ctx, "verification evaluated",
		"user_id", req.UserID,
		"success", outcome.OverallSuccess,
		"traffic_passed", outcome.Traffic.Passed,
		"biometric_passed", outcome.Biometric.Passed,
		"document_passed", outcome.Document.Passed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	s.recorder.Record(s.buildAttempt(ctx, req, outcome))

	return outcome, nil
}

// gatherFactors dispatches the three verifiers concurrently with shared
// cancellation and a bounded deadline. A factor whose payload is absent gets
// a default-failed result without invoking its verifier; the policy treats
// absence identically to an active failure.
func (s *Service) gatherFactors(ctx context.Context, req Request) (*Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	outcome := &Outcome{}

	g.Go(func() error {
		start := time.Now()
		outcome.Traffic = s.traffic.Verify(ctx, req.TrafficToken)
		s.metrics.ObserveFactorLatency("traffic", time.Since(start))
		s.metrics.IncrementFactorResult("traffic", outcome.Traffic.Passed)
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		outcome.Biometric = s.biometric.Verify(req.Biometric)
		s.metrics.ObserveFactorLatency("biometric", time.Since(start))
		s.metrics.IncrementFactorResult("biometric", outcome.Biometric.Passed)
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		outcome.Document = s.document.Verify(ctx, req.Document)
		s.metrics.ObserveFactorLatency("document", time.Since(start))
		s.metrics.IncrementFactorResult("document", outcome.Document.Passed)
		return nil
	})

	// Verifiers fail closed internally and never return errors, so Wait only
	// reports context-level cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcome, nil
}

// buildAttempt maps an outcome to the durable record, pulling client
// metadata from the request context.
func (s *Service) buildAttempt(ctx context.Context, req Request, outcome *Outcome) audit.Attempt {
	method := outcome.Biometric.Detail.Method
	if method == "" {
		method = domain.MethodPrimary
	}

	return audit.Attempt{
		UserID:              req.UserID,
		Email:               req.Email,
		TrafficPassed:       outcome.Traffic.Passed,
		TrafficScore:        outcome.Traffic.ScoreValue(),
		BiometricPassed:     outcome.Biometric.Passed,
		BiometricConfidence: outcome.Biometric.ScoreValue(),
		BiometricMethod:     method,
		DocumentPassed:      outcome.Document.Passed,
		DocumentLastFour:    outcome.Document.Detail.LastFour,
		OverallSuccess:      outcome.OverallSuccess,
		FailureReason:       outcome.FailureReason,
		ClientIP:            metadata.ClientIP(ctx),
		UserAgent:           metadata.UserAgent(ctx),
		Timestamp:           outcome.EvaluatedAt,
	}
}

// Fallback records the manual out-of-band verification path. It bypasses the
// AND-aggregation entirely: the attempt is recorded with every automatic
// factor marked failed and the biometric method set to manual-fallback.
func (s *Service) Fallback(ctx context.Context, req FallbackRequest) (*FallbackResult, error) {
	ctx, span := tracer.Start(ctx, "verify.Fallback")
	defer span.End()

	method := req.AlternateMethod
	if method == "" {
		method = "otp"
	}

	reason := "manual fallback requested"
	if req.Reason != "" {
		reason = reason + ": " + req.Reason
	}

	s.recorder.Record(audit.Attempt{
		UserID:          req.UserID,
		Email:           req.Email,
		BiometricMethod: domain.MethodManualFallback,
		OverallSuccess:  false,
		FailureReason:   reason,
		ClientIP:        metadata.ClientIP(ctx),
		UserAgent:       metadata.UserAgent(ctx),
		Timestamp:       time.Now().UTC(),
	})

	s.metrics.IncrementDecision("fallback")
	s.logger.InfoContext(ctx, "fallback verification recorded",
		"user_id", req.UserID,
		"alternate_method", method,
	)

	return &FallbackResult{
		AlternateMethod: method,
		Instructions:    fallbackInstructions(method),
	}, nil
}

func fallbackInstructions(method string) string {
	switch method {
	case "otp":
		return "A one-time passcode will be sent to your registered contact. Enter it to complete verification."
	case "security-questions":
		return "Answer your pre-registered security questions to complete verification."
	default:
		return "A member of the verification team will contact you to complete verification manually."
	}
}
