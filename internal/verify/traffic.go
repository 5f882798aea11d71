package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"verigate/internal/platform/config"
)

// TrafficScoreVerifier scores a client-supplied challenge token against an
// external bot-detection service (reCAPTCHA siteverify wire format).
//
// Every failure mode resolves to a failed FactorResult: missing credential,
// network error, timeout, non-2xx response, and provider rejection all fail
// closed. No error ever crosses this boundary.
type TrafficScoreVerifier struct {
	secret    string
	verifyURL string
	minScore  float64
	client    *http.Client
	logger    *slog.Logger
}

// NewTrafficScoreVerifier builds a verifier from config. The shared HTTP
// client carries no timeout of its own; callers bound each call via context.
func NewTrafficScoreVerifier(cfg config.VerifyConfig, logger *slog.Logger) *TrafficScoreVerifier {
	minScore := cfg.RecaptchaMinScore
	if minScore <= 0 {
		minScore = 0.5
	}
	return &TrafficScoreVerifier{
		secret:    cfg.RecaptchaSecret,
		verifyURL: cfg.RecaptchaVerifyURL,
		minScore:  minScore,
		client:    &http.Client{},
		logger:    logger,
	}
}

// siteverifyResponse is the provider's wire format. Score is absent for
// binary challenge/response schemes (v2), present for score-based ones (v3).
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify issues one siteverify call and gates the provider's verdict against
// the configured minimum score.
func (v *TrafficScoreVerifier) Verify(ctx context.Context, token string) FactorResult {
	if v.secret == "" {
		return failedFactor("traffic score service not configured")
	}
	if token == "" {
		return failedFactor("traffic score token not provided")
	}

	resp, err := v.call(ctx, token)
	if err != nil {
		v.logger.ErrorContext(ctx, "traffic score check failed", "error", err)
		return failedFactor(err.Error())
	}

	// A missing score is a binary challenge scheme; treat as full confidence.
	score := 1.0
	if resp.Score != nil {
		score = *resp.Score
	}

	if !resp.Success {
		detail := "traffic score verification rejected"
		if len(resp.ErrorCodes) > 0 {
			detail = fmt.Sprintf("%s: %s", detail, strings.Join(resp.ErrorCodes, ", "))
		}
		return failedFactor(detail)
	}

	result := FactorResult{
		Passed: score >= v.minScore,
		Score:  scorePtr(score),
	}
	if !result.Passed {
		result.Detail.Error = fmt.Sprintf("traffic score %.2f below minimum %.2f", score, v.minScore)
	}
	return result
}

func (v *TrafficScoreVerifier) call(ctx context.Context, token string) (*siteverifyResponse, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("siteverify call: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("siteverify returned status %d", httpResp.StatusCode)
	}

	var resp siteverifyResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode siteverify response: %w", err)
	}
	return &resp, nil
}
