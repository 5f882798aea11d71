package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"

	"verigate/internal/platform/config"
)

// aadhaarPattern is the structural shape of a valid Aadhaar number.
var aadhaarPattern = regexp.MustCompile(`^[0-9]{12}$`)

// IdentityDocumentVerifier validates an identity-document number: structural
// format first, then an external confirmation call (or a deterministic
// sandbox response). The full document number never propagates past this
// verifier; only the last four digits appear in results and audit records.
type IdentityDocumentVerifier struct {
	apiKey    string
	verifyURL string
	sandbox   bool
	client    *http.Client
	logger    *slog.Logger
}

// NewIdentityDocumentVerifier builds a verifier from config.
func NewIdentityDocumentVerifier(cfg config.VerifyConfig, logger *slog.Logger) *IdentityDocumentVerifier {
	return &IdentityDocumentVerifier{
		apiKey:    cfg.AadhaarAPIKey,
		verifyURL: cfg.AadhaarVerifyURL,
		sandbox:   cfg.AadhaarSandbox,
		client:    &http.Client{},
		logger:    logger,
	}
}

// providerResponse mirrors the e-KYC provider's entity envelope.
type providerResponse struct {
	Entity struct {
		Verified bool   `json:"verified"`
		Name     string `json:"name"`
	} `json:"entity"`
}

// Verify runs the structural check, then the external confirmation.
// A malformed number short-circuits without any external call.
func (v *IdentityDocumentVerifier) Verify(ctx context.Context, payload *DocumentPayload) FactorResult {
	if payload == nil || payload.Number == "" {
		return failedFactor("identity document not provided")
	}
	if !aadhaarPattern.MatchString(payload.Number) {
		return failedFactor("invalid Aadhaar format")
	}
	if !payload.Consent {
		return failedFactor("consent required for identity document verification")
	}

	lastFour := payload.Number[len(payload.Number)-4:]

	if v.sandbox {
		return v.sandboxResult(lastFour, payload.Name)
	}

	if v.apiKey == "" || v.verifyURL == "" {
		return failedFactor("identity document service not configured")
	}

	resp, err := v.call(ctx, payload)
	if err != nil {
		v.logger.ErrorContext(ctx, "identity document check failed",
			"last_four", lastFour,
			"error", err,
		)
		return failedFactor(err.Error())
	}

	if !resp.Entity.Verified {
		return FactorResult{
			Passed: false,
			Detail: FactorDetail{
				Error:    "identity document could not be verified",
				LastFour: lastFour,
			},
		}
	}

	name := resp.Entity.Name
	if name == "" {
		name = defaultHolderName(payload.Name)
	}

	return FactorResult{
		Passed: true,
		Detail: FactorDetail{LastFour: lastFour, Name: name},
	}
}

// sandboxResult synthesizes the deterministic success used in test and
// sandbox environments.
func (v *IdentityDocumentVerifier) sandboxResult(lastFour, name string) FactorResult {
	return FactorResult{
		Passed: true,
		Detail: FactorDetail{LastFour: lastFour, Name: defaultHolderName(name)},
	}
}

func defaultHolderName(name string) string {
	if name == "" {
		return "Verified User"
	}
	return name
}

func (v *IdentityDocumentVerifier) call(ctx context.Context, payload *DocumentPayload) (*providerResponse, error) {
	body, err := json.Marshal(map[string]any{
		"aadhaar_number": payload.Number,
		"consent":        payload.Consent,
		"name":           payload.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal verification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	httpResp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verification call: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("verification service returned status %d", httpResp.StatusCode)
	}

	var resp providerResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode verification response: %w", err)
	}
	return &resp, nil
}
