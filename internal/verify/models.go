// Package verify implements the multi-factor verification core: the three
// factor verifiers, the orchestrator that runs them and aggregates the
// decision, and the failure-reason composer.
package verify

import (
	"time"

	"verigate/pkg/domain"
)

// Request is one verification attempt as seen by the orchestrator. Any factor
// payload may be absent; absence is treated as a failure of that factor, not
// as a skip.
type Request struct {
	UserID string
	Email  string

	TrafficToken string
	Biometric    *BiometricPayload
	Document     *DocumentPayload
}

// BiometricPayload carries a submitted descriptor vector and the reference
// vector it is compared against.
type BiometricPayload struct {
	Descriptors          []float64
	ReferenceDescriptors []float64
	Method               domain.BiometricMethod
}

// DocumentPayload carries a submitted identity-document number.
type DocumentPayload struct {
	Number  string
	Consent bool
	Name    string
}

// FactorDetail is the closed per-factor detail record. Only the fields
// relevant to a given factor are populated.
type FactorDetail struct {
	Error    string                 `json:"error,omitempty"`
	Method   domain.BiometricMethod `json:"method,omitempty"`
	LastFour string                 `json:"lastFour,omitempty"`
	Name     string                 `json:"name,omitempty"`
}

// FactorResult is the outcome of one verifier. Score is nil when the factor
// has no meaningful measurement (e.g. a structural document check); when set
// it is clamped to [0,1].
type FactorResult struct {
	Passed bool         `json:"passed"`
	Score  *float64     `json:"score,omitempty"`
	Detail FactorDetail `json:"detail"`
}

// ScoreValue returns the score or 0 when absent.
func (r FactorResult) ScoreValue() float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// failedFactor builds the fail-closed result every verifier falls back to.
func failedFactor(errDetail string) FactorResult {
	return FactorResult{
		Passed: false,
		Score:  scorePtr(0),
		Detail: FactorDetail{Error: errDetail},
	}
}

// scorePtr clamps v to [0,1] and returns a pointer to it.
func scorePtr(v float64) *float64 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return &v
}

// Outcome aggregates the three factor results for one request.
// Invariant: OverallSuccess is the conjunction of the three Passed flags, and
// FailureReason is non-empty exactly when OverallSuccess is false.
type Outcome struct {
	Traffic   FactorResult `json:"recaptcha"`
	Biometric FactorResult `json:"faceVerification"`
	Document  FactorResult `json:"aadhaarVerification"`

	OverallSuccess bool      `json:"overallSuccess"`
	FailureReason  string    `json:"failureReason,omitempty"`
	EvaluatedAt    time.Time `json:"evaluatedAt"`
}

// FallbackRequest asks for the manual out-of-band verification path after
// automatic verification has failed.
type FallbackRequest struct {
	UserID          string
	Email           string
	Reason          string
	AlternateMethod string
}

// FallbackResult carries the instructions returned to the client.
type FallbackResult struct {
	AlternateMethod string `json:"alternateMethod"`
	Instructions    string `json:"instructions"`
}
