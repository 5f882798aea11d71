package verify

import (
	"math"

	"verigate/pkg/domain"
)

const errInvalidDescriptors = "missing or invalid face descriptors"

// BiometricVerifier compares a submitted descriptor vector against a
// reference vector. It performs no I/O; the decision is a pure function of
// the two vectors and the configured threshold.
type BiometricVerifier struct {
	threshold float64
}

// NewBiometricVerifier builds a verifier with the given match threshold.
// A non-positive threshold falls back to the 0.6 default.
func NewBiometricVerifier(threshold float64) *BiometricVerifier {
	if threshold <= 0 {
		threshold = 0.6
	}
	return &BiometricVerifier{threshold: threshold}
}

// Verify computes the Euclidean distance between the two vectors and derives
// a confidence in [0,1]. The match passes only when the distance is strictly
// below the threshold; a distance equal to the threshold fails.
func (v *BiometricVerifier) Verify(payload *BiometricPayload) FactorResult {
	if payload == nil {
		return failedFactor(errInvalidDescriptors)
	}
	if !validDescriptors(payload.Descriptors, payload.ReferenceDescriptors) {
		return failedFactor(errInvalidDescriptors)
	}

	distance := euclideanDistance(payload.Descriptors, payload.ReferenceDescriptors)
	confidence := 1 - distance/v.threshold

	method := payload.Method
	if method == "" {
		method = domain.MethodPrimary
	}

	return FactorResult{
		Passed: distance < v.threshold,
		Score:  scorePtr(confidence),
		Detail: FactorDetail{Method: method},
	}
}

// validDescriptors rejects missing vectors, length mismatches, and
// non-finite entries before any distance math runs.
func validDescriptors(a, b []float64) bool {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return false
	}
	for i := range a {
		if !isFinite(a[i]) || !isFinite(b[i]) {
			return false
		}
	}
	return true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
