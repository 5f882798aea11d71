package verify

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/pkg/domain"
)

func TestBiometricVerifier_IdenticalVectors(t *testing.T) {
	v := NewBiometricVerifier(0.6)

	result := v.Verify(&BiometricPayload{
		Descriptors:          []float64{0.1, 0.2, 0.3, 0.4, 0.5},
		ReferenceDescriptors: []float64{0.1, 0.2, 0.3, 0.4, 0.5},
	})

	assert.True(t, result.Passed)
	require.NotNil(t, result.Score)
	assert.Equal(t, 1.0, *result.Score)
	assert.Greater(t, *result.Score, 0.9)
}

func TestBiometricVerifier_DistantVectors(t *testing.T) {
	v := NewBiometricVerifier(0.6)

	result := v.Verify(&BiometricPayload{
		Descriptors:          []float64{0.1, 0.2, 0.3, 0.4, 0.5},
		ReferenceDescriptors: []float64{0.9, 0.8, 0.7, 0.6, 0.5},
	})

	assert.False(t, result.Passed)
	require.NotNil(t, result.Score)
	assert.GreaterOrEqual(t, *result.Score, 0.0)
	assert.LessOrEqual(t, *result.Score, 1.0)
}

func TestBiometricVerifier_DistanceEqualToThresholdFails(t *testing.T) {
	// 0.5 is exactly representable, so the one-dimensional distance equals
	// the threshold with no rounding involved.
	v := NewBiometricVerifier(0.5)

	result := v.Verify(&BiometricPayload{
		Descriptors:          []float64{0.5},
		ReferenceDescriptors: []float64{0.0},
	})

	assert.False(t, result.Passed, "distance equal to threshold must fail (strict <)")
	require.NotNil(t, result.Score)
	assert.InDelta(t, 0.0, *result.Score, 1e-9)
}

func TestBiometricVerifier_ConfidenceClampsAtZero(t *testing.T) {
	v := NewBiometricVerifier(0.6)

	// Distance far beyond the threshold; raw confidence would be negative.
	result := v.Verify(&BiometricPayload{
		Descriptors:          []float64{10, 10, 10},
		ReferenceDescriptors: []float64{-10, -10, -10},
	})

	assert.False(t, result.Passed)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.0, *result.Score)
}

func TestBiometricVerifier_InvalidInput(t *testing.T) {
	v := NewBiometricVerifier(0.6)

	tests := []struct {
		name    string
		payload *BiometricPayload
	}{
		{"nil payload", nil},
		{"missing descriptors", &BiometricPayload{ReferenceDescriptors: []float64{0.1}}},
		{"missing reference", &BiometricPayload{Descriptors: []float64{0.1}}},
		{"length mismatch", &BiometricPayload{
			Descriptors:          []float64{0.1, 0.2},
			ReferenceDescriptors: []float64{0.1},
		}},
		{"NaN entry", &BiometricPayload{
			Descriptors:          []float64{math.NaN()},
			ReferenceDescriptors: []float64{0.1},
		}},
		{"Inf entry", &BiometricPayload{
			Descriptors:          []float64{0.1},
			ReferenceDescriptors: []float64{math.Inf(1)},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Verify(tt.payload)

			assert.False(t, result.Passed)
			require.NotNil(t, result.Score)
			assert.Equal(t, 0.0, *result.Score)
			assert.Equal(t, errInvalidDescriptors, result.Detail.Error)
		})
	}
}

func TestBiometricVerifier_MethodEchoedInDetail(t *testing.T) {
	v := NewBiometricVerifier(0.6)

	result := v.Verify(&BiometricPayload{
		Descriptors:          []float64{0.1},
		ReferenceDescriptors: []float64{0.1},
		Method:               domain.MethodSecondary,
	})

	assert.Equal(t, domain.MethodSecondary, result.Detail.Method)

	result = v.Verify(&BiometricPayload{
		Descriptors:          []float64{0.1},
		ReferenceDescriptors: []float64{0.1},
	})
	assert.Equal(t, domain.MethodPrimary, result.Detail.Method, "empty method defaults to primary")
}

// FuzzBiometricVerify checks the verifier's invariants over arbitrary
// three-dimensional vectors: confidence always lands in [0,1] and the
// pass decision always agrees with the strict distance comparison.
func FuzzBiometricVerify(f *testing.F) {
	f.Add(0.1, 0.2, 0.3, 0.1, 0.2, 0.3)
	f.Add(0.0, 0.0, 0.0, 1.0, 1.0, 1.0)
	f.Add(-5.0, 3.5, 0.0, 5.0, -3.5, 0.0)

	v := NewBiometricVerifier(0.6)

	f.Fuzz(func(t *testing.T, a1, a2, a3, b1, b2, b3 float64) {
		payload := &BiometricPayload{
			Descriptors:          []float64{a1, a2, a3},
			ReferenceDescriptors: []float64{b1, b2, b3},
		}
		result := v.Verify(payload)

		if result.Score == nil {
			t.Fatal("score must always be present")
		}
		if *result.Score < 0 || *result.Score > 1 {
			t.Errorf("confidence %v outside [0,1]", *result.Score)
		}

		if !validDescriptors(payload.Descriptors, payload.ReferenceDescriptors) {
			if result.Passed {
				t.Error("invalid descriptors must not pass")
			}
			return
		}

		distance := euclideanDistance(payload.Descriptors, payload.ReferenceDescriptors)
		if result.Passed != (distance < 0.6) {
			t.Errorf("pass decision %v disagrees with distance %v", result.Passed, distance)
		}
	})
}
