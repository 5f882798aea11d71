package verify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func passed() FactorResult {
	return FactorResult{Passed: true, Score: scorePtr(1)}
}

func TestComposeFailureReason_AllPassed(t *testing.T) {
	assert.Empty(t, ComposeFailureReason(passed(), passed(), passed()))
}

func TestComposeFailureReason_SingleFactor(t *testing.T) {
	t.Run("traffic only", func(t *testing.T) {
		reason := ComposeFailureReason(failedFactor("not configured"), passed(), passed())

		assert.Contains(t, reason, "traffic score check failed")
		assert.NotContains(t, reason, "face verification")
		assert.NotContains(t, reason, "identity document")
	})

	t.Run("biometric only mentions confidence as percentage", func(t *testing.T) {
		biometric := FactorResult{Passed: false, Score: scorePtr(0.42)}
		reason := ComposeFailureReason(passed(), biometric, passed())

		assert.Contains(t, reason, "face verification failed")
		assert.Contains(t, reason, "42%")
		assert.NotContains(t, reason, "traffic score")
	})

	t.Run("document only", func(t *testing.T) {
		document := FactorResult{Passed: false, Detail: FactorDetail{Error: "invalid Aadhaar format"}}
		reason := ComposeFailureReason(passed(), passed(), document)

		assert.Contains(t, reason, "identity document verification failed")
		assert.Contains(t, reason, "invalid Aadhaar format")
	})
}

func TestComposeFailureReason_FixedOrder(t *testing.T) {
	traffic := FactorResult{Passed: false, Score: scorePtr(0.1)}
	biometric := FactorResult{Passed: false, Score: scorePtr(0.3)}
	document := FactorResult{Passed: false, Detail: FactorDetail{Error: "not provided"}}

	reason := ComposeFailureReason(traffic, biometric, document)

	trafficIdx := strings.Index(reason, "traffic score")
	faceIdx := strings.Index(reason, "face verification")
	docIdx := strings.Index(reason, "identity document")

	assert.GreaterOrEqual(t, trafficIdx, 0)
	assert.Greater(t, faceIdx, trafficIdx)
	assert.Greater(t, docIdx, faceIdx)
}

func TestComposeFailureReason_IncludesScores(t *testing.T) {
	traffic := FactorResult{Passed: false, Score: scorePtr(0.25)}
	reason := ComposeFailureReason(traffic, passed(), passed())

	assert.Contains(t, reason, "0.25")
}

func TestComposeFailureReason_NoScoreNoParenthetical(t *testing.T) {
	document := FactorResult{Passed: false}
	reason := ComposeFailureReason(passed(), passed(), document)

	assert.Equal(t, "identity document verification failed", reason)
}
