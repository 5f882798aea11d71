// Package audit owns the durable verification-attempt record: the append-only
// schema, the stores that persist it, and the background recorder that keeps
// writes off the request path.
package audit

import (
	"time"

	"github.com/google/uuid"

	"verigate/pkg/domain"
)

// Attempt is one verification attempt, pass or fail. Records are created
// once, never mutated, never deleted by this service.
type Attempt struct {
	ID     uuid.UUID `json:"id"`
	UserID string    `json:"userId"`
	Email  string    `json:"email"`

	TrafficPassed bool    `json:"trafficPassed"`
	TrafficScore  float64 `json:"trafficScore"`

	BiometricPassed     bool                   `json:"biometricPassed"`
	BiometricConfidence float64                `json:"biometricConfidence"`
	BiometricMethod     domain.BiometricMethod `json:"biometricMethod"`

	DocumentPassed   bool   `json:"documentPassed"`
	DocumentLastFour string `json:"documentLastFour,omitempty"`

	OverallSuccess bool   `json:"overallSuccess"`
	FailureReason  string `json:"failureReason,omitempty"`

	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats aggregates a user's attempt history. A user with no attempts gets
// the zero value, not an error.
type Stats struct {
	TotalAttempts      int     `json:"totalAttempts"`
	SuccessfulAttempts int     `json:"successfulAttempts"`
	FailedAttempts     int     `json:"failedAttempts"`
	AvgFaceConfidence  float64 `json:"avgFaceConfidence"`
	AvgRecaptchaScore  float64 `json:"avgRecaptchaScore"`
}
