package verify

import (
	"fmt"
	"strings"
)

// ComposeFailureReason builds the human-readable explanation for a failed
// verification. One clause per failing factor, in fixed order: traffic score
// first, biometric second, identity document third. Each clause includes the
// measured score when one exists.
//
// Pure function; returns an empty string when nothing failed.
func ComposeFailureReason(traffic, biometric, document FactorResult) string {
	var clauses []string

	if !traffic.Passed {
		clause := "traffic score check failed"
		if traffic.Score != nil {
			clause = fmt.Sprintf("%s (score %.2f)", clause, *traffic.Score)
		}
		clauses = append(clauses, annotate(clause, traffic.Detail.Error))
	}

	if !biometric.Passed {
		clause := "face verification failed"
		if biometric.Score != nil {
			clause = fmt.Sprintf("%s (confidence %.0f%%)", clause, *biometric.Score*100)
		}
		clauses = append(clauses, annotate(clause, biometric.Detail.Error))
	}

	if !document.Passed {
		clauses = append(clauses, annotate("identity document verification failed", document.Detail.Error))
	}

	return strings.Join(clauses, "; ")
}

// annotate appends the factor's error detail unless it would be redundant.
func annotate(clause, detail string) string {
	if detail == "" {
		return clause
	}
	return fmt.Sprintf("%s: %s", clause, detail)
}
