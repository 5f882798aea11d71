package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"verigate/pkg/domain"
)

// PostgresStore implements Store on PostgreSQL. The verification_attempts
// table is append-only and indexed on (user_id, timestamp DESC) and
// (email, timestamp DESC); see migrations/001_verification_attempts.sql.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store backed by the given database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append inserts one attempt record.
func (s *PostgresStore) Append(ctx context.Context, attempt Attempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}

	query := `
		INSERT INTO verification_attempts (
			id, user_id, email,
			traffic_passed, traffic_score,
			biometric_passed, biometric_confidence, biometric_method,
			document_passed, document_last_four,
			overall_success, failure_reason,
			client_ip, user_agent, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.UserID,
		attempt.Email,
		attempt.TrafficPassed,
		attempt.TrafficScore,
		attempt.BiometricPassed,
		attempt.BiometricConfidence,
		string(attempt.BiometricMethod),
		attempt.DocumentPassed,
		attempt.DocumentLastFour,
		attempt.OverallSuccess,
		attempt.FailureReason,
		attempt.ClientIP,
		attempt.UserAgent,
		attempt.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert verification attempt: %w", err)
	}
	return nil
}

// ListByUser returns a page of attempts newest first plus the total count.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string, limit, skip int) ([]Attempt, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM verification_attempts WHERE user_id = $1`
	if err := s.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count verification attempts: %w", err)
	}

	query := `
		SELECT id, user_id, email,
			   traffic_passed, traffic_score,
			   biometric_passed, biometric_confidence, biometric_method,
			   document_passed, document_last_four,
			   overall_success, failure_reason,
			   client_ip, user_agent, timestamp
		FROM verification_attempts
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("query verification attempts: %w", err)
	}
	defer rows.Close()

	attempts, err := scanAttempts(rows)
	if err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// StatsByUser aggregates counts and averages in a single query.
// COALESCE keeps the zero-attempt case at zeroed defaults, not NULL.
func (s *PostgresStore) StatsByUser(ctx context.Context, userID string) (Stats, error) {
	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE overall_success),
			   COUNT(*) FILTER (WHERE NOT overall_success),
			   COALESCE(AVG(biometric_confidence), 0),
			   COALESCE(AVG(traffic_score), 0)
		FROM verification_attempts
		WHERE user_id = $1
	`
	var stats Stats
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalAttempts,
		&stats.SuccessfulAttempts,
		&stats.FailedAttempts,
		&stats.AvgFaceConfidence,
		&stats.AvgRecaptchaScore,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate verification attempts: %w", err)
	}
	return stats, nil
}

func scanAttempts(rows *sql.Rows) ([]Attempt, error) {
	attempts := []Attempt{}

	for rows.Next() {
		var (
			a      Attempt
			method string
		)
		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Email,
			&a.TrafficPassed,
			&a.TrafficScore,
			&a.BiometricPassed,
			&a.BiometricConfidence,
			&method,
			&a.DocumentPassed,
			&a.DocumentLastFour,
			&a.OverallSuccess,
			&a.FailureReason,
			&a.ClientIP,
			&a.UserAgent,
			&a.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan verification attempt: %w", err)
		}
		a.BiometricMethod = domain.BiometricMethod(method)
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification attempts: %w", err)
	}
	return attempts, nil
}
