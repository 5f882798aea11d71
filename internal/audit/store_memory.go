package audit

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store in memory. Used in tests and when no database
// is configured; not durable across restarts.
type MemoryStore struct {
	mu       sync.RWMutex
	attempts map[string][]Attempt
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{attempts: make(map[string][]Attempt)}
}

// Append stores one attempt.
func (s *MemoryStore) Append(ctx context.Context, attempt Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[attempt.UserID] = append(s.attempts[attempt.UserID], attempt)
	return nil
}

// ListByUser returns a page of attempts newest first plus the total count.
func (s *MemoryStore) ListByUser(ctx context.Context, userID string, limit, skip int) ([]Attempt, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.attempts[userID]
	total := len(all)

	sorted := make([]Attempt, total)
	copy(sorted, all)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= total {
		return []Attempt{}, total, nil
	}
	end := total
	if limit > 0 && skip+limit < total {
		end = skip + limit
	}
	return sorted[skip:end], total, nil
}

// StatsByUser aggregates the user's attempts; zero Stats when none exist.
func (s *MemoryStore) StatsByUser(ctx context.Context, userID string) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	all := s.attempts[userID]
	if len(all) == 0 {
		return stats, nil
	}

	var faceSum, trafficSum float64
	for _, a := range all {
		stats.TotalAttempts++
		if a.OverallSuccess {
			stats.SuccessfulAttempts++
		} else {
			stats.FailedAttempts++
		}
		faceSum += a.BiometricConfidence
		trafficSum += a.TrafficScore
	}
	stats.AvgFaceConfidence = faceSum / float64(stats.TotalAttempts)
	stats.AvgRecaptchaScore = trafficSum / float64(stats.TotalAttempts)
	return stats, nil
}
