package verify

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/platform/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTrafficVerifier(t *testing.T, handler http.HandlerFunc, minScore float64) (*TrafficScoreVerifier, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	v := NewTrafficScoreVerifier(config.VerifyConfig{
		RecaptchaSecret:    "test-secret",
		RecaptchaVerifyURL: srv.URL,
		RecaptchaMinScore:  minScore,
	}, discardLogger())
	return v, srv
}

func TestTrafficScoreVerifier_NotConfigured(t *testing.T) {
	v := NewTrafficScoreVerifier(config.VerifyConfig{}, discardLogger())

	result := v.Verify(context.Background(), "some-token")

	assert.False(t, result.Passed)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.0, *result.Score)
	assert.Contains(t, result.Detail.Error, "not configured")
}

func TestTrafficScoreVerifier_ScoreAboveMinimumPasses(t *testing.T) {
	v, _ := newTrafficVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.Form.Get("secret"))
		assert.Equal(t, "token-123", r.Form.Get("response"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "score": 0.9}`))
	}, 0.5)

	result := v.Verify(context.Background(), "token-123")

	assert.True(t, result.Passed)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.9, *result.Score)
}

func TestTrafficScoreVerifier_ScoreBelowMinimumFails(t *testing.T) {
	v, _ := newTrafficVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true, "score": 0.3}`))
	}, 0.5)

	result := v.Verify(context.Background(), "token-123")

	assert.False(t, result.Passed, "provider success with a low score must still fail")
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.3, *result.Score)
	assert.Contains(t, result.Detail.Error, "below minimum")
}

func TestTrafficScoreVerifier_MissingScoreTreatedAsFull(t *testing.T) {
	// Binary challenge/response providers return no score at all.
	v, _ := newTrafficVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true}`))
	}, 0.5)

	result := v.Verify(context.Background(), "token-123")

	assert.True(t, result.Passed)
	require.NotNil(t, result.Score)
	assert.Equal(t, 1.0, *result.Score)
}

func TestTrafficScoreVerifier_ProviderRejection(t *testing.T) {
	v, _ := newTrafficVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}, 0.5)

	result := v.Verify(context.Background(), "bad-token")

	assert.False(t, result.Passed)
	assert.Contains(t, result.Detail.Error, "invalid-input-response")
}

func TestTrafficScoreVerifier_EmptyToken(t *testing.T) {
	v, _ := newTrafficVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no external call expected for an empty token")
	}, 0.5)

	result := v.Verify(context.Background(), "")

	assert.False(t, result.Passed)
	assert.Contains(t, result.Detail.Error, "not provided")
}

func TestTrafficScoreVerifier_ServerError(t *testing.T) {
	v, _ := newTrafficVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, 0.5)

	result := v.Verify(context.Background(), "token-123")

	assert.False(t, result.Passed)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.0, *result.Score)
	assert.Contains(t, result.Detail.Error, "status 502")
}

func TestTrafficScoreVerifier_Timeout(t *testing.T) {
	v, _ := newTrafficVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 0.5)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result := v.Verify(ctx, "token-123")

	assert.False(t, result.Passed, "timeout must fail closed")
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.0, *result.Score)
	assert.NotEmpty(t, result.Detail.Error)
}
