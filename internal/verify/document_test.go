package verify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"verigate/internal/platform/config"
)

func TestIdentityDocumentVerifier_ValidFormat(t *testing.T) {
	v := NewIdentityDocumentVerifier(config.VerifyConfig{AadhaarSandbox: true}, discardLogger())

	result := v.Verify(context.Background(), &DocumentPayload{
		Number:  "123456789012",
		Consent: true,
		Name:    "Asha Kumar",
	})

	assert.True(t, result.Passed)
	assert.Equal(t, "9012", result.Detail.LastFour)
	assert.Equal(t, "Asha Kumar", result.Detail.Name)
}

func TestIdentityDocumentVerifier_InvalidFormat(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	v := NewIdentityDocumentVerifier(config.VerifyConfig{
		AadhaarAPIKey:    "key",
		AadhaarVerifyURL: srv.URL,
	}, discardLogger())

	tests := []struct {
		name   string
		number string
	}{
		{"too short", "12345"},
		{"too long", "1234567890123"},
		{"non-numeric", "12345678901a"},
		{"with spaces", "1234 5678 9012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Verify(context.Background(), &DocumentPayload{Number: tt.number, Consent: true})

			assert.False(t, result.Passed)
			assert.Equal(t, "invalid Aadhaar format", result.Detail.Error)
		})
	}
	assert.False(t, called, "structural failure must never reach the external service")
}

func TestIdentityDocumentVerifier_MissingPayload(t *testing.T) {
	v := NewIdentityDocumentVerifier(config.VerifyConfig{AadhaarSandbox: true}, discardLogger())

	assert.False(t, v.Verify(context.Background(), nil).Passed)
	assert.False(t, v.Verify(context.Background(), &DocumentPayload{}).Passed)
}

func TestIdentityDocumentVerifier_ConsentRequired(t *testing.T) {
	v := NewIdentityDocumentVerifier(config.VerifyConfig{AadhaarSandbox: true}, discardLogger())

	result := v.Verify(context.Background(), &DocumentPayload{Number: "123456789012"})

	assert.False(t, result.Passed)
	assert.Contains(t, result.Detail.Error, "consent")
}

func TestIdentityDocumentVerifier_NotConfigured(t *testing.T) {
	v := NewIdentityDocumentVerifier(config.VerifyConfig{}, discardLogger())

	result := v.Verify(context.Background(), &DocumentPayload{Number: "123456789012", Consent: true})

	assert.False(t, result.Passed)
	assert.Contains(t, result.Detail.Error, "not configured")
}

func TestIdentityDocumentVerifier_SandboxDefaultsName(t *testing.T) {
	v := NewIdentityDocumentVerifier(config.VerifyConfig{AadhaarSandbox: true}, discardLogger())

	result := v.Verify(context.Background(), &DocumentPayload{Number: "123456789012", Consent: true})

	assert.True(t, result.Passed)
	assert.Equal(t, "Verified User", result.Detail.Name)
}

func TestIdentityDocumentVerifier_ExternalCall(t *testing.T) {
	t.Run("verified", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"entity": {"verified": true, "name": "Asha Kumar"}}`))
		}))
		t.Cleanup(srv.Close)

		v := NewIdentityDocumentVerifier(config.VerifyConfig{
			AadhaarAPIKey:    "key",
			AadhaarVerifyURL: srv.URL,
		}, discardLogger())

		result := v.Verify(context.Background(), &DocumentPayload{Number: "123456789012", Consent: true})

		assert.True(t, result.Passed)
		assert.Equal(t, "9012", result.Detail.LastFour)
		assert.Equal(t, "Asha Kumar", result.Detail.Name)
	})

	t.Run("not verified", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"entity": {"verified": false}}`))
		}))
		t.Cleanup(srv.Close)

		v := NewIdentityDocumentVerifier(config.VerifyConfig{
			AadhaarAPIKey:    "key",
			AadhaarVerifyURL: srv.URL,
		}, discardLogger())

		result := v.Verify(context.Background(), &DocumentPayload{Number: "123456789012", Consent: true})

		assert.False(t, result.Passed)
		assert.Equal(t, "9012", result.Detail.LastFour)
	})

	t.Run("server error fails closed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		v := NewIdentityDocumentVerifier(config.VerifyConfig{
			AadhaarAPIKey:    "key",
			AadhaarVerifyURL: srv.URL,
		}, discardLogger())

		result := v.Verify(context.Background(), &DocumentPayload{Number: "123456789012", Consent: true})

		assert.False(t, result.Passed)
		assert.Contains(t, result.Detail.Error, "status 500")
	})
}

func TestIdentityDocumentVerifier_FullNumberNeverEchoed(t *testing.T) {
	v := NewIdentityDocumentVerifier(config.VerifyConfig{AadhaarSandbox: true}, discardLogger())

	result := v.Verify(context.Background(), &DocumentPayload{Number: "123456789012", Consent: true})

	assert.NotContains(t, result.Detail.LastFour, "12345678")
	assert.Len(t, result.Detail.LastFour, 4)
}
