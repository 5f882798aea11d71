package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/testutil"
)

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSON(rr, http.StatusCreated, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"hello":"world"}`, rr.Body.String())
}

func TestWriteError(t *testing.T) {
	t.Run("domain error carries code and description", func(t *testing.T) {
		rr := httptest.NewRecorder()

		WriteError(rr, dErrors.New(dErrors.CodeInvalidInput, "userId is required"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"invalid_input","error_description":"userId is required"}`, rr.Body.String())
	})

	t.Run("rate limited maps to 429", func(t *testing.T) {
		rr := httptest.NewRecorder()

		WriteError(rr, dErrors.New(dErrors.CodeRateLimited, "too many attempts"))

		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	})

	t.Run("internal error omits description", func(t *testing.T) {
		rr := httptest.NewRecorder()

		WriteError(rr, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "query failed"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"internal_error"}`, rr.Body.String())
		assert.NotContains(t, rr.Body.String(), "connection refused")
	})

	t.Run("unclassified error treated as internal", func(t *testing.T) {
		rr := httptest.NewRecorder()

		WriteError(rr, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "boom")
	})
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/", `{"name":"x"}`)

		v, ok := DecodeJSON[payload](rr, req)

		require.True(t, ok)
		assert.Equal(t, "x", v.Name)
	})

	t.Run("malformed body writes invalid_input", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/", `{"name":`)

		_, ok := DecodeJSON[payload](rr, req)

		require.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid_input")
	})
}
