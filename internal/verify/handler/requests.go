package handler

import (
	"net/http"
	"strconv"

	"github.com/asaskevich/govalidator"

	"verigate/internal/verify"
	dErrors "verigate/pkg/domain-errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// fallbackRequest is the wire shape of POST /fallback-verification.
type fallbackRequest struct {
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	Reason          string `json:"reason"`
	AlternateMethod string `json:"alternateMethod"`
}

func (r fallbackRequest) toDomain() (verify.FallbackRequest, error) {
	if !govalidator.StringLength(r.UserID, "1", "100") {
		return verify.FallbackRequest{}, dErrors.New(dErrors.CodeInvalidInput, "userId is required")
	}
	if !govalidator.IsEmail(r.Email) {
		return verify.FallbackRequest{}, dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	if len(r.Reason) > 500 {
		return verify.FallbackRequest{}, dErrors.New(dErrors.CodeInvalidInput, "reason too long")
	}

	return verify.FallbackRequest{
		UserID:          r.UserID,
		Email:           r.Email,
		Reason:          r.Reason,
		AlternateMethod: r.AlternateMethod,
	}, nil
}

// pagination reads limit/skip query parameters with safe defaults.
func pagination(r *http.Request) (limit, skip int) {
	limit = defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			skip = n
		}
	}
	return limit, skip
}
