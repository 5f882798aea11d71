package gate

import (
	"github.com/asaskevich/govalidator"

	"verigate/internal/verify"
	"verigate/pkg/domain"
	dErrors "verigate/pkg/domain-errors"
)

// VerifyRequest is the wire shape of POST /verify-secure.
type VerifyRequest struct {
	UserID         string       `json:"userId"`
	Email          string       `json:"email"`
	RecaptchaToken string       `json:"recaptchaToken"`
	FaceData       *FaceData    `json:"faceData"`
	AadhaarData    *AadhaarData `json:"aadhaarData"`
}

// FaceData carries pre-extracted numeric descriptors; no imagery crosses
// this API.
type FaceData struct {
	Descriptors          []float64 `json:"descriptors"`
	ReferenceDescriptors []float64 `json:"referenceDescriptors"`
	Method               string    `json:"method"`
}

// AadhaarData carries the identity-document payload.
type AadhaarData struct {
	AadhaarNumber string `json:"aadhaarNumber"`
	Consent       bool   `json:"consent"`
	Name          string `json:"name"`
}

// ToDomain validates the wire request and converts it. Factor payloads stay
// optional; only identity fields and enum values are enforced here, factor
// content is judged by the verifiers.
func (r VerifyRequest) ToDomain() (verify.Request, error) {
	if !govalidator.StringLength(r.UserID, "1", "100") {
		return verify.Request{}, dErrors.New(dErrors.CodeInvalidInput, "userId is required")
	}
	if !govalidator.IsEmail(r.Email) {
		return verify.Request{}, dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}

	req := verify.Request{
		UserID:       r.UserID,
		Email:        r.Email,
		TrafficToken: r.RecaptchaToken,
	}

	if r.FaceData != nil {
		method, err := domain.ParseBiometricMethod(r.FaceData.Method)
		if err != nil {
			return verify.Request{}, err
		}
		req.Biometric = &verify.BiometricPayload{
			Descriptors:          r.FaceData.Descriptors,
			ReferenceDescriptors: r.FaceData.ReferenceDescriptors,
			Method:               method,
		}
	}

	if r.AadhaarData != nil {
		req.Document = &verify.DocumentPayload{
			Number:  r.AadhaarData.AadhaarNumber,
			Consent: r.AadhaarData.Consent,
			Name:    r.AadhaarData.Name,
		}
	}

	return req, nil
}
