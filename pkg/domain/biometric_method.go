package domain

import dErrors "verigate/pkg/domain-errors"

// BiometricMethod identifies which extraction method produced a descriptor
// vector. Invariant: the value is one of the supported methods; audit
// aggregation depends on the vocabulary staying closed.
//
// Usage: construct via ParseBiometricMethod at trust boundaries to enforce
// the allowlist; direct casting bypasses validation.
type BiometricMethod string

const (
	MethodPrimary        BiometricMethod = "primary"
	MethodSecondary      BiometricMethod = "secondary"
	MethodManualFallback BiometricMethod = "manual-fallback"
)

// validBiometricMethods is the single source of truth for valid methods.
var validBiometricMethods = map[BiometricMethod]bool{
	MethodPrimary:        true,
	MethodSecondary:      true,
	MethodManualFallback: true,
}

// ParseBiometricMethod constructs a BiometricMethod from external input.
// An empty value defaults to MethodPrimary; manual-fallback is reserved for
// the fallback flow and rejected when supplied by clients.
//
// Errors: returns CodeInvalidInput for unsupported or reserved values.
func ParseBiometricMethod(s string) (BiometricMethod, error) {
	if s == "" {
		return MethodPrimary, nil
	}
	m := BiometricMethod(s)
	if !m.IsValid() || m == MethodManualFallback {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported biometric method")
	}
	return m, nil
}

// IsValid reports whether the method is part of the closed vocabulary.
func (m BiometricMethod) IsValid() bool {
	return validBiometricMethods[m]
}

func (m BiometricMethod) String() string { return string(m) }
