package jokauth

import (
	"errors"
	"fmt"

	"github.com/jokio/jokauth/jwt"
)

var (
	// ErrMalformed is reported when a token is not three valid base64url segments
	// or its payload is not a UTF-8 JSON object.
	ErrMalformed = errors.New("malformed token")
	// ErrInvalidSignature is reported when a structurally valid token does not
	// verify under the configured key.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrWrongNamespace is reported when the signature is valid but the claims
	// lack the marker field of this system's claim namespace.
	ErrWrongNamespace = errors.New("token not issued for this claim namespace")
	// ErrInternal is reported for unexpected failures while decoding.
	ErrInternal = errors.New("internal verifier error")

	// ErrKeyRequired is returned by Build when neither a seed nor a public key is configured.
	ErrKeyRequired = errors.New("verification key required")
	// ErrInvalidSeed is returned by Build when the key material cannot be decoded.
	ErrInvalidSeed = errors.New("invalid verification key material")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid verifier config")
	// ErrVerifierNotReady is returned by methods called on a nil or unbuilt Verifier.
	ErrVerifierNotReady = errors.New("verifier not initialized")
)

// FailureKind classifies why a token was rejected.
type FailureKind int

const (
	// FailureNone means the token was accepted.
	FailureNone FailureKind = iota
	// FailureMalformed means the token is not three base64url segments or its
	// payload is not a UTF-8 JSON object.
	FailureMalformed
	// FailureInvalidSignature means the signature did not verify under the key.
	FailureInvalidSignature
	// FailureWrongNamespace means the signature verified but the marker field
	// is missing or falsy.
	FailureWrongNamespace
	// FailureInternal covers unexpected failures, including an unbuilt Verifier.
	FailureInternal
)

// String returns the snake_case name used in logs, metrics and audit events.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureMalformed:
		return "malformed"
	case FailureInvalidSignature:
		return "invalid_signature"
	case FailureWrongNamespace:
		return "wrong_namespace"
	case FailureInternal:
		return "internal"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

func (k FailureKind) sentinel() error {
	switch k {
	case FailureMalformed:
		return ErrMalformed
	case FailureInvalidSignature:
		return ErrInvalidSignature
	case FailureWrongNamespace:
		return ErrWrongNamespace
	default:
		return ErrInternal
	}
}

// VerifyError is returned by Verifier.Verify for every rejected token.
//
// errors.Is matches both the kind's sentinel (ErrMalformed, ...) and the
// underlying cause (jwt.ErrSignatureInvalid, ...).
type VerifyError struct {
	Kind FailureKind
	Err  error
}

func (e *VerifyError) Error() string {
	if e.Err == nil {
		return e.Kind.sentinel().Error()
	}
	return e.Kind.sentinel().Error() + ": " + e.Err.Error()
}

func (e *VerifyError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// FailureKindOf extracts the failure kind from an error returned by Verify.
// Errors that did not come from Verify classify as FailureInternal; nil is FailureNone.
func FailureKindOf(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var verr *VerifyError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return FailureInternal
}

func newVerifyError(kind FailureKind, err error) *VerifyError {
	return &VerifyError{Kind: kind, Err: err}
}

// classifyParseError maps jwt package failures onto the verifier taxonomy.
func classifyParseError(err error) *VerifyError {
	switch {
	case errors.Is(err, jwt.ErrSignatureInvalid):
		return newVerifyError(FailureInvalidSignature, err)
	case errors.Is(err, jwt.ErrMalformedToken),
		errors.Is(err, jwt.ErrInvalidEncoding),
		errors.Is(err, jwt.ErrPayloadInvalid):
		return newVerifyError(FailureMalformed, err)
	default:
		return newVerifyError(FailureInternal, err)
	}
}
