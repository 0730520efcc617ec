package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrSignatureInvalid is returned when the signature does not verify under the key.
	ErrSignatureInvalid = errors.New("token signature invalid")
	// ErrPayloadInvalid is returned when the payload is not a UTF-8 JSON object.
	ErrPayloadInvalid = errors.New("token payload invalid")
)

// Verifier is the capability Parse needs from a key.
type Verifier interface {
	Verify(message, signature []byte) bool
}

// Token is a compact token whose signature has been verified.
type Token struct {
	Header  string
	Payload string
	// RawClaims is the decoded payload segment.
	RawClaims []byte
	Claims    map[string]any
}

// Parse verifies a compact token and decodes its claims.
//
// The signature covers the payload segment exactly as it appears in the
// token (still base64url encoded), not the decoded payload bytes and not the
// header. Nothing past the signature check is decoded when verification fails.
//
// Parse returns errors wrapping ErrMalformedToken, ErrInvalidEncoding,
// ErrSignatureInvalid or ErrPayloadInvalid.
func Parse(key Verifier, token string) (*Token, error) {
	if key == nil {
		return nil, ErrInvalidKey
	}

	header, payload, signature, err := Split(token)
	if err != nil {
		return nil, err
	}

	sig, err := DecodeSegment(signature)
	if err != nil {
		return nil, fmt.Errorf("signature segment: %w", err)
	}

	if !key.Verify([]byte(payload), sig) {
		return nil, ErrSignatureInvalid
	}

	raw, err := DecodeSegment(payload)
	if err != nil {
		return nil, fmt.Errorf("payload segment: %w", err)
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("%w: payload is not utf-8", ErrPayloadInvalid)
	}

	var claims map[string]any
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrPayloadInvalid)
	}

	return &Token{
		Header:    header,
		Payload:   payload,
		RawClaims: raw,
		Claims:    claims,
	}, nil
}
