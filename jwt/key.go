package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nats-io/nkeys"
)

// ErrInvalidKey is returned when key material cannot be turned into a verification key.
var ErrInvalidKey = errors.New("invalid verification key")

// VerificationKey holds the Ed25519 public half of an nkeys key pair.
//
// VerificationKey instances are created once at startup and never mutated, so a
// single key can be shared by any number of goroutines.
type VerificationKey struct {
	public  ed25519.PublicKey
	encoded string
	kind    nkeys.PrefixByte
}

// NewVerificationKeyFromSeed derives the verification key from an nkeys seed
// (for example an account seed starting with "SA"). The private material is
// wiped before returning; only the public key is retained.
func NewVerificationKeyFromSeed(seed string) (*VerificationKey, error) {
	seed = strings.TrimSpace(seed)
	if seed == "" {
		return nil, fmt.Errorf("%w: empty seed", ErrInvalidKey)
	}

	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	defer kp.Wipe()

	public, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return NewVerificationKeyFromPublic(public)
}

// NewVerificationKeyFromPublic parses an encoded nkeys public key ("A...", "U...", ...).
func NewVerificationKeyFromPublic(public string) (*VerificationKey, error) {
	public = strings.TrimSpace(public)
	if public == "" {
		return nil, fmt.Errorf("%w: empty public key", ErrInvalidKey)
	}

	kind := nkeys.Prefix(public)
	switch kind {
	case nkeys.PrefixByteUnknown, nkeys.PrefixByteSeed, nkeys.PrefixBytePrivate, nkeys.PrefixByteCurve:
		return nil, fmt.Errorf("%w: not an ed25519 nkeys public key", ErrInvalidKey)
	}

	raw, err := nkeys.Decode(kind, []byte(public))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: unexpected key length %d", ErrInvalidKey, len(raw))
	}

	return &VerificationKey{
		public:  ed25519.PublicKey(raw),
		encoded: public,
		kind:    kind,
	}, nil
}

// Verify reports whether signature is a valid Ed25519 signature of message.
func (k *VerificationKey) Verify(message, signature []byte) bool {
	if k == nil || len(k.public) != ed25519.PublicKeySize {
		return false
	}
	return jwt.SigningMethodEdDSA.Verify(string(message), signature, k.public) == nil
}

// PublicKey returns the nkeys encoding of the key.
func (k *VerificationKey) PublicKey() string {
	if k == nil {
		return ""
	}
	return k.encoded
}

// Kind names the nkeys role of the key ("account", "user", ...).
func (k *VerificationKey) Kind() string {
	if k == nil {
		return ""
	}
	return k.kind.String()
}
