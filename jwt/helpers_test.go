package jwt

import (
	"encoding/json"
	"testing"

	"github.com/nats-io/nkeys"
)

const testHeader = `{"typ":"JWT","alg":"ed25519-nkey"}`

func newAccountKey(t testing.TB) (nkeys.KeyPair, *VerificationKey) {
	t.Helper()
	kp, err := nkeys.CreateAccount()
	if err != nil {
		t.Fatalf("create account key: %v", err)
	}
	seed, err := kp.Seed()
	if err != nil {
		t.Fatalf("account seed: %v", err)
	}
	key, err := NewVerificationKeyFromSeed(string(seed))
	if err != nil {
		t.Fatalf("verification key from seed: %v", err)
	}
	return kp, key
}

func signRaw(t testing.TB, kp nkeys.KeyPair, payload []byte) string {
	t.Helper()
	encoded := EncodeSegment(payload)
	sig, err := kp.Sign([]byte(encoded))
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}
	return EncodeSegment([]byte(testHeader)) + "." + encoded + "." + EncodeSegment(sig)
}

func signClaims(t testing.TB, kp nkeys.KeyPair, claims any) string {
	t.Helper()
	body, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return signRaw(t, kp, body)
}
