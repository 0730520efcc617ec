package jokauth

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/jokio/jokauth/jwt"
	"github.com/nats-io/nkeys"
)

const testHeader = `{"typ":"JWT","alg":"ed25519-nkey"}`

func newTestAccount(t testing.TB) (nkeys.KeyPair, string) {
	t.Helper()
	kp, err := nkeys.CreateAccount()
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	seed, err := kp.Seed()
	if err != nil {
		t.Fatalf("account seed: %v", err)
	}
	return kp, string(seed)
}

func signPayload(t testing.TB, kp nkeys.KeyPair, payload []byte) string {
	t.Helper()
	encoded := jwt.EncodeSegment(payload)
	sig, err := kp.Sign([]byte(encoded))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return jwt.EncodeSegment([]byte(testHeader)) + "." + encoded + "." + jwt.EncodeSegment(sig)
}

func signToken(t testing.TB, kp nkeys.KeyPair, claims any) string {
	t.Helper()
	body, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("marshal claims: %v", err)
	}
	return signPayload(t, kp, body)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestVerifier(t testing.TB, seed string, configure ...func(*Builder)) *Verifier {
	t.Helper()
	b := New().WithSeed(seed).WithLogger(discardLogger())
	for _, fn := range configure {
		fn(b)
	}
	v, err := b.Build()
	if err != nil {
		t.Fatalf("build verifier: %v", err)
	}
	t.Cleanup(v.Close)
	return v
}
