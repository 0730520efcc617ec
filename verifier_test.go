package jokauth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/jokio/jokauth/jwt"
	"github.com/nats-io/nkeys"
)

func testClaims() map[string]any {
	return map[string]any{
		"jok": map[string]any{
			"userId": "u1",
			"roles":  []any{"ADMIN"},
		},
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed)

	token := signToken(t, kp, testClaims())
	claims, ok := v.Decode(context.Background(), token)
	if !ok {
		t.Fatal("expected valid token to decode")
	}
	if !reflect.DeepEqual(map[string]any(claims), testClaims()) {
		t.Fatalf("claims mismatch: got %#v", claims)
	}
	if got := v.Subject(claims); got != "u1" {
		t.Fatalf("expected subject u1, got %q", got)
	}
	if got := v.Roles(claims); len(got) != 1 || got[0] != "ADMIN" {
		t.Fatalf("expected roles [ADMIN], got %v", got)
	}
}

func TestDecodeCorruptedLastCharacterAbsent(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed)

	token := signToken(t, kp, testClaims())
	last := token[len(token)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'Q'
	}
	corrupted := token[:len(token)-1] + string(replacement)

	if claims, ok := v.Decode(context.Background(), corrupted); ok || claims != nil {
		t.Fatalf("expected absent, got %v", claims)
	}
}

func TestDecodeLineBreaksInSignatureAbsent(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed)

	token := signToken(t, kp, testClaims())
	if _, ok := v.Decode(context.Background(), token); !ok {
		t.Fatal("untouched token must decode")
	}

	sigStart := strings.LastIndexByte(token, '.') + 1
	for _, inject := range []string{"\r\n\r\n", "\n", "\r"} {
		mid := sigStart + 10
		tampered := token[:mid] + inject + token[mid:]
		if claims, ok := v.Decode(context.Background(), tampered); ok || claims != nil {
			t.Fatalf("line break %q in signature accepted", inject)
		}
		if _, err := v.Verify(context.Background(), tampered); FailureKindOf(err) != FailureMalformed {
			t.Fatalf("line break %q: expected malformed, got %v", inject, err)
		}
	}

	tampered := token + "\r\n"
	if _, ok := v.Decode(context.Background(), tampered); ok {
		t.Fatal("trailing CRLF accepted")
	}
}

func TestDecodeBitFlipsAbsent(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed)

	token := signToken(t, kp, testClaims())
	header, payload, signature, err := jwt.Split(token)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	rawPayload, _ := jwt.DecodeSegment(payload)
	rawSig, _ := jwt.DecodeSegment(signature)

	for i := 0; i < len(rawSig)*8; i += 7 {
		flipped := append([]byte(nil), rawSig...)
		flipped[i/8] ^= 1 << (i % 8)
		tok := header + "." + payload + "." + jwt.EncodeSegment(flipped)
		if _, ok := v.Decode(context.Background(), tok); ok {
			t.Fatalf("signature bit %d flipped but token accepted", i)
		}
	}

	for i := 0; i < len(rawPayload)*8; i += 5 {
		flipped := append([]byte(nil), rawPayload...)
		flipped[i/8] ^= 1 << (i % 8)
		tok := header + "." + jwt.EncodeSegment(flipped) + "." + signature
		if _, ok := v.Decode(context.Background(), tok); ok {
			t.Fatalf("payload bit %d flipped but token accepted", i)
		}
	}
}

func TestDecodeMalformedInputsAbsent(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed)
	valid := signToken(t, kp, testClaims())

	inputs := []string{
		"",
		"abc",
		"abc.def",
		"..",
		"...",
		"a.b.c.d",
		valid + ".extra",
		valid[:strings.LastIndex(valid, ".")] + ".!!!",
		strings.Replace(valid, ".", "", 1),
	}

	for _, in := range inputs {
		claims, ok := v.Decode(context.Background(), in)
		if ok || claims != nil {
			t.Fatalf("input %q: expected absent, got %v", in, claims)
		}
	}
}

func TestDecodeAlphabetsEquivalent(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed)

	// Search for a payload whose encoding uses the URL-only characters.
	var token string
	for i := 0; i < 512; i++ {
		claims := testClaims()
		claims["n"] = strings.Repeat("?", i%7) + strings.Repeat(">", i/7)
		candidate := signToken(t, kp, claims)
		if strings.ContainsAny(candidate, "-_") {
			token = candidate
			break
		}
	}
	if token == "" {
		t.Fatal("could not produce a token using - or _")
	}

	standard := strings.NewReplacer("-", "+", "_", "/").Replace(token)

	urlClaims, ok := v.Decode(context.Background(), token)
	if !ok {
		t.Fatal("url alphabet token rejected")
	}
	stdClaims, ok := v.Decode(context.Background(), standard)
	if !ok {
		t.Fatal("standard alphabet token rejected")
	}
	if !reflect.DeepEqual(urlClaims, stdClaims) {
		t.Fatalf("alphabets decoded differently: %v vs %v", urlClaims, stdClaims)
	}
}

func TestDecodeForeignKeyAbsent(t *testing.T) {
	_, seed := newTestAccount(t)
	other, _ := newTestAccount(t)
	v := newTestVerifier(t, seed)

	if _, ok := v.Decode(context.Background(), signToken(t, other, testClaims())); ok {
		t.Fatal("token signed by another key must be absent")
	}
}

func TestDecodeMarkerPresence(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed)

	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{name: "missing", payload: `{"sub":"u1"}`, want: false},
		{name: "null", payload: `{"jok":null}`, want: false},
		{name: "false", payload: `{"jok":false}`, want: false},
		{name: "zero", payload: `{"jok":0}`, want: false},
		{name: "empty string", payload: `{"jok":""}`, want: false},
		{name: "nested only", payload: `{"other":{"jok":{"userId":"u1"}}}`, want: false},
		{name: "empty object", payload: `{"jok":{}}`, want: true},
		{name: "empty array", payload: `{"jok":[]}`, want: true},
		{name: "true", payload: `{"jok":true}`, want: true},
		{name: "string", payload: `{"jok":"x"}`, want: true},
		{name: "object", payload: `{"jok":{"userId":"u1"}}`, want: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := v.Decode(context.Background(), signPayload(t, kp, []byte(tc.payload)))
			if ok != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, ok)
			}
		})
	}
}

func TestDecodeMarkerNonEmptyObjectPolicy(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed, func(b *Builder) {
		b.config.Claims.MarkerPolicy = MarkerNonEmptyObject
	})

	if _, ok := v.Decode(context.Background(), signPayload(t, kp, []byte(`{"jok":{}}`))); ok {
		t.Fatal("empty object must be absent under MarkerNonEmptyObject")
	}
	if _, ok := v.Decode(context.Background(), signPayload(t, kp, []byte(`{"jok":true}`))); ok {
		t.Fatal("non-object marker must be absent under MarkerNonEmptyObject")
	}
	if _, ok := v.Decode(context.Background(), signToken(t, kp, testClaims())); !ok {
		t.Fatal("populated marker must decode")
	}
}

func TestVerifyClassifiesFailures(t *testing.T) {
	kp, seed := newTestAccount(t)
	other, _ := newTestAccount(t)
	v := newTestVerifier(t, seed)

	tests := []struct {
		name     string
		token    string
		kind     FailureKind
		sentinel error
	}{
		{name: "two segments", token: "abc.def", kind: FailureMalformed, sentinel: ErrMalformed},
		{name: "bad signature encoding", token: "a.b.!!", kind: FailureMalformed, sentinel: ErrMalformed},
		{name: "foreign key", token: signToken(t, other, testClaims()), kind: FailureInvalidSignature, sentinel: ErrInvalidSignature},
		{name: "empty segments", token: "..", kind: FailureInvalidSignature, sentinel: ErrInvalidSignature},
		{name: "not json", token: signPayload(t, kp, []byte("not json")), kind: FailureMalformed, sentinel: ErrMalformed},
		{name: "json array", token: signPayload(t, kp, []byte(`[1,2]`)), kind: FailureMalformed, sentinel: ErrMalformed},
		{name: "invalid utf8", token: signPayload(t, kp, []byte{'{', '"', 0xff, '"', ':', '1', '}'}), kind: FailureMalformed, sentinel: ErrMalformed},
		{name: "no marker", token: signPayload(t, kp, []byte(`{"sub":"x"}`)), kind: FailureWrongNamespace, sentinel: ErrWrongNamespace},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := v.Verify(context.Background(), tc.token)
			if err == nil {
				t.Fatalf("expected error, got claims %v", claims)
			}
			if claims != nil {
				t.Fatalf("claims must be nil on failure, got %v", claims)
			}
			if got := FailureKindOf(err); got != tc.kind {
				t.Fatalf("expected kind %s, got %s (%v)", tc.kind, got, err)
			}
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("expected errors.Is(%v, %v)", err, tc.sentinel)
			}
		})
	}
}

func TestVerifyKeepsJWTCause(t *testing.T) {
	_, seed := newTestAccount(t)
	other, _ := newTestAccount(t)
	v := newTestVerifier(t, seed)

	_, err := v.Verify(context.Background(), signToken(t, other, testClaims()))
	if !errors.Is(err, jwt.ErrSignatureInvalid) {
		t.Fatalf("expected jwt.ErrSignatureInvalid in chain, got %v", err)
	}
	var verr *VerifyError
	if !errors.As(err, &verr) || verr.Kind != FailureInvalidSignature {
		t.Fatalf("expected *VerifyError, got %T", err)
	}
}

func TestZeroVerifierFailsClosed(t *testing.T) {
	var nilVerifier *Verifier
	if _, ok := nilVerifier.Decode(context.Background(), "a.b.c"); ok {
		t.Fatal("nil verifier must not accept tokens")
	}

	v := &Verifier{}
	if _, ok := v.Decode(context.Background(), "a.b.c"); ok {
		t.Fatal("unbuilt verifier must not accept tokens")
	}
	_, err := v.Verify(context.Background(), "a.b.c")
	if !errors.Is(err, ErrVerifierNotReady) || FailureKindOf(err) != FailureInternal {
		t.Fatalf("expected internal not-ready error, got %v", err)
	}
}

func TestDecodeLogsKindWithoutToken(t *testing.T) {
	_, seed := newTestAccount(t)
	other, _ := newTestAccount(t)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	v := newTestVerifier(t, seed, func(b *Builder) { b.WithLogger(logger) })

	token := signToken(t, other, testClaims())
	if _, ok := v.Decode(context.Background(), token); ok {
		t.Fatal("expected absent")
	}

	out := buf.String()
	if !strings.Contains(out, "kind=invalid_signature") {
		t.Fatalf("expected failure kind in log, got %q", out)
	}
	for _, segment := range strings.Split(token, ".") {
		if strings.Contains(out, segment) {
			t.Fatalf("log output leaked a token segment: %q", out)
		}
	}
}

func TestDecodeAs(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed)

	type jokClaims struct {
		Jok struct {
			UserID string   `json:"userId"`
			Roles  []string `json:"roles"`
		} `json:"jok"`
	}

	got, ok := DecodeAs[jokClaims](context.Background(), v, signToken(t, kp, testClaims()))
	if !ok {
		t.Fatal("expected typed decode to succeed")
	}
	if got.Jok.UserID != "u1" || len(got.Jok.Roles) != 1 || got.Jok.Roles[0] != "ADMIN" {
		t.Fatalf("unexpected typed claims %+v", got)
	}

	mismatch := signPayload(t, kp, []byte(`{"jok":{"userId":42}}`))
	if got, ok := DecodeAs[jokClaims](context.Background(), v, mismatch); ok || got != nil {
		t.Fatalf("shape mismatch must be absent, got %+v", got)
	}

	if _, ok := DecodeAs[jokClaims](context.Background(), v, "abc.def"); ok {
		t.Fatal("malformed token must be absent")
	}
}

func TestDecodeConcurrent(t *testing.T) {
	kp, seed := newTestAccount(t)
	other, _ := newTestAccount(t)
	v := newTestVerifier(t, seed, func(b *Builder) { b.WithMetricsEnabled(true) })

	good := signToken(t, kp, testClaims())
	bad := signToken(t, other, testClaims())

	const goroutines = 16
	const perG = 50

	var wg sync.WaitGroup
	errs := make(chan string, goroutines)
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				if _, ok := v.Decode(context.Background(), good); !ok {
					errs <- "valid token rejected"
					return
				}
				if _, ok := v.Decode(context.Background(), bad); ok {
					errs <- "foreign token accepted"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Fatal(msg)
	}

	snap := v.MetricsSnapshot()
	if got := snap.Counters[MetricDecodeSuccess]; got != goroutines*perG {
		t.Fatalf("expected %d successes, got %d", goroutines*perG, got)
	}
	if got := snap.Counters[MetricDecodeInvalidSignature]; got != goroutines*perG {
		t.Fatalf("expected %d invalid signatures, got %d", goroutines*perG, got)
	}
}

func TestVerifierAccessors(t *testing.T) {
	kp, seed := newTestAccount(t)
	v := newTestVerifier(t, seed, func(b *Builder) {
		b.WithGlobalAuthentication(true).WithBindPredicate(BindAny).WithRolesPath("jok.roles")
	})

	public, err := kp.PublicKey()
	if err != nil {
		t.Fatalf("public key: %v", err)
	}
	if v.PublicKey() != public {
		t.Fatalf("expected public key %s, got %s", public, v.PublicKey())
	}
	if !nkeys.IsValidPublicAccountKey(v.PublicKey()) {
		t.Fatal("expected an account public key")
	}
	if v.RolesPath() != "jok.roles" || v.SubjectPath() != "jok.userId" {
		t.Fatalf("unexpected paths %q %q", v.RolesPath(), v.SubjectPath())
	}
	if !v.GlobalAuthentication() {
		t.Fatal("expected global authentication")
	}
	if v.BindPredicate() != BindAny {
		t.Fatalf("expected any predicate, got %s", v.BindPredicate())
	}
	if cfg := v.Config(); cfg.Key.Seed != "" {
		t.Fatal("config copy must not expose the seed")
	}
}
