package jwt

import (
	"bytes"
	"errors"
	"testing"
)

func TestSplitRequiresExactlyThreeSegments(t *testing.T) {
	cases := []struct {
		name  string
		token string
		ok    bool
	}{
		{name: "three", token: "aaa.bbb.ccc", ok: true},
		{name: "empty segments", token: "..", ok: true},
		{name: "two", token: "abc.def"},
		{name: "one", token: "abc"},
		{name: "empty", token: ""},
		{name: "four", token: "a.b.c.d"},
		{name: "trailing dot", token: "a.b.c."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := Split(tc.token)
			if tc.ok && err != nil {
				t.Fatalf("expected split to succeed, got %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrMalformedToken) {
				t.Fatalf("expected ErrMalformedToken, got %v", err)
			}
		})
	}
}

func TestSplitReturnsSegmentsInOrder(t *testing.T) {
	h, p, s, err := Split("head.body.sig")
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if h != "head" || p != "body" || s != "sig" {
		t.Fatalf("unexpected segments %q %q %q", h, p, s)
	}
}

func TestDecodeSegmentAlphabetsAreEquivalent(t *testing.T) {
	want := []byte{0xfb, 0xff, 0xbf, 0xfb, 0xff, 0xbf}

	urlSafe, err := DecodeSegment("-_-_-_-_")
	if err != nil {
		t.Fatalf("decode url-safe: %v", err)
	}
	standard, err := DecodeSegment("+/+/+/+/")
	if err != nil {
		t.Fatalf("decode standard: %v", err)
	}
	mixed, err := DecodeSegment("-/+_-/+_")
	if err != nil {
		t.Fatalf("decode mixed: %v", err)
	}

	if !bytes.Equal(urlSafe, want) || !bytes.Equal(standard, want) || !bytes.Equal(mixed, want) {
		t.Fatalf("alphabets decoded differently: %x %x %x", urlSafe, standard, mixed)
	}
}

func TestDecodeSegmentPadding(t *testing.T) {
	unpadded, err := DecodeSegment("YQ")
	if err != nil {
		t.Fatalf("decode unpadded: %v", err)
	}
	padded, err := DecodeSegment("YQ==")
	if err != nil {
		t.Fatalf("decode padded: %v", err)
	}
	if string(unpadded) != "a" || string(padded) != "a" {
		t.Fatalf("unexpected decode %q %q", unpadded, padded)
	}
}

func TestDecodeSegmentRejectsInvalidInput(t *testing.T) {
	for _, seg := range []string{
		"a",            // impossible length
		"ab*c",         // outside alphabet
		"YR",           // non-zero trailing bits
		"Y=Q=",         // padding in the middle
		"YQ===",        // too much padding
		"QUJD\n\n\n\n", // trailing newlines
		"QU\r\nJD",     // embedded CRLF
		"QUJD ",        // space
		"QUJD\t",       // tab
	} {
		if _, err := DecodeSegment(seg); !errors.Is(err, ErrInvalidEncoding) {
			t.Fatalf("segment %q: expected ErrInvalidEncoding, got %v", seg, err)
		}
	}
}

func TestEncodeSegmentRoundTrip(t *testing.T) {
	raw := []byte{0x00, 0xfb, 0xff, 0xbf, 0x10, 0x7f, 0x80}
	encoded := EncodeSegment(raw)
	if bytes.ContainsAny([]byte(encoded), "+/=") {
		t.Fatalf("encoded segment is not url-safe unpadded: %q", encoded)
	}
	decoded, err := DecodeSegment(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !bytes.Equal(decoded, raw) {
		t.Fatalf("round trip mismatch: %x != %x", decoded, raw)
	}
}
