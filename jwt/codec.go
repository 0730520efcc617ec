package jwt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when a token is not three dot-separated segments.
	ErrMalformedToken = errors.New("malformed token")
	// ErrInvalidEncoding is returned when a segment is not valid base64.
	ErrInvalidEncoding = errors.New("invalid segment encoding")
)

// segmentParser decodes with the URL alphabet, tolerates trailing padding and
// rejects non-canonical trailing bits.
var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed(), jwt.WithStrictDecoding())

// toURLAlphabet maps the standard base64 alphabet onto the URL-safe one so
// both spellings of a segment decode to the same bytes.
var toURLAlphabet = strings.NewReplacer("+", "-", "/", "_")

// Split breaks a compact token into its header, payload and signature segments.
//
// Split only counts separators. Empty segments are returned as-is and are
// rejected later by segment decoding.
func Split(token string) (header, payload, signature string, err error) {
	if strings.Count(token, ".") != 2 {
		return "", "", "", fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformedToken, strings.Count(token, ".")+1)
	}
	header, rest, _ := strings.Cut(token, ".")
	payload, signature, _ = strings.Cut(rest, ".")
	return header, payload, signature, nil
}

// DecodeSegment decodes one base64url segment. Standard alphabet characters
// ('+', '/') are accepted as equivalents of '-' and '_'. Padding is neither
// required nor re-added. Any byte outside both alphabets and '=' is
// rejected, including the CR and LF that encoding/base64 would skip.
func DecodeSegment(segment string) ([]byte, error) {
	if i := invalidSegmentByte(segment); i >= 0 {
		return nil, fmt.Errorf("%w: illegal byte %q at offset %d", ErrInvalidEncoding, segment[i], i)
	}
	raw, err := segmentParser.DecodeSegment(toURLAlphabet.Replace(segment))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return raw, nil
}

// invalidSegmentByte returns the offset of the first byte outside
// [A-Za-z0-9+/_=-], or -1.
func invalidSegmentByte(segment string) int {
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '+', c == '/', c == '=':
		default:
			return i
		}
	}
	return -1
}

// EncodeSegment encodes raw bytes as URL-safe base64 without padding.
func EncodeSegment(raw []byte) string {
	return new(jwt.Token).EncodeSegment(raw)
}
