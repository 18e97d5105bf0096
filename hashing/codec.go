package hashing

import (
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// SaltSize is the length of a decoded bcrypt salt in bytes.
	SaltSize = 16
	// DigestSize is the length of a decoded bcrypt digest in bytes.  The
	// cipher produces 24 bytes; only 23 are stored, for compatibility with
	// the original OpenBSD implementation.
	DigestSize = 23

	encodedSaltLen   = 22
	encodedDigestLen = 31

	// $2b$12$ + salt + digest
	headerLen  = 7
	encodedLen = headerLen + encodedSaltLen + encodedDigestLen // 60
)

// alphabet is bcrypt's base-64 alphabet.  It is not the RFC 4648 one.
const alphabet = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var radix64 = base64.NewEncoding(alphabet).WithPadding(base64.NoPadding).Strict()

// HashParameters is the parsed form of a bcrypt hash string:
//
//	$2y$12$SG1rKbACXCE9cA8g9hBTeO/pQm.OaKPnuuQNPCL5hchYxP.r9v2Kq
//	 \/ \/ \____________________/\_____________________________/
//	tag cost       salt                     digest
//
// The fields are fixed-size arrays so two values compare with ==.
type HashParameters struct {
	Scheme Scheme
	Cost   int
	Salt   [SaltSize]byte
	Digest [DigestSize]byte
}

// WithScheme returns a copy of p carrying tag s.  The salt, cost and digest
// are unchanged.
func (p HashParameters) WithScheme(s Scheme) HashParameters {
	p.Scheme = s
	return p
}

// Decode parses a bcrypt hash string.  Every structural problem is reported
// as [ErrMalformedHash]; the returned error never includes the digest.
//
// Decoding is strict: the salt and digest must use bcrypt's alphabet and
// their unused trailing bits must be zero, so Encode(Decode(s)) == s for
// every accepted s.
func Decode(text string) (HashParameters, error) {
	var p HashParameters

	if len(text) == 0 || text[0] != '$' {
		return p, fmt.Errorf("%w: missing leading '$'", ErrMalformedHash)
	}
	if len(text) < headerLen || text[3] != '$' || text[6] != '$' {
		return p, fmt.Errorf("%w: expected $<tag>$<cost>$ header", ErrMalformedHash)
	}

	p.Scheme = Scheme(text[1:3])
	if !p.Scheme.Valid() {
		return p, fmt.Errorf("%w: unknown tag %q", ErrMalformedHash, text[1:3])
	}

	cost, ok := parseCost(text[4:6])
	if !ok {
		return p, fmt.Errorf("%w: cost %q must be two digits in [%d, %d]",
			ErrMalformedHash, text[4:6], bcrypt.MinCost, bcrypt.MaxCost)
	}
	p.Cost = cost

	payload := text[headerLen:]
	if len(payload) != encodedSaltLen+encodedDigestLen {
		return p, fmt.Errorf("%w: payload is %d characters, want %d",
			ErrMalformedHash, len(payload), encodedSaltLen+encodedDigestLen)
	}
	// encoding/base64 silently skips '\r' and '\n', so check the alphabet
	// before handing the payload over.
	if i := strings.IndexFunc(payload, func(r rune) bool {
		return !strings.ContainsRune(alphabet, r)
	}); i >= 0 {
		return p, fmt.Errorf("%w: invalid character at offset %d",
			ErrMalformedHash, headerLen+i)
	}

	if err := decodeInto(p.Salt[:], payload[:encodedSaltLen]); err != nil {
		return HashParameters{}, fmt.Errorf("%w: salt: %v", ErrMalformedHash, err)
	}
	if err := decodeInto(p.Digest[:], payload[encodedSaltLen:]); err != nil {
		return HashParameters{}, fmt.Errorf("%w: digest: %v", ErrMalformedHash, err)
	}
	return p, nil
}

// Encode serialises p into the canonical textual form.  It preserves p's
// tag exactly; use [HashParameters.WithScheme] to rewrite it first.
//
// Returns [ErrInvalidParameters] if the tag is unknown or the cost is out of
// range.
func Encode(p HashParameters) (string, error) {
	if !p.Scheme.Valid() {
		return "", fmt.Errorf("%w: unknown tag %q", ErrInvalidParameters, string(p.Scheme))
	}
	if p.Cost < bcrypt.MinCost || p.Cost > bcrypt.MaxCost {
		return "", fmt.Errorf("%w: cost %d must be in [%d, %d]",
			ErrInvalidParameters, p.Cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	var sb strings.Builder
	sb.Grow(encodedLen)
	fmt.Fprintf(&sb, "$%s$%02d$", p.Scheme, p.Cost)
	sb.WriteString(radix64.EncodeToString(p.Salt[:]))
	sb.WriteString(radix64.EncodeToString(p.Digest[:]))
	return sb.String(), nil
}

// parseCost accepts exactly two ASCII digits in [bcrypt.MinCost, bcrypt.MaxCost].
func parseCost(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	cost := int(s[0]-'0')*10 + int(s[1]-'0')
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return 0, false
	}
	return cost, true
}

// decodeInto decodes src into dst, which must be exactly the decoded size.
func decodeInto(dst []byte, src string) error {
	buf := make([]byte, radix64.DecodedLen(len(src)))
	n, err := radix64.Decode(buf, []byte(src))
	if err != nil {
		return err
	}
	if n != len(dst) {
		return fmt.Errorf("decoded %d bytes, want %d", n, len(dst))
	}
	copy(dst, buf[:n])
	return nil
}
