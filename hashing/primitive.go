package hashing

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/blowfish"
)

// MaxPasswordLen is bcrypt's effective input cap.  Bytes beyond it are
// ignored by the key schedule, so two passwords sharing their first 72 bytes
// produce the same digest.
const MaxPasswordLen = 72

// magicCipherData is "OrpheanBeholderScryDoubt".
var magicCipherData = []byte{
	0x4f, 0x72, 0x70, 0x68,
	0x65, 0x61, 0x6e, 0x42,
	0x65, 0x68, 0x6f, 0x6c,
	0x64, 0x65, 0x72, 0x53,
	0x63, 0x72, 0x79, 0x44,
	0x6f, 0x75, 0x62, 0x74,
}

// Primitive computes a raw bcrypt digest.  It is the one piece of the
// verifier that does real cryptographic work and may be replaced, e.g. by a
// hardware-backed or cgo implementation.
//
// Implementations must be safe for concurrent use and return an error
// wrapping [ErrUnsupportedScheme] when they cannot compute scheme for the
// given password.
type Primitive interface {
	Digest(scheme Scheme, password []byte, salt [SaltSize]byte, cost int) ([DigestSize]byte, error)
}

// PrimitiveFunc adapts an ordinary function to the [Primitive] interface.
type PrimitiveFunc func(scheme Scheme, password []byte, salt [SaltSize]byte, cost int) ([DigestSize]byte, error)

// Digest calls f.
func (f PrimitiveFunc) Digest(scheme Scheme, password []byte, salt [SaltSize]byte, cost int) ([DigestSize]byte, error) {
	return f(scheme, password, salt, cost)
}

// Blowfish is the default [Primitive], built on golang.org/x/crypto/blowfish.
// Its output is byte-compatible with golang.org/x/crypto/bcrypt and the
// OpenBSD implementation.
//
// 2a, 2b and 2y are computed identically.  2x is computed only when every
// password byte is below 0x80; the sign-extension behaviour of the original
// 2x code is not reproduced, so other passwords yield [ErrUnsupportedScheme].
type Blowfish struct{}

// Digest implements [Primitive].
func (Blowfish) Digest(scheme Scheme, password []byte, salt [SaltSize]byte, cost int) ([DigestSize]byte, error) {
	var out [DigestSize]byte

	if !scheme.Valid() {
		return out, fmt.Errorf("%w: %q", ErrUnsupportedScheme, string(scheme))
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return out, fmt.Errorf("%w: cost %d must be in [%d, %d]",
			ErrInvalidParameters, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if len(password) > MaxPasswordLen {
		password = password[:MaxPasswordLen]
	}
	if scheme == Scheme2x && !isASCII(password) {
		return out, fmt.Errorf("%w: $2x$ with non-ASCII password bytes", ErrUnsupportedScheme)
	}

	c, err := eksBlowfishSetup(password, salt[:], cost)
	if err != nil {
		return out, err
	}

	cipherData := make([]byte, len(magicCipherData))
	copy(cipherData, magicCipherData)
	for i := 0; i < len(cipherData); i += 8 {
		for j := 0; j < 64; j++ {
			c.Encrypt(cipherData[i:i+8], cipherData[i:i+8])
		}
	}
	copy(out[:], cipherData[:DigestSize])
	return out, nil
}

// eksBlowfishSetup runs the expensive key schedule: 2^cost rounds of
// alternating key and salt expansion.
func eksBlowfishSetup(password, salt []byte, cost int) (*blowfish.Cipher, error) {
	// C implementations feed the terminating NUL into the key schedule.
	// The copy keeps the caller's slice untouched.
	key := make([]byte, len(password)+1)
	copy(key, password)

	c, err := blowfish.NewSaltedCipher(key, salt)
	if err != nil {
		return nil, fmt.Errorf("hashing: blowfish setup: %w", err)
	}
	rounds := uint64(1) << uint(cost)
	for i := uint64(0); i < rounds; i++ {
		blowfish.ExpandKey(key, c)
		blowfish.ExpandKey(salt, c)
	}
	return c, nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
