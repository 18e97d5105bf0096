package hashing

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashInfo carries metadata parsed from a bcrypt hash string.
type HashInfo struct {
	// Scheme is the tag exactly as stored.
	Scheme Scheme
	// Cost is the stored work factor.
	Cost int
	// Legacy is true for $2a$, $2x$ and $2y$ hashes.
	Legacy bool
}

// Info extracts metadata from a hash string without verifying it.
// Useful for auditing, migration tooling, or logging.
func Info(hash string) (HashInfo, error) {
	p, err := Decode(hash)
	if err != nil {
		return HashInfo{}, err
	}
	return HashInfo{
		Scheme: p.Scheme,
		Cost:   p.Cost,
		Legacy: p.Scheme.IsLegacy(),
	}, nil
}

// NeedsRehash reports whether hash should be replaced on the next successful
// login: its tag is not canonical, or its cost differs from cost.
//
// Returns [ErrInvalidOption] if cost is outside [bcrypt.MinCost,
// bcrypt.MaxCost] and [ErrMalformedHash] if hash does not decode.
func NeedsRehash(hash string, cost int) (bool, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return false, fmt.Errorf("%w: bcrypt cost %d must be in [%d, %d]",
			ErrInvalidOption, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	info, err := Info(hash)
	if err != nil {
		return false, err
	}
	return info.Legacy || info.Cost != cost, nil
}

var defaultVerifier = mustVerifier(DefaultOptions())

func mustVerifier(opts Options) *Verifier {
	v, err := NewVerifier(opts)
	if err != nil {
		panic(err)
	}
	return v
}

// Verify checks candidate against storedHash with [DefaultOptions].
func Verify(candidate []byte, storedHash string) (Result, error) {
	return defaultVerifier.Verify(candidate, storedHash)
}

// Check checks password against hash with [DefaultOptions].
func Check(password, hash string) (bool, error) {
	return defaultVerifier.Check(password, hash)
}
