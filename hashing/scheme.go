package hashing

import "strings"

// Scheme is the revision tag embedded in a bcrypt hash string, e.g. "2b" in
// "$2b$12$...".  Using a named string type prevents accidental confusion with
// plain strings.
type Scheme string

const (
	// Scheme2a is the 2a revision (OpenBSD, pre-2014).  It differs from 2b
	// only for passwords longer than 255 bytes, which the 72-byte cap makes
	// unreachable.
	Scheme2a Scheme = "2a"
	// Scheme2b is the canonical revision.
	Scheme2b Scheme = "2b"
	// Scheme2x marks hashes produced by crypt_blowfish before 1.1, which
	// sign-extended password bytes >= 0x80.
	Scheme2x Scheme = "2x"
	// Scheme2y is crypt_blowfish's (PHP's) name for the corrected algorithm.
	Scheme2y Scheme = "2y"

	// CanonicalScheme is the tag every legacy tag is normalised to.
	CanonicalScheme = Scheme2b
)

// Valid reports whether s is one of the known bcrypt tags.
func (s Scheme) Valid() bool {
	switch s {
	case Scheme2a, Scheme2b, Scheme2x, Scheme2y:
		return true
	default:
		return false
	}
}

// IsLegacy reports whether s is a historical tag eligible for the
// canonical-tag retry in [Verifier.Verify].
func (s Scheme) IsLegacy() bool {
	switch s {
	case Scheme2a, Scheme2x, Scheme2y:
		return true
	default:
		return false
	}
}

// Canonical returns [CanonicalScheme] for every known tag and s itself
// otherwise.
func (s Scheme) Canonical() Scheme {
	if s.Valid() {
		return CanonicalScheme
	}
	return s
}

// DetectScheme inspects a hash string and returns the bcrypt tag it starts
// with.  It is a best-effort heuristic based on the hash prefix and does not
// validate the rest of the string; use [Decode] for that.
//
// The second return value is false when the prefix is not a known tag.
func DetectScheme(hash string) (Scheme, bool) {
	for _, s := range []Scheme{Scheme2a, Scheme2b, Scheme2x, Scheme2y} {
		if strings.HasPrefix(hash, "$"+string(s)+"$") {
			return s, true
		}
	}
	return "", false
}
