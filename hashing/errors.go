package hashing

import "errors"

// Sentinel errors returned by hashing operations.
//
// Use [errors.Is] for comparisons:
//
//	res, err := hashing.Verify(candidate, stored)
//	if errors.Is(err, hashing.ErrMalformedHash) {
//	    // stored hash is corrupt; this is not a wrong password
//	}
//
// A wrong password is never an error: it is reported as [ResultNoMatch].
var (
	// ErrMalformedHash is returned when a stored hash string does not follow
	// the $<tag>$<cost>$<salt><digest> grammar: missing delimiters, an
	// unknown tag, a bad cost field, or a payload of the wrong length or
	// alphabet.
	ErrMalformedHash = errors.New("hashing: malformed bcrypt hash")

	// ErrInvalidInput is returned when a candidate or stored hash violates a
	// basic precondition (empty, oversized, not valid UTF-8 where text is
	// required) or the stored cost exceeds the verifier's configured limit.
	ErrInvalidInput = errors.New("hashing: invalid input")

	// ErrUnsupportedScheme is returned when a hash uses a known tag that the
	// primitive cannot compute for the given password, e.g. $2x$ with
	// non-ASCII password bytes.
	ErrUnsupportedScheme = errors.New("hashing: unsupported bcrypt scheme")

	// ErrInvalidParameters is returned by [Encode] and [Blowfish] when the
	// parameter set has an unknown tag or a cost outside
	// [bcrypt.MinCost, bcrypt.MaxCost].
	ErrInvalidParameters = errors.New("hashing: invalid hash parameters")

	// ErrInvalidOption is returned when a constructor is called with a
	// parameter value that falls outside the allowed range (e.g., a maximum
	// cost below 4 or above 31).
	ErrInvalidOption = errors.New("hashing: invalid option value")
)
