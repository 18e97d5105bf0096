// Package hashing verifies passwords against stored bcrypt hashes and
// tolerates the tag variants that different bcrypt implementations emit.
//
// # Architecture
//
// Two layers, used in one direction:
//
//   - The codec ([Decode], [Encode], [HashParameters]) translates strictly
//     between "$2b$12$<salt><digest>" strings and their parsed form.
//   - The [Verifier] decodes the stored hash, recomputes the digest through a
//     [Primitive] and compares the two in constant time.
//
// [Blowfish] is the default primitive.  Any conforming bcrypt implementation
// can be substituted through [Options].Primitive.
//
// # Quick start
//
//	ok, err := hashing.Check("my-secret-password", storedHash)
//	if errors.Is(err, hashing.ErrMalformedHash) {
//	    // corrupted storage, not a wrong password
//	}
//
// # Tag normalisation
//
// $2a$, $2y$ and $2x$ are historical revisions of the algorithm.  For ASCII
// passwords of at most 72 bytes they produce the same digest as $2b$ given the
// same salt and cost.  Some implementations are strict about the tag, so the
// [Verifier] first tries the hash exactly as stored and, on failure, once more
// with the tag rewritten to $2b$.  [Encode] always keeps the stored tag.
//
// This retry is a compatibility shim, not a cryptographic claim.  $2x$ hashes
// were produced by code that sign-extended password bytes >= 0x80 (0xFF being
// the classic example), so for such passwords $2x$ and $2b$ disagree and the
// normalised attempt is unsound.  [Blowfish] refuses to compute $2x$ for those
// passwords and the verifier reports [ErrUnsupportedScheme] unless the
// canonical retry matches.  Set [Options].StrictSchemes to disable the retry.
//
// # Input limits
//
// bcrypt reads at most 72 bytes of password ([MaxPasswordLen]).  Longer
// candidates are accepted up to [Options].MaxInputLen and silently truncated,
// so two passwords sharing their first 72 bytes verify against each other's
// hash.  Stored hashes whose cost exceeds [Options].MaxCost are rejected
// before any hashing work, which bounds the CPU a hostile hash can consume.
//
// # Results and errors
//
// A wrong password is [ResultNoMatch] with a nil error.  Every failure kind
// has its own result and sentinel: [ErrMalformedHash], [ErrInvalidInput],
// [ErrUnsupportedScheme].  No error message includes the candidate.
package hashing
