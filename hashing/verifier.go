package hashing

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultMaxCost is the highest stored cost a default [Verifier] will
	// compute.  Cost 16 takes a few seconds on a modern server CPU; anything
	// higher in storage is more likely an attack than a real hash.
	DefaultMaxCost = 16

	// DefaultMaxInputLen is the sanity limit for candidates and stored hashes.
	// It sits well above [MaxPasswordLen] and exists to catch binary blobs
	// passed by mistake, not to enforce the bcrypt cap.
	DefaultMaxInputLen = 4096
)

// Result is the outcome of a verification.
type Result int

const (
	// ResultUnknown is returned only together with an error that is none of
	// the package sentinels, e.g. a cancelled context in [Verifier.VerifyContext].
	ResultUnknown Result = iota
	// ResultMatch means the candidate produced the stored digest.
	ResultMatch
	// ResultNoMatch means the candidate is wrong.  It is never an error.
	ResultNoMatch
	// ResultMalformedHash pairs with [ErrMalformedHash].
	ResultMalformedHash
	// ResultInvalidInput pairs with [ErrInvalidInput].
	ResultInvalidInput
	// ResultUnsupportedScheme pairs with [ErrUnsupportedScheme].
	ResultUnsupportedScheme
)

var resultNames = [...]string{
	ResultUnknown:           "unknown",
	ResultMatch:             "match",
	ResultNoMatch:           "no match",
	ResultMalformedHash:     "malformed hash",
	ResultInvalidInput:      "invalid input",
	ResultUnsupportedScheme: "unsupported scheme",
}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return fmt.Sprintf("Result(%d)", int(r))
	}
	return resultNames[r]
}

// Options configures a [Verifier].
type Options struct {
	// MaxCost is the highest stored cost the verifier will compute.  Hashes
	// above it are rejected with [ErrInvalidInput] before any hashing work.
	// Valid range: [bcrypt.MinCost (4), bcrypt.MaxCost (31)].
	// Default: [DefaultMaxCost] (16).
	MaxCost int

	// MaxInputLen bounds both the candidate and the stored hash, in bytes.
	// Must be at least [MaxPasswordLen].  Default: [DefaultMaxInputLen].
	MaxInputLen int

	// StrictSchemes disables the canonical-tag retry for $2a$, $2x$ and $2y$
	// hashes.  Only the hash exactly as stored is tried.
	StrictSchemes bool

	// Primitive computes raw digests.  Nil selects [Blowfish].
	Primitive Primitive
}

// DefaultOptions returns Options with [DefaultMaxCost], [DefaultMaxInputLen],
// tag normalisation enabled and the [Blowfish] primitive.
func DefaultOptions() Options {
	return Options{
		MaxCost:     DefaultMaxCost,
		MaxInputLen: DefaultMaxInputLen,
		Primitive:   Blowfish{},
	}
}

// Verifier checks candidate passwords against stored bcrypt hashes.
//
// For each call it decodes the stored hash, recomputes the digest with the
// stored tag, salt and cost, and compares in constant time.  When the stored
// tag is $2a$, $2x$ or $2y$ and the first attempt does not match, it retries
// once with the tag rewritten to $2b$.  See the package documentation for the
// $2x$ caveat.
//
// # Thread safety
//
// Verifier is immutable after construction and safe for concurrent use.
// It caches nothing between calls.
type Verifier struct {
	opts Options
}

// NewVerifier constructs a Verifier with the provided options.
// Returns [ErrInvalidOption] if MaxCost is outside [bcrypt.MinCost,
// bcrypt.MaxCost] or MaxInputLen is below [MaxPasswordLen].
func NewVerifier(opts Options) (*Verifier, error) {
	if opts.MaxCost < bcrypt.MinCost || opts.MaxCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: max cost %d must be in [%d, %d]",
			ErrInvalidOption, opts.MaxCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	if opts.MaxInputLen < MaxPasswordLen {
		return nil, fmt.Errorf("%w: max input length %d must be at least %d",
			ErrInvalidOption, opts.MaxInputLen, MaxPasswordLen)
	}
	if opts.Primitive == nil {
		opts.Primitive = Blowfish{}
	}
	return &Verifier{opts: opts}, nil
}

// Options returns the verifier's configuration.
func (v *Verifier) Options() Options { return v.opts }

// Verify reports whether candidate matches storedHash.
//
// The error is nil for [ResultMatch] and [ResultNoMatch].  Every other result
// comes with an error wrapping the matching sentinel.  A malformed stored
// hash is never reported as a mismatch.
//
// Only the first [MaxPasswordLen] bytes of candidate take part in the
// comparison.
func (v *Verifier) Verify(candidate []byte, storedHash string) (Result, error) {
	if err := v.checkInput(candidate, storedHash); err != nil {
		return ResultInvalidInput, err
	}

	p, err := Decode(storedHash)
	if err != nil {
		return ResultMalformedHash, err
	}
	if p.Cost > v.opts.MaxCost {
		return ResultInvalidInput, fmt.Errorf("%w: stored cost %d exceeds limit %d",
			ErrInvalidInput, p.Cost, v.opts.MaxCost)
	}

	ok, firstErr := v.attempt(p, candidate)
	if ok {
		return ResultMatch, nil
	}

	if p.Scheme.IsLegacy() && !v.opts.StrictSchemes {
		// The retry's own error is dropped: when the stored tag computed, its
		// no-match stands; when it did not, firstErr is reported below.
		if ok, _ := v.attempt(p.WithScheme(p.Scheme.Canonical()), candidate); ok {
			return ResultMatch, nil
		}
	}

	if firstErr != nil {
		return ResultUnsupportedScheme, firstErr
	}
	return ResultNoMatch, nil
}

// VerifyString is [Verifier.Verify] for text candidates.  The candidate must
// be valid UTF-8.
func (v *Verifier) VerifyString(candidate, storedHash string) (Result, error) {
	if !utf8.ValidString(candidate) {
		return ResultInvalidInput, fmt.Errorf("%w: candidate is not valid UTF-8", ErrInvalidInput)
	}
	return v.Verify([]byte(candidate), storedHash)
}

// VerifyContext runs [Verifier.Verify] on a separate goroutine and returns
// ctx.Err() with [ResultUnknown] if ctx ends first.
//
// The hash computation has no cancellation points: an abandoned computation
// keeps running until it finishes, and its result is discarded.
func (v *Verifier) VerifyContext(ctx context.Context, candidate []byte, storedHash string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return ResultUnknown, err
	}

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	pw := bytes.Clone(candidate)
	go func() {
		res, err := v.Verify(pw, storedHash)
		done <- outcome{res, err}
	}()

	select {
	case o := <-done:
		return o.res, o.err
	case <-ctx.Done():
		return ResultUnknown, ctx.Err()
	}
}

// Check verifies password against hash.
// Returns (true, nil) on match, (false, nil) on mismatch, or (false, err) if
// the inputs or the hash are invalid.
func (v *Verifier) Check(password, hash string) (bool, error) {
	res, err := v.VerifyString(password, hash)
	return res == ResultMatch, err
}

func (v *Verifier) checkInput(candidate []byte, storedHash string) error {
	switch {
	case len(candidate) == 0:
		return fmt.Errorf("%w: empty candidate", ErrInvalidInput)
	case len(candidate) > v.opts.MaxInputLen:
		return fmt.Errorf("%w: candidate is %d bytes, limit is %d",
			ErrInvalidInput, len(candidate), v.opts.MaxInputLen)
	case storedHash == "":
		return fmt.Errorf("%w: empty stored hash", ErrInvalidInput)
	case len(storedHash) > v.opts.MaxInputLen:
		return fmt.Errorf("%w: stored hash is %d bytes, limit is %d",
			ErrInvalidInput, len(storedHash), v.opts.MaxInputLen)
	}
	return nil
}

// attempt recomputes the digest under p and compares it with p.Digest.
// Primitive failures are reported as ErrUnsupportedScheme.
func (v *Verifier) attempt(p HashParameters, candidate []byte) (bool, error) {
	digest, err := v.opts.Primitive.Digest(p.Scheme, candidate, p.Salt, p.Cost)
	if err != nil {
		if !errors.Is(err, ErrUnsupportedScheme) {
			err = fmt.Errorf("%w: $%s$: %w", ErrUnsupportedScheme, p.Scheme, err)
		}
		return false, err
	}
	return digestsEqual(digest[:], p.Digest[:]), nil
}

// digestsEqual compares in time that depends only on the lengths.
func digestsEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
