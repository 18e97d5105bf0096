package hashing_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/hasbyte1/go-bcrypt-compat/hashing"
)

// sampleHash is a PHP-style $2y$ hash.
const sampleHash = "$2y$12$SG1rKbACXCE9cA8g9hBTeO/pQm.OaKPnuuQNPCL5hchYxP.r9v2Kq"

func testParams(s hashing.Scheme, cost int) hashing.HashParameters {
	p := hashing.HashParameters{Scheme: s, Cost: cost}
	for i := range p.Salt {
		p.Salt[i] = byte(i * 17)
	}
	for i := range p.Digest {
		p.Digest[i] = byte(255 - i*11)
	}
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Decode
// ──────────────────────────────────────────────────────────────────────────────

func TestDecode_SampleHash(t *testing.T) {
	p, err := hashing.Decode(sampleHash)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Scheme != hashing.Scheme2y {
		t.Errorf("Scheme = %q, want %q", p.Scheme, hashing.Scheme2y)
	}
	if p.Cost != 12 {
		t.Errorf("Cost = %d, want 12", p.Cost)
	}

	got, err := hashing.Encode(p)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got != sampleHash {
		t.Errorf("Encode(Decode(s)) = %q, want %q", got, sampleHash)
	}
}

func TestDecode_Malformed(t *testing.T) {
	salt := sampleHash[7:29]
	digest := sampleHash[29:]

	cases := map[string]string{
		"empty":                  "",
		"no leading dollar":      sampleHash[1:],
		"header only":            "$2y$12$",
		"short header":           "$2y$1",
		"unknown tag":            "$2c$12$" + salt + digest,
		"bare major version":     "$2$12$" + salt + digest,
		"argon2 hash":            "$argon2id$v=19$m=65536,t=3,p=2$abc$def",
		"one-digit cost":         "$2y$4$" + salt + digest + ".",
		"non-digit cost":         "$2y$1a$" + salt + digest,
		"cost below range":       "$2y$03$" + salt + digest,
		"cost above range":       "$2y$32$" + salt + digest,
		"truncated by one":       sampleHash[:len(sampleHash)-1],
		"one character too long": sampleHash + "a",
		"invalid salt char":      sampleHash[:10] + "!" + sampleHash[11:],
		"invalid digest char":    sampleHash[:40] + "+" + sampleHash[41:],
		"embedded newline":       sampleHash[:20] + "\n" + sampleHash[21:],
		"non-ascii payload":      sampleHash[:30] + "é" + sampleHash[32:],
		"salt trailing bits set": sampleHash[:28] + "P" + sampleHash[29:],
		"digest trailing bits":   sampleHash[:59] + "r",
		"missing cost separator": "$2y$12" + salt + digest + ".",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := hashing.Decode(in)
			if !errors.Is(err, hashing.ErrMalformedHash) {
				t.Errorf("Decode(%q): expected ErrMalformedHash, got %v", in, err)
			}
		})
	}
}

func TestDecode_AcceptsEveryKnownTag(t *testing.T) {
	for _, s := range []hashing.Scheme{hashing.Scheme2a, hashing.Scheme2b, hashing.Scheme2x, hashing.Scheme2y} {
		in := "$" + string(s) + sampleHash[3:]
		p, err := hashing.Decode(in)
		if err != nil {
			t.Errorf("%s: %v", s, err)
			continue
		}
		if p.Scheme != s {
			t.Errorf("%s: Scheme = %q", s, p.Scheme)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Encode
// ──────────────────────────────────────────────────────────────────────────────

func TestEncode_RoundTrip(t *testing.T) {
	for _, s := range []hashing.Scheme{hashing.Scheme2a, hashing.Scheme2b, hashing.Scheme2x, hashing.Scheme2y} {
		for _, cost := range []int{4, 9, 10, 12, 31} {
			p := testParams(s, cost)
			text, err := hashing.Encode(p)
			if err != nil {
				t.Fatalf("Encode(%s, %d): %v", s, cost, err)
			}
			if len(text) != 60 {
				t.Errorf("Encode(%s, %d): length %d, want 60", s, cost, len(text))
			}
			got, err := hashing.Decode(text)
			if err != nil {
				t.Fatalf("Decode(%q): %v", text, err)
			}
			if got != p {
				t.Errorf("round trip mismatch for %s cost %d:\n got %+v\nwant %+v", s, cost, got, p)
			}
		}
	}
}

func TestEncode_ZeroPadsCost(t *testing.T) {
	text, err := hashing.Encode(testParams(hashing.Scheme2b, 5))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(text, "$2b$05$") {
		t.Errorf("got prefix %q, want $2b$05$", text[:7])
	}
}

func TestEncode_InvalidParameters(t *testing.T) {
	cases := []hashing.HashParameters{
		testParams("", 10),
		testParams("2c", 10),
		testParams(hashing.Scheme2b, 3),
		testParams(hashing.Scheme2b, 32),
		testParams(hashing.Scheme2b, -1),
	}
	for _, p := range cases {
		_, err := hashing.Encode(p)
		if !errors.Is(err, hashing.ErrInvalidParameters) {
			t.Errorf("Encode(%q, %d): expected ErrInvalidParameters, got %v", p.Scheme, p.Cost, err)
		}
	}
}

func TestWithScheme_PreservesEverythingElse(t *testing.T) {
	p := testParams(hashing.Scheme2y, 10)
	q := p.WithScheme(hashing.Scheme2b)
	if q.Scheme != hashing.Scheme2b {
		t.Errorf("Scheme = %q, want 2b", q.Scheme)
	}
	if p.Scheme != hashing.Scheme2y {
		t.Error("WithScheme modified the receiver")
	}
	if q.Cost != p.Cost || q.Salt != p.Salt || q.Digest != p.Digest {
		t.Error("WithScheme changed cost, salt or digest")
	}

	a, _ := hashing.Encode(p)
	b, _ := hashing.Encode(q)
	if a[7:] != b[7:] {
		t.Errorf("payloads differ after tag rewrite:\n%s\n%s", a, b)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Scheme
// ──────────────────────────────────────────────────────────────────────────────

func TestScheme_Properties(t *testing.T) {
	cases := []struct {
		s         hashing.Scheme
		valid     bool
		legacy    bool
		canonical hashing.Scheme
	}{
		{hashing.Scheme2a, true, true, hashing.Scheme2b},
		{hashing.Scheme2b, true, false, hashing.Scheme2b},
		{hashing.Scheme2x, true, true, hashing.Scheme2b},
		{hashing.Scheme2y, true, true, hashing.Scheme2b},
		{"2c", false, false, "2c"},
		{"", false, false, ""},
	}
	for _, tc := range cases {
		if got := tc.s.Valid(); got != tc.valid {
			t.Errorf("%q.Valid() = %v, want %v", tc.s, got, tc.valid)
		}
		if got := tc.s.IsLegacy(); got != tc.legacy {
			t.Errorf("%q.IsLegacy() = %v, want %v", tc.s, got, tc.legacy)
		}
		if got := tc.s.Canonical(); got != tc.canonical {
			t.Errorf("%q.Canonical() = %q, want %q", tc.s, got, tc.canonical)
		}
	}
}

func TestDetectScheme(t *testing.T) {
	cases := []struct {
		hash string
		want hashing.Scheme
		ok   bool
	}{
		{"$2a$10$whatever", hashing.Scheme2a, true},
		{"$2b$10$whatever", hashing.Scheme2b, true},
		{"$2x$10$whatever", hashing.Scheme2x, true},
		{sampleHash, hashing.Scheme2y, true},
		{"$2$10$whatever", "", false},
		{"$argon2id$v=19$m=65536,t=3,p=2$abc$def", "", false},
		{"plaintext", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := hashing.DetectScheme(tc.hash)
		if got != tc.want || ok != tc.ok {
			t.Errorf("DetectScheme(%q) = (%q, %v), want (%q, %v)", tc.hash, got, ok, tc.want, tc.ok)
		}
	}
}
