package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// fastConfig keeps argon2/bcrypt cheap enough for unit tests.
func fastConfig(algorithm string) Config {
	return Config{
		Algorithm: algorithm,
		Argon2id: Argon2idParams{
			MemoryKiB:   1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
		BcryptCost: bcrypt.MinCost,
	}
}

func mustHasher(t *testing.T, cfg Config) *Hasher {
	t.Helper()
	h, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return h
}

func TestHashAndVerify_OK(t *testing.T) {
	for _, alg := range []string{AlgorithmArgon2id, AlgorithmBcrypt} {
		t.Run(alg, func(t *testing.T) {
			h := mustHasher(t, fastConfig(alg))

			digest, err := h.Hash("password123")
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			if strings.Contains(digest, "password123") {
				t.Fatalf("digest leaks plaintext: %s", digest)
			}

			ok, err := h.Verify("password123", digest)
			if err != nil {
				t.Fatalf("Verify error: %v", err)
			}
			if !ok {
				t.Fatalf("expected match")
			}

			ok, err = h.Verify("password124", digest)
			if err != nil {
				t.Fatalf("Verify error: %v", err)
			}
			if ok {
				t.Fatalf("expected mismatch")
			}
		})
	}
}

func TestHash_IsSalted(t *testing.T) {
	h := mustHasher(t, fastConfig(AlgorithmArgon2id))

	a, err := h.Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash("same password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatalf("expected different digests for the same password")
	}
}

func TestHash_Argon2idFormat(t *testing.T) {
	h := mustHasher(t, fastConfig(AlgorithmArgon2id))

	digest, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(digest, "$argon2id$v=19$m=1024,t=1,p=1$") {
		t.Fatalf("unexpected digest format: %s", digest)
	}
	if h.Algorithm() != AlgorithmArgon2id {
		t.Fatalf("Algorithm() = %q", h.Algorithm())
	}
}

func TestVerify_AcceptsDigestsOfTheOtherAlgorithm(t *testing.T) {
	bc := mustHasher(t, fastConfig(AlgorithmBcrypt))
	argon := mustHasher(t, fastConfig(AlgorithmArgon2id))

	legacy, err := bc.Hash("password123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	ok, err := argon.Verify("password123", legacy)
	if err != nil || !ok {
		t.Fatalf("argon2id hasher should verify bcrypt digest: ok=%v err=%v", ok, err)
	}
}

func TestValidate_MinMax(t *testing.T) {
	h := mustHasher(t, fastConfig(AlgorithmArgon2id))

	if _, err := h.Hash("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
	if _, err := h.Hash(strings.Repeat("x", DefaultMaxLength+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	// multi-byte characters count once toward the minimum
	if err := h.Validate("ééééééééé"); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
}

func TestVerify_InvalidHash(t *testing.T) {
	h := mustHasher(t, fastConfig(AlgorithmArgon2id))

	cases := []string{
		"",
		"not-a-hash",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5aw",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdHNhbHQ$a2V5a2V5a2V5a2V5a2V5aw",
		"$argon2id$v=19$m=1024,t=1,p=1$!!!$a2V5a2V5a2V5a2V5a2V5aw",
		"$2a$04$tooshort",
	}
	for _, digest := range cases {
		ok, err := h.Verify("whatever", digest)
		if ok || !errors.Is(err, ErrInvalidHash) {
			t.Fatalf("Verify(%q) = %v, %v; want false, ErrInvalidHash", digest, ok, err)
		}
	}
}

func TestVerify_RejectsOversizedParams(t *testing.T) {
	strong := mustHasher(t, Config{
		Algorithm: AlgorithmArgon2id,
		Argon2id:  Argon2idParams{MemoryKiB: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
	})
	weak := mustHasher(t, fastConfig(AlgorithmArgon2id))

	digest, err := strong.Hash("password123")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if _, err := weak.Verify("password123", digest); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash for params above limits, got %v", err)
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"unknown algorithm", Config{Algorithm: "md5"}},
		{"bcrypt cost too high", Config{BcryptCost: bcrypt.MaxCost + 1}},
		{"min above max", Config{MinLength: 20, MaxLength: 10}},
		{"salt too short", Config{Argon2id: Argon2idParams{SaltLength: 4}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.cfg); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	h, err := New(Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if h.Algorithm() != AlgorithmArgon2id {
		t.Fatalf("default algorithm = %q", h.Algorithm())
	}
	if h.minLength != DefaultMinLength || h.maxLength != DefaultMaxLength {
		t.Fatalf("unexpected policy: min=%d max=%d", h.minLength, h.maxLength)
	}
}
