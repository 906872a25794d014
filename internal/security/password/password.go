package password

import (
	"fmt"
	"unicode/utf8"
)

// scheme is one hashing algorithm.
type scheme interface {
	name() string
	matches(digest string) bool
	hash(plain string) (string, error)
	verify(plain, digest string) (bool, error)
}

// Hasher hashes with one primary algorithm and verifies digests of any supported one.
type Hasher struct {
	primary   scheme
	schemes   []scheme
	minLength int
	maxLength int
}

// New builds a Hasher from cfg; zero fields take DefaultConfig values.
func New(cfg Config) (*Hasher, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	argon := argon2idScheme{params: cfg.Argon2id}
	bc := bcryptScheme{cost: cfg.BcryptCost}

	h := &Hasher{
		schemes:   []scheme{argon, bc},
		minLength: cfg.MinLength,
		maxLength: cfg.MaxLength,
	}
	if cfg.Algorithm == AlgorithmBcrypt {
		h.primary = bc
	} else {
		h.primary = argon
	}
	return h, nil
}

// Algorithm returns the name of the algorithm new digests are produced with.
func (h *Hasher) Algorithm() string { return h.primary.name() }

// Validate checks plain against the length policy. Length is counted in
// characters for the lower bound and in bytes for the upper bound.
func (h *Hasher) Validate(plain string) error {
	if utf8.RuneCountInString(plain) < h.minLength {
		return ErrPasswordTooShort
	}
	if len(plain) > h.maxLength {
		return ErrPasswordTooLong
	}
	return nil
}

// Hash returns a salted one-way digest of plain.
func (h *Hasher) Hash(plain string) (string, error) {
	if err := h.Validate(plain); err != nil {
		return "", err
	}
	digest, err := h.primary.hash(plain)
	if err != nil {
		return "", fmt.Errorf("hash password (%s): %w", h.primary.name(), err)
	}
	return digest, nil
}

// Verify reports whether plain matches digest. A mismatch is (false, nil);
// a digest no scheme recognises is (false, ErrInvalidHash).
func (h *Hasher) Verify(plain, digest string) (bool, error) {
	for _, s := range h.schemes {
		if s.matches(digest) {
			return s.verify(plain, digest)
		}
	}
	return false, ErrInvalidHash
}
