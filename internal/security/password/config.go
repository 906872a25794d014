package password

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Supported algorithm names.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

// Length policy defaults. bcrypt only looks at the first 72 bytes, so the cap
// keeps both algorithms consistent.
const (
	DefaultMinLength = 8
	DefaultMaxLength = 72
)

// Argon2idParams controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Config is the single configuration surface for this package.
type Config struct {
	Algorithm  string
	Argon2id   Argon2idParams
	BcryptCost int
	MinLength  int
	MaxLength  int
}

// DefaultConfig follows the OWASP baseline for interactive logins
// (19 MiB, 2 iterations, 1 lane).
func DefaultConfig() Config {
	return Config{
		Algorithm: AlgorithmArgon2id,
		Argon2id: Argon2idParams{
			MemoryKiB:   19 * 1024,
			Iterations:  2,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
		BcryptCost: bcrypt.DefaultCost,
		MinLength:  DefaultMinLength,
		MaxLength:  DefaultMaxLength,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	c.Algorithm = strings.ToLower(strings.TrimSpace(c.Algorithm))
	if c.Algorithm == "" {
		c.Algorithm = def.Algorithm
	}
	if c.Argon2id.MemoryKiB == 0 {
		c.Argon2id.MemoryKiB = def.Argon2id.MemoryKiB
	}
	if c.Argon2id.Iterations == 0 {
		c.Argon2id.Iterations = def.Argon2id.Iterations
	}
	if c.Argon2id.Parallelism == 0 {
		c.Argon2id.Parallelism = def.Argon2id.Parallelism
	}
	if c.Argon2id.SaltLength == 0 {
		c.Argon2id.SaltLength = def.Argon2id.SaltLength
	}
	if c.Argon2id.KeyLength == 0 {
		c.Argon2id.KeyLength = def.Argon2id.KeyLength
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = def.BcryptCost
	}
	if c.MinLength <= 0 {
		c.MinLength = def.MinLength
	}
	if c.MaxLength <= 0 {
		c.MaxLength = def.MaxLength
	}
	return c
}

func (c Config) validate() error {
	switch c.Algorithm {
	case AlgorithmArgon2id, AlgorithmBcrypt:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Algorithm)
	}
	if c.Argon2id.MemoryKiB < 8*uint32(c.Argon2id.Parallelism) {
		return fmt.Errorf("argon2id memory must be at least 8 KiB per lane, got %d KiB", c.Argon2id.MemoryKiB)
	}
	if c.Argon2id.SaltLength < 8 || c.Argon2id.SaltLength > 64 {
		return fmt.Errorf("argon2id salt length must be within [8, 64], got %d", c.Argon2id.SaltLength)
	}
	if c.Argon2id.KeyLength < 16 || c.Argon2id.KeyLength > 128 {
		return fmt.Errorf("argon2id key length must be within [16, 128], got %d", c.Argon2id.KeyLength)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be within [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, c.BcryptCost)
	}
	if c.MinLength > c.MaxLength {
		return fmt.Errorf("password min length %d exceeds max length %d", c.MinLength, c.MaxLength)
	}
	return nil
}
