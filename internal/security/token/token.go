package token

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

const (
	// MinSecretLength is the minimum HS256 key size in bytes.
	MinSecretLength = 32

	// DefaultTTL is used when Config.TTL is zero.
	DefaultTTL = 30 * time.Minute
)

// Config is the startup configuration of a Manager.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Issuer string // optional; checked on verify when set
}

// Manager signs and verifies access tokens with a single process-wide secret.
type Manager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewManager validates cfg and returns a ready Manager. The secret is copied.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrSecretTooShort, MinSecretLength, len(cfg.Secret))
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if ttl < 0 {
		return nil, ErrInvalidTTL
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Manager{
		secret: secret,
		ttl:    ttl,
		issuer: cfg.Issuer,
		now:    time.Now,
	}, nil
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue returns a signed token for the given user id, valid for TTL from now.
func (m *Manager) Issue(subject int64) (string, error) {
	now := m.now().UTC()

	jti, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subject, 10),
		Issuer:    m.issuer,
		ID:        jti.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, expiry and issuer and returns the subject.
// Every failure wraps ErrInvalidToken.
func (m *Manager) Verify(raw string) (int64, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return 0, ErrInvalidToken
	}

	if claims.Subject == "" {
		return 0, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}
	return id, nil
}
