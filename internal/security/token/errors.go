package token

import "errors"

var (
	// ErrInvalidToken covers every verification failure: bad signature,
	// malformed payload, missing subject, wrong algorithm, expiry.
	ErrInvalidToken = errors.New("invalid token")

	ErrSecretTooShort = errors.New("token signing secret too short")
	ErrInvalidTTL     = errors.New("token ttl must be positive")
)
