package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type bcryptScheme struct {
	cost int
}

func (s bcryptScheme) name() string { return AlgorithmBcrypt }

func (s bcryptScheme) matches(digest string) bool {
	return strings.HasPrefix(digest, "$2a$") ||
		strings.HasPrefix(digest, "$2b$") ||
		strings.HasPrefix(digest, "$2y$")
}

func (s bcryptScheme) hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(h), nil
}

func (s bcryptScheme) verify(plain, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}
