package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"todo_list/internal/models"
	"todo_list/internal/repository"
	"todo_list/internal/security/password"
)

// SignUpInput is a registration request after transport decoding.
type SignUpInput struct {
	Username string
	Email    string
	Password string
}

// AccessToken is a freshly issued bearer token.
type AccessToken struct {
	Token     string
	ExpiresIn time.Duration
}

// AuthService handles user auth logic
type AuthService struct {
	users  repository.Users
	hasher PasswordHasher
	tokens TokenIssuer
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users repository.Users, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

// SignUp validates the input, hashes the password and stores an active user.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (models.User, error) {
	username := normalizeUsername(in.Username)
	if username == "" {
		return models.User{}, invalid("username", "must not be empty")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return models.User{}, invalid("email", "must not be empty")
	}

	if err := s.hasher.Validate(in.Password); err != nil {
		return models.User{}, passwordPolicyError(err)
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	})
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return models.User{}, ErrUsernameTaken
	case errors.Is(err, repository.ErrEmailTaken):
		return models.User{}, ErrEmailTaken
	case err != nil:
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func passwordPolicyError(err error) error {
	switch {
	case errors.Is(err, password.ErrPasswordTooShort):
		return invalid("password", fmt.Sprintf("must be at least %d characters", password.DefaultMinLength))
	case errors.Is(err, password.ErrPasswordTooLong):
		return invalid("password", fmt.Sprintf("must be at most %d bytes", password.DefaultMaxLength))
	}
	return invalid("password", err.Error())
}

// normalizeUsername is applied on both sign-up and login so stored and
// looked-up names always agree.
func normalizeUsername(s string) string {
	return strings.TrimSpace(s)
}

// GenerateToken checks the credentials and issues a token. Every failure
// caused by the input is ErrInvalidCredentials.
func (s *AuthService) GenerateToken(ctx context.Context, username, plain string) (AccessToken, error) {
	u, err := s.users.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		return AccessToken{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		// keep the response time of unknown users close to that of real ones
		_, _ = s.hasher.Verify(plain, s.dummyDigest())
		return AccessToken{}, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(plain, u.PasswordHash)
	if err != nil {
		return AccessToken{}, fmt.Errorf("verify password of user %d: %w", u.ID, err)
	}
	if !ok || !u.IsActive {
		return AccessToken{}, ErrInvalidCredentials
	}

	raw, err := s.tokens.Issue(u.ID)
	if err != nil {
		return AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	return AccessToken{Token: raw, ExpiresIn: s.tokens.TTL()}, nil
}

func (s *AuthService) dummyDigest() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}

// ParseToken parses the token and returns the user id it was issued for.
func (s *AuthService) ParseToken(accessToken string) (int64, error) {
	id, err := s.tokens.Verify(accessToken)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// ResolveUser returns the active user a token belongs to. A deleted or
// deactivated user looks exactly like a bad token.
func (s *AuthService) ResolveUser(ctx context.Context, accessToken string) (models.User, error) {
	id, err := s.ParseToken(accessToken)
	if err != nil {
		return models.User{}, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("lookup user %d: %w", id, err)
	}
	if u == nil || !u.IsActive {
		return models.User{}, ErrInvalidToken
	}
	return *u, nil
}
