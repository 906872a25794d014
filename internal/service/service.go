package service

import (
	"context"
	"time"

	"todo_list/internal/models"
	"todo_list/internal/repository"
)

// PasswordHasher is satisfied by *password.Hasher.
type PasswordHasher interface {
	Validate(plain string) error
	Hash(plain string) (string, error)
	Verify(plain, digest string) (bool, error)
}

// TokenIssuer is satisfied by *token.Manager.
type TokenIssuer interface {
	Issue(subject int64) (string, error)
	Verify(raw string) (int64, error)
	TTL() time.Duration
}

// Authorization covers registration, login and per-request identity resolution.
type Authorization interface {
	SignUp(ctx context.Context, in SignUpInput) (models.User, error)
	GenerateToken(ctx context.Context, username, password string) (AccessToken, error)
	ParseToken(accessToken string) (int64, error)
	// ResolveUser verifies the token and loads its active owner.
	ResolveUser(ctx context.Context, accessToken string) (models.User, error)
}

// Tasks is the ownership-scoped task API. The caller's user id always comes first.
type Tasks interface {
	List(ctx context.Context, userID int64, page models.Page) ([]models.Task, error)
	Get(ctx context.Context, userID, taskID int64) (models.Task, error)
	Create(ctx context.Context, userID int64, in models.TaskCreate) (models.Task, error)
	Update(ctx context.Context, userID, taskID int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Tasks
}

func NewService(repos *repository.Repository, hasher PasswordHasher, tokens TokenIssuer) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, hasher, tokens),
		Tasks:         NewTaskService(repos.Tasks),
	}
}
