package repository

import (
	"context"
	"database/sql"

	"todo_list/internal/models"
	"todo_list/internal/repository/db"
)

// Users is the account store. Lookups return (nil, nil) when no row matches.
type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Tasks is the ownership-scoped task store. The owner id is a mandatory
// argument of every method and is part of every WHERE clause; rows owned by
// someone else are indistinguishable from missing rows (ErrNotFound).
type Tasks interface {
	List(ctx context.Context, userID int64, page models.Page) ([]models.Task, error)
	Get(ctx context.Context, userID, taskID int64) (models.Task, error)
	Create(ctx context.Context, userID int64, in models.TaskCreate) (models.Task, error)
	Update(ctx context.Context, userID, taskID int64, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, userID, taskID int64) error
}

type Repository struct {
	Users Users
	Tasks Tasks
}

func NewRepository(conn *sql.DB, dialect db.Dialect) *Repository {
	return &Repository{
		Users: NewUserRepository(conn, dialect),
		Tasks: NewTaskRepository(conn, dialect),
	}
}
