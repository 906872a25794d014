package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"todo_list/internal/models"
	"todo_list/internal/repository"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
	MaxTitleLength   = 100
)

type TaskService struct {
	tasks repository.Tasks
}

func NewTaskService(tasks repository.Tasks) *TaskService {
	return &TaskService{tasks: tasks}
}

// List returns a page of the caller's tasks. A limit above MaxPageLimit is clamped.
func (s *TaskService) List(ctx context.Context, userID int64, page models.Page) ([]models.Task, error) {
	if page.Skip < 0 {
		return nil, invalid("skip", "must be greater than or equal to 0")
	}
	if page.Limit < 0 {
		return nil, invalid("limit", "must be greater than or equal to 0")
	}
	if page.Limit > MaxPageLimit {
		page.Limit = MaxPageLimit
	}
	if page.Limit == 0 {
		return []models.Task{}, nil
	}

	tasks, err := s.tasks.List(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID, taskID int64) (models.Task, error) {
	t, err := s.tasks.Get(ctx, userID, taskID)
	if err != nil {
		return models.Task{}, notFound(err)
	}
	return t, nil
}

func (s *TaskService) Create(ctx context.Context, userID int64, in models.TaskCreate) (models.Task, error) {
	if err := validateTitle(in.Title); err != nil {
		return models.Task{}, err
	}
	return s.tasks.Create(ctx, userID, in)
}

// Update applies the fields present in patch to the caller's task.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, patch models.TaskPatch) (models.Task, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return models.Task{}, err
		}
	}
	t, err := s.tasks.Update(ctx, userID, taskID, patch)
	if err != nil {
		return models.Task{}, notFound(err)
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	return notFound(s.tasks.Delete(ctx, userID, taskID))
}

func validateTitle(title string) error {
	n := utf8.RuneCountInString(title)
	if n < 1 {
		return invalid("title", "must not be empty")
	}
	if n > MaxTitleLength {
		return invalid("title", fmt.Sprintf("must be at most %d characters", MaxTitleLength))
	}
	return nil
}

// notFound swaps the repository sentinel for the service one and passes
// everything else through.
func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
