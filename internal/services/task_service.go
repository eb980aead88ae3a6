package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"aimpact-messaging/internal/domain/task"
	"aimpact-messaging/internal/repository"
	messaging_errors "aimpact-messaging/pkg/errors"
	"aimpact-messaging/pkg/logger"
)

type TaskService struct {
	repo   repository.TaskRepository
	users  *UserService
	logger *logger.Logger
}

func NewTaskService(repo repository.TaskRepository, users *UserService, l *logger.Logger) *TaskService {
	return &TaskService{repo: repo, users: users, logger: l}
}

type CreateTaskInput struct {
	Title       string
	Description string
	AssigneeID  uuid.UUID
	DueDate     *time.Time
	Priority    string
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput) (TaskView, error) {
	if strings.TrimSpace(in.Title) == "" {
		return TaskView{}, messaging_errors.ErrInvalidInput
	}
	if _, err := s.users.GetUser(ctx, in.AssigneeID); err != nil {
		return TaskView{}, err
	}

	t := task.Task{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		AssigneeID:  in.AssigneeID,
		Priority:    in.Priority,
		CreatedAt:   time.Now(),
	}
	if in.DueDate != nil {
		t.DueDate = sql.NullTime{Time: *in.DueDate, Valid: true}
	}

	if err := s.repo.Create(ctx, &t); err != nil {
		return TaskView{}, err
	}
	return taskToView(t), nil
}

// GetForUser lists the user's tasks, newest first. Unknown assignees get
// an empty list.
func (s *TaskService) GetForUser(ctx context.Context, assigneeID uuid.UUID) ([]TaskView, error) {
	if _, err := s.users.GetUser(ctx, assigneeID); err != nil {
		if errors.Is(err, messaging_errors.ErrNotFound) {
			return []TaskView{}, nil
		}
		return nil, err
	}

	tasks, err := s.repo.GetForAssignee(ctx, assigneeID)
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, taskToView(t))
	}
	return views, nil
}

func (s *TaskService) Complete(ctx context.Context, taskID uuid.UUID) (TaskView, error) {
	if err := s.repo.MarkCompleted(ctx, taskID); err != nil {
		return TaskView{}, err
	}
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return TaskView{}, err
	}
	return taskToView(t), nil
}
