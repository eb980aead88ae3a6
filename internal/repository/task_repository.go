package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"aimpact-messaging/internal/domain/task"
	messaging_errors "aimpact-messaging/pkg/errors"
)

type PostgresTaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (task.Task, error) {
	var t task.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return task.Task{}, messaging_errors.ErrNotFound
		}
		return task.Task{}, err
	}
	return t, nil
}

func (r *PostgresTaskRepository) GetForAssignee(ctx context.Context, assigneeID uuid.UUID) ([]task.Task, error) {
	var tasks []task.Task
	err := r.db.WithContext(ctx).
		Where("assignee_id = ?", assigneeID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&task.Task{}).
		Where("id = ?", id).
		Update("completed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return messaging_errors.ErrNotFound
	}
	return nil
}
