package repository

import (
	"context"

	"github.com/St1cky1/task-manager/internal/entity"
)

// ITaskRepository is the task store.
// FindByID returns nil, nil when the task does not exist.
type ITaskRepository interface {
	Save(ctx context.Context, task *entity.Task) (*entity.Task, error)
	FindByID(ctx context.Context, id int64) (*entity.Task, error)
	Delete(ctx context.Context, task *entity.Task) error
	FindByStatus(ctx context.Context, status entity.TaskStatus) ([]entity.Task, error)
	FindByPriority(ctx context.Context, priority entity.TaskPriority) ([]entity.Task, error)
	FindAllOrderedByCreatedAtDesc(ctx context.Context) ([]entity.Task, error)
	FindByStatusOrderedByCreatedAtDesc(ctx context.Context, status entity.TaskStatus) ([]entity.Task, error)
	FindByPriorityOrderedByCreatedAtDesc(ctx context.Context, priority entity.TaskPriority) ([]entity.Task, error)
	CountByStatus(ctx context.Context, status entity.TaskStatus) (int64, error)
	Count(ctx context.Context) (int64, error)

	// WithinTransaction runs fn against a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(repo ITaskRepository) error) error
}

// ITaskAuditRepository stores audit rows produced by the audit worker.
type ITaskAuditRepository interface {
	Create(ctx context.Context, audit *entity.TaskAudit) error
	GetByTaskID(ctx context.Context, taskID int64) ([]entity.TaskAudit, error)
}
