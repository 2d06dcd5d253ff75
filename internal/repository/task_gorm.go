package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/St1cky1/task-manager/internal/entity"
	"gorm.io/gorm"
)

const createdAtDesc = "created_at DESC, id DESC"

// GormTaskRepository stores tasks through gorm; the sqlite driver backs local runs and tests.
type GormTaskRepository struct {
	db   *gorm.DB
	inTx bool
}

func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) WithinTransaction(ctx context.Context, fn func(repo ITaskRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormTaskRepository{db: tx, inTx: true})
	})
}

func (r *GormTaskRepository) Save(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	saved := *task
	if saved.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&saved).Error; err != nil {
			return nil, fmt.Errorf("failed to create task: %w", err)
		}
		return &saved, nil
	}

	result := r.db.WithContext(ctx).
		Model(&entity.Task{ID: saved.ID}).
		Select("title", "description", "status", "priority", "completed_at").
		Updates(&saved)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, entity.NewTaskNotFoundError(saved.ID)
	}

	return r.mustFind(ctx, saved.ID)
}

func (r *GormTaskRepository) mustFind(ctx context.Context, id int64) (*entity.Task, error) {
	task, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.NewTaskNotFoundError(id)
	}
	return task, nil
}

func (r *GormTaskRepository) FindByID(ctx context.Context, id int64) (*entity.Task, error) {
	var task entity.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

func (r *GormTaskRepository) Delete(ctx context.Context, task *entity.Task) error {
	if err := r.db.WithContext(ctx).Delete(&entity.Task{}, task.ID).Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (r *GormTaskRepository) FindByStatus(ctx context.Context, status entity.TaskStatus) ([]entity.Task, error) {
	return r.find(ctx, "id", "status = ?", status)
}

func (r *GormTaskRepository) FindByPriority(ctx context.Context, priority entity.TaskPriority) ([]entity.Task, error) {
	return r.find(ctx, "id", "priority = ?", priority)
}

func (r *GormTaskRepository) FindAllOrderedByCreatedAtDesc(ctx context.Context) ([]entity.Task, error) {
	return r.find(ctx, createdAtDesc, "")
}

func (r *GormTaskRepository) FindByStatusOrderedByCreatedAtDesc(ctx context.Context, status entity.TaskStatus) ([]entity.Task, error) {
	return r.find(ctx, createdAtDesc, "status = ?", status)
}

func (r *GormTaskRepository) FindByPriorityOrderedByCreatedAtDesc(ctx context.Context, priority entity.TaskPriority) ([]entity.Task, error) {
	return r.find(ctx, createdAtDesc, "priority = ?", priority)
}

func (r *GormTaskRepository) CountByStatus(ctx context.Context, status entity.TaskStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Task{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (r *GormTaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Task{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

func (r *GormTaskRepository) find(ctx context.Context, order string, where string, args ...any) ([]entity.Task, error) {
	query := r.db.WithContext(ctx).Order(order)
	if where != "" {
		query = query.Where(where, args...)
	}

	tasks := make([]entity.Task, 0)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
