package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/repository"
)

// MockTaskAuditRepository is a func-field mock of ITaskAuditRepository.
type MockTaskAuditRepository struct {
	CreateFunc      func(ctx context.Context, audit *entity.TaskAudit) error
	GetByTaskIDFunc func(ctx context.Context, taskID int64) ([]entity.TaskAudit, error)
}

var _ repository.ITaskAuditRepository = (*MockTaskAuditRepository)(nil)

func (m *MockTaskAuditRepository) Create(ctx context.Context, audit *entity.TaskAudit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, audit)
	}
	return nil
}

func (m *MockTaskAuditRepository) GetByTaskID(ctx context.Context, taskID int64) ([]entity.TaskAudit, error) {
	if m.GetByTaskIDFunc != nil {
		return m.GetByTaskIDFunc(ctx, taskID)
	}
	return []entity.TaskAudit{}, nil
}

func TestGetTaskHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rows even after the task is gone", func(t *testing.T) {
		auditRepo := &MockTaskAuditRepository{
			GetByTaskIDFunc: func(ctx context.Context, taskID int64) ([]entity.TaskAudit, error) {
				return []entity.TaskAudit{
					{ID: 2, EntityID: taskID, Action: entity.ActionDelete},
					{ID: 1, EntityID: taskID, Action: entity.ActionCreate},
				}, nil
			},
		}
		taskRepo := &MockTaskRepository{
			FindByIDFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
				t.Fatal("FindByID must not be called when history exists")
				return nil, nil
			},
		}

		audits, err := NewTaskAuditService(taskRepo, auditRepo).GetTaskHistory(ctx, 7)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(audits) != 2 || audits[0].Action != entity.ActionDelete {
			t.Fatalf("Unexpected audits %+v", audits)
		}
	})

	t.Run("empty history of an existing task", func(t *testing.T) {
		taskRepo := &MockTaskRepository{
			FindByIDFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
				return &entity.Task{ID: id, Title: "Quiet"}, nil
			},
		}

		audits, err := NewTaskAuditService(taskRepo, &MockTaskAuditRepository{}).GetTaskHistory(ctx, 3)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if audits == nil || len(audits) != 0 {
			t.Fatalf("Expected empty slice, got %#v", audits)
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := NewTaskAuditService(&MockTaskRepository{}, &MockTaskAuditRepository{}).GetTaskHistory(ctx, 99)
		if !errors.Is(err, entity.ErrTaskNotFound) {
			t.Fatalf("Expected ErrTaskNotFound, got %v", err)
		}
	})

	t.Run("store error", func(t *testing.T) {
		storeErr := errors.New("db down")
		auditRepo := &MockTaskAuditRepository{
			GetByTaskIDFunc: func(ctx context.Context, taskID int64) ([]entity.TaskAudit, error) {
				return nil, storeErr
			},
		}

		_, err := NewTaskAuditService(&MockTaskRepository{}, auditRepo).GetTaskHistory(ctx, 1)
		if !errors.Is(err, storeErr) {
			t.Fatalf("Expected store error, got %v", err)
		}
	})
}
