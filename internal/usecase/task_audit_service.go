package usecase

import (
	"context"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/repository"
)

// TaskAuditService reads the history written by the audit worker.
type TaskAuditService struct {
	taskRepo  repository.ITaskRepository
	auditRepo repository.ITaskAuditRepository
}

func NewTaskAuditService(taskRepo repository.ITaskRepository, auditRepo repository.ITaskAuditRepository) *TaskAuditService {
	return &TaskAuditService{
		taskRepo:  taskRepo,
		auditRepo: auditRepo,
	}
}

// GetTaskHistory returns the audit rows of a task, newest first.
// History outlives the task, so NotFound is reported only when neither exists.
func (s *TaskAuditService) GetTaskHistory(ctx context.Context, taskID int64) ([]entity.TaskAudit, error) {
	audits, err := s.auditRepo.GetByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(audits) > 0 {
		return audits, nil
	}

	if _, err := findOrFail(ctx, s.taskRepo, taskID); err != nil {
		return nil, err
	}
	return audits, nil
}
