package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditPublisher delivers audit messages, e.g. to RabbitMQ.
type AuditPublisher interface {
	PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error
}

type TaskService struct {
	taskRepo  repository.ITaskRepository
	publisher AuditPublisher
	log       logrus.FieldLogger
}

// NewTaskService wires the service. publisher may be nil to disable auditing.
func NewTaskService(taskRepo repository.ITaskRepository, publisher AuditPublisher, log logrus.FieldLogger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		publisher: publisher,
		log:       log,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, req *entity.CreateTaskRequest) (*entity.Task, error) {
	task := &entity.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
	}
	if task.Status == "" {
		task.Status = entity.StatusPending
	}
	if task.Priority == "" {
		task.Priority = entity.PriorityMedium
	}

	created, err := s.taskRepo.Save(ctx, task)
	if err != nil {
		return nil, err
	}

	s.sendAuditMessage(ctx, entity.ActionCreate, created.ID, nil, created)
	return created, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id int64, req *entity.UpdateTaskRequest) (*entity.Task, error) {
	var oldTask, updated *entity.Task

	err := s.taskRepo.WithinTransaction(ctx, func(repo repository.ITaskRepository) error {
		task, err := findOrFail(ctx, repo, id)
		if err != nil {
			return err
		}
		before := *task
		oldTask = &before

		applyPatch(task, req)

		updated, err = repo.Save(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.sendAuditMessage(ctx, entity.ActionUpdate, id, oldTask, updated)
	return updated, nil
}

// applyPatch overwrites only the fields the patch carries; a blank title is ignored.
func applyPatch(task *entity.Task, req *entity.UpdateTaskRequest) {
	if req.Title != nil && strings.TrimSpace(*req.Title) != "" {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
}

func (s *TaskService) CompleteTask(ctx context.Context, id int64) (*entity.Task, error) {
	return s.transition(ctx, id, entity.ActionComplete, (*entity.Task).Complete)
}

func (s *TaskService) CancelTask(ctx context.Context, id int64) (*entity.Task, error) {
	return s.transition(ctx, id, entity.ActionCancel, (*entity.Task).Cancel)
}

func (s *TaskService) transition(ctx context.Context, id int64, action entity.ActionType, apply func(*entity.Task)) (*entity.Task, error) {
	var oldTask, updated *entity.Task

	err := s.taskRepo.WithinTransaction(ctx, func(repo repository.ITaskRepository) error {
		task, err := findOrFail(ctx, repo, id)
		if err != nil {
			return err
		}
		before := *task
		oldTask = &before

		apply(task)

		updated, err = repo.Save(ctx, task)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.sendAuditMessage(ctx, action, id, oldTask, updated)
	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	var deleted *entity.Task

	err := s.taskRepo.WithinTransaction(ctx, func(repo repository.ITaskRepository) error {
		task, err := findOrFail(ctx, repo, id)
		if err != nil {
			return err
		}
		deleted = task
		return repo.Delete(ctx, task)
	})
	if err != nil {
		return err
	}

	s.sendAuditMessage(ctx, entity.ActionDelete, id, deleted, nil)
	return nil
}

func (s *TaskService) FindTaskByID(ctx context.Context, id int64) (*entity.Task, error) {
	return findOrFail(ctx, s.taskRepo, id)
}

func (s *TaskService) FindAllTasks(ctx context.Context) ([]entity.Task, error) {
	return s.taskRepo.FindAllOrderedByCreatedAtDesc(ctx)
}

func (s *TaskService) FindTasksByStatus(ctx context.Context, status entity.TaskStatus) ([]entity.Task, error) {
	return s.taskRepo.FindByStatusOrderedByCreatedAtDesc(ctx, status)
}

func (s *TaskService) FindTasksByPriority(ctx context.Context, priority entity.TaskPriority) ([]entity.Task, error) {
	return s.taskRepo.FindByPriorityOrderedByCreatedAtDesc(ctx, priority)
}

func (s *TaskService) FindPendingTasks(ctx context.Context) ([]entity.Task, error) {
	return s.taskRepo.FindByStatusOrderedByCreatedAtDesc(ctx, entity.StatusPending)
}

func (s *TaskService) FindCompletedTasks(ctx context.Context) ([]entity.Task, error) {
	return s.taskRepo.FindByStatusOrderedByCreatedAtDesc(ctx, entity.StatusCompleted)
}

func (s *TaskService) CountTasks(ctx context.Context) (int64, error) {
	return s.taskRepo.Count(ctx)
}

func (s *TaskService) CountTasksByStatus(ctx context.Context, status entity.TaskStatus) (int64, error) {
	return s.taskRepo.CountByStatus(ctx, status)
}

func findOrFail(ctx context.Context, repo repository.ITaskRepository, id int64) (*entity.Task, error) {
	task, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.NewTaskNotFoundError(id)
	}
	return task, nil
}

func (s *TaskService) sendAuditMessage(ctx context.Context, action entity.ActionType, taskID int64, oldTask, newTask *entity.Task) {
	if s.publisher == nil {
		return
	}

	msg := &entity.AuditMessage{
		EventID:   uuid.New(),
		Action:    action,
		EntityID:  taskID,
		Timestamp: time.Now().UTC(),
	}
	if oldTask != nil {
		msg.OldValues = oldTask.AuditValues()
	}
	if newTask != nil {
		msg.NewValues = newTask.AuditValues()
	}
	if oldTask != nil && newTask != nil {
		msg.Changes = diffValues(msg.OldValues, msg.NewValues)
	}

	entry := s.log.WithFields(logrus.Fields{"action": action, "task_id": taskID, "event_id": msg.EventID})
	if err := s.publisher.PublishAuditMessage(context.WithoutCancel(ctx), msg); err != nil {
		entry.WithError(err).Error("failed to publish audit message")
		return
	}
	entry.Debug("audit message published")
}

func diffValues(oldValues, newValues map[string]any) map[string]any {
	changes := make(map[string]any)
	for key, newValue := range newValues {
		if oldValue, ok := oldValues[key]; !ok || oldValue != newValue {
			changes[key] = map[string]any{"old": oldValues[key], "new": newValue}
		}
	}
	for key, oldValue := range oldValues {
		if _, ok := newValues[key]; !ok {
			changes[key] = map[string]any{"old": oldValue, "new": nil}
		}
	}
	return changes
}
