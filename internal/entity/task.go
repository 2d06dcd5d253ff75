package entity

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "PENDING"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusCancelled  TaskStatus = "CANCELLED"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// Statuses and Priorities list the tags in declaration order, used to render selects.
var (
	Statuses   = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
	Priorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
)

var statusDisplayNames = map[TaskStatus]string{
	StatusPending:    "Pendente",
	StatusInProgress: "Em Progresso",
	StatusCompleted:  "Concluída",
	StatusCancelled:  "Cancelada",
}

var priorityDisplayNames = map[TaskPriority]string{
	PriorityLow:    "Baixa",
	PriorityMedium: "Média",
	PriorityHigh:   "Alta",
	PriorityUrgent: "Urgente",
}

// DisplayName returns the UI label for the status.
func (s TaskStatus) DisplayName() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return string(s)
}

func (s TaskStatus) Valid() bool {
	_, ok := statusDisplayNames[s]
	return ok
}

// DisplayName returns the UI label for the priority.
func (p TaskPriority) DisplayName() string {
	if name, ok := priorityDisplayNames[p]; ok {
		return name
	}
	return string(p)
}

func (p TaskPriority) Valid() bool {
	_, ok := priorityDisplayNames[p]
	return ok
}

// ParseTaskStatus accepts tags in any case, e.g. "pending" or "IN_PROGRESS".
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	priority := TaskPriority(strings.ToUpper(strings.TrimSpace(s)))
	if !priority.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return priority, nil
}

type Task struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string       `gorm:"size:100;not null" json:"title"`
	Description string       `gorm:"size:500;not null" json:"description"`
	Status      TaskStatus   `gorm:"size:20;not null;index" json:"status"`
	Priority    TaskPriority `gorm:"size:20;not null;index" json:"priority"`
	CreatedAt   time.Time    `gorm:"not null;index;<-:create" json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// Complete marks the task as completed and stamps CompletedAt, whatever the current status.
func (t *Task) Complete() {
	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
}

// Cancel marks the task as cancelled. CompletedAt is left as is.
func (t *Task) Cancel() {
	t.Status = StatusCancelled
}

type CreateTaskRequest struct {
	Title       string       `json:"title" validate:"required,notblank,min=3,max=100"`
	Description string       `json:"description" validate:"max=500"`
	Status      TaskStatus   `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}

// UpdateTaskRequest is a patch: nil fields keep the stored value.
type UpdateTaskRequest struct {
	Title       *string       `json:"title" validate:"omitempty,titlepatch"`
	Description *string       `json:"description" validate:"omitempty,max=500"`
	Status      *TaskStatus   `json:"status" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
	Priority    *TaskPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
}
