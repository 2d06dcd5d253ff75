package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActionType string

const (
	ActionCreate   ActionType = "CREATE"
	ActionUpdate   ActionType = "UPDATE"
	ActionComplete ActionType = "COMPLETE"
	ActionCancel   ActionType = "CANCEL"
	ActionDelete   ActionType = "DELETE"
)

// TaskAudit is one stored audit row; the value columns hold JSON documents.
type TaskAudit struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID    uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"event_id"`
	Action     ActionType `gorm:"size:20;not null" json:"action"`
	EntityType string     `gorm:"size:50;not null" json:"entity_type"`
	EntityID   int64      `gorm:"not null;index" json:"entity_id"`
	OldValues  *string    `json:"old_values"`
	NewValues  *string    `json:"new_values"`
	Changes    *string    `json:"changes"`
	ChangedAt  time.Time  `json:"changed_at"`
}

func (TaskAudit) TableName() string {
	return "task_audit"
}

// AuditMessage is the payload published to the audit queue.
type AuditMessage struct {
	EventID   uuid.UUID      `json:"event_id"`
	Action    ActionType     `json:"action"`
	EntityID  int64          `json:"entity_id"`
	OldValues map[string]any `json:"old_values,omitempty"`
	NewValues map[string]any `json:"new_values,omitempty"`
	Changes   map[string]any `json:"changes,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// AuditValues flattens the task into the map carried by audit messages.
func (t *Task) AuditValues() map[string]any {
	values := map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    string(t.Priority),
	}
	if t.CompletedAt != nil {
		values["completed_at"] = t.CompletedAt.Format(time.RFC3339Nano)
	}
	return values
}
