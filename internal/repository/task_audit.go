package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

type TaskAuditRepository struct {
	db *pgxpool.Pool
}

func NewTaskAuditRepository(db *pgxpool.Pool) *TaskAuditRepository {
	return &TaskAuditRepository{
		db: db,
	}
}

// Create is idempotent on event_id so redelivered messages are stored once.
func (r *TaskAuditRepository) Create(ctx context.Context, audit *entity.TaskAudit) error {
	query := `
	INSERT INTO task_audit (event_id, action, entity_type, entity_id, old_values, new_values, changes, changed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (event_id) DO NOTHING
	RETURNING id
	`

	err := r.db.QueryRow(
		ctx,
		query,
		audit.EventID,
		audit.Action,
		audit.EntityType,
		audit.EntityID,
		audit.OldValues,
		audit.NewValues,
		audit.Changes,
		audit.ChangedAt,
	).Scan(&audit.ID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("insert task audit: %w", err)
	}
	return nil
}

func (r *TaskAuditRepository) GetByTaskID(ctx context.Context, taskID int64) ([]entity.TaskAudit, error) {
	query := `
	SELECT id, event_id, action, entity_type, entity_id, old_values, new_values, changes, changed_at
	FROM task_audit
	WHERE entity_id = $1 AND entity_type = 'task'
	ORDER BY changed_at DESC, id DESC
	`
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list task audit: %w", err)
	}
	defer rows.Close()

	audits := make([]entity.TaskAudit, 0)
	for rows.Next() {
		var audit entity.TaskAudit
		err := rows.Scan(
			&audit.ID,
			&audit.EventID,
			&audit.Action,
			&audit.EntityType,
			&audit.EntityID,
			&audit.OldValues,
			&audit.NewValues,
			&audit.Changes,
			&audit.ChangedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task audit: %w", err)
		}
		audits = append(audits, audit)
	}
	return audits, rows.Err()
}

// GormTaskAuditRepository is the gorm counterpart used with the sqlite driver.
type GormTaskAuditRepository struct {
	db *gorm.DB
}

func NewGormTaskAuditRepository(db *gorm.DB) *GormTaskAuditRepository {
	return &GormTaskAuditRepository{db: db}
}

func (r *GormTaskAuditRepository) Create(ctx context.Context, audit *entity.TaskAudit) error {
	var existing int64
	if err := r.db.WithContext(ctx).Model(&entity.TaskAudit{}).Where("event_id = ?", audit.EventID).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check task audit: %w", err)
	}
	if existing > 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(audit).Error; err != nil {
		return fmt.Errorf("failed to create task audit: %w", err)
	}
	return nil
}

func (r *GormTaskAuditRepository) GetByTaskID(ctx context.Context, taskID int64) ([]entity.TaskAudit, error) {
	audits := make([]entity.TaskAudit, 0)
	err := r.db.WithContext(ctx).
		Where("entity_id = ? AND entity_type = ?", taskID, "task").
		Order("changed_at DESC, id DESC").
		Find(&audits).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list task audit: %w", err)
	}
	return audits, nil
}
