package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const taskColumns = `id, title, description, status, priority, created_at, completed_at`

// TaskRepository stores tasks in PostgreSQL.
type TaskRepository struct {
	pool *pgxpool.Pool
	db   querier
	inTx bool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		pool: pool,
		db:   pool,
	}
}

func (r *TaskRepository) WithinTransaction(ctx context.Context, fn func(repo ITaskRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&TaskRepository{pool: r.pool, db: tx, inTx: true})
	})
}

func (r *TaskRepository) Save(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	if task.ID == 0 {
		return r.insert(ctx, task)
	}
	return r.update(ctx, task)
}

func (r *TaskRepository) insert(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	query := `
	INSERT INTO tasks (title, description, status, priority, completed_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING ` + taskColumns

	created, err := scanTask(r.db.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.CompletedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return created, nil
}

// update never touches created_at.
func (r *TaskRepository) update(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	query := `
	UPDATE tasks
	SET title = $1, description = $2, status = $3, priority = $4, completed_at = $5
	WHERE id = $6
	RETURNING ` + taskColumns

	updated, err := scanTask(r.db.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.CompletedAt,
		task.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.NewTaskNotFoundError(task.ID)
		}
		return nil, fmt.Errorf("update task %d: %w", task.ID, err)
	}
	return updated, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if r.inTx {
		query += ` FOR UPDATE`
	}

	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, task *entity.Task) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, task.ID); err != nil {
		return fmt.Errorf("delete task %d: %w", task.ID, err)
	}
	return nil
}

func (r *TaskRepository) FindByStatus(ctx context.Context, status entity.TaskStatus) ([]entity.Task, error) {
	return r.list(ctx, `WHERE status = $1 ORDER BY id`, status)
}

func (r *TaskRepository) FindByPriority(ctx context.Context, priority entity.TaskPriority) ([]entity.Task, error) {
	return r.list(ctx, `WHERE priority = $1 ORDER BY id`, priority)
}

func (r *TaskRepository) FindAllOrderedByCreatedAtDesc(ctx context.Context) ([]entity.Task, error) {
	return r.list(ctx, `ORDER BY created_at DESC, id DESC`)
}

func (r *TaskRepository) FindByStatusOrderedByCreatedAtDesc(ctx context.Context, status entity.TaskStatus) ([]entity.Task, error) {
	return r.list(ctx, `WHERE status = $1 ORDER BY created_at DESC, id DESC`, status)
}

func (r *TaskRepository) FindByPriorityOrderedByCreatedAtDesc(ctx context.Context, priority entity.TaskPriority) ([]entity.Task, error) {
	return r.list(ctx, `WHERE priority = $1 ORDER BY created_at DESC, id DESC`, priority)
}

func (r *TaskRepository) CountByStatus(ctx context.Context, status entity.TaskStatus) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE status = $1`, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks by status: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

func (r *TaskRepository) list(ctx context.Context, clause string, args ...any) ([]entity.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var task entity.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.CreatedAt,
		&task.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
