package entity

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInvalidTaskData = errors.New("invalid task data")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// TaskNotFoundError carries the id that was looked up. It matches ErrTaskNotFound with errors.Is.
type TaskNotFoundError struct {
	ID int64
}

func NewTaskNotFoundError(id int64) *TaskNotFoundError {
	return &TaskNotFoundError{ID: id}
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found with id: %d", e.ID)
}

func (e *TaskNotFoundError) Is(target error) bool {
	return target == ErrTaskNotFound
}

// ValidationError holds per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %d invalid field(s)", ErrInvalidTaskData, len(e.Fields))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidTaskData
}
