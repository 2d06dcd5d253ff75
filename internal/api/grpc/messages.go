package grpc

import (
	"time"

	"github.com/St1cky1/task-manager/internal/entity"
)

type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

type GetTaskRequest struct {
	ID int64 `json:"id"`
}

type UpdateTaskRequest struct {
	ID          int64   `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
}

type TaskIDRequest struct {
	ID int64 `json:"id"`
}

type ListTasksRequest struct {
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type CountTasksRequest struct {
	Status string `json:"status,omitempty"`
}

type TaskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type ListTasksResponse struct {
	Tasks []*TaskResponse `json:"tasks"`
}

type DeleteTaskResponse struct {
	Success bool `json:"success"`
}

type CountTasksResponse struct {
	Count int64 `json:"count"`
}

func taskToResponse(task *entity.Task) *TaskResponse {
	resp := &TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		CreatedAt:   task.CreatedAt.Format(time.RFC3339Nano),
	}
	if task.CompletedAt != nil {
		resp.CompletedAt = task.CompletedAt.Format(time.RFC3339Nano)
	}
	return resp
}
