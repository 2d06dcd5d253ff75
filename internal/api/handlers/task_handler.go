package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/usecase"
	"github.com/St1cky1/task-manager/internal/validator"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type TaskHandler struct {
	taskService  *usecase.TaskService
	auditService *usecase.TaskAuditService
	log          logrus.FieldLogger
}

func NewTaskHandler(taskService *usecase.TaskService, auditService *usecase.TaskAuditService, log logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		auditService: auditService,
		log:          log,
	}
}

// Routes mounts the REST endpoints, e.g. under /api/tasks.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Get("/", h.ListTasks)
	r.Post("/", h.CreateTask)
	r.Get("/pending", h.ListPendingTasks)
	r.Get("/completed", h.ListCompletedTasks)
	r.Get("/status/{status}", h.ListTasksByStatus)
	r.Get("/priority/{priority}", h.ListTasksByPriority)
	r.Get("/count", h.CountTasks)
	r.Get("/count/status/{status}", h.CountTasksByStatus)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetTask)
		r.Put("/", h.UpdateTask)
		r.Delete("/", h.DeleteTask)
		r.Patch("/complete", h.CompleteTask)
		r.Patch("/cancel", h.CancelTask)
		r.Get("/audit", h.GetTaskHistory)
	})
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	if err := validator.Validate(&req); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/tasks/%d", task.ID))
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.FindTaskByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req entity.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", nil)
		return
	}
	if err := validator.Validate(&req); err != nil {
		writeServiceError(w, h.log, err)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetTaskHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	audits, err := h.auditService.GetTaskHistory(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, audits)
}

func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if _, err := h.taskService.CompleteTask(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if _, err := h.taskService.CancelTask(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.FindAllTasks(r.Context())
	h.writeList(w, tasks, err)
}

func (h *TaskHandler) ListPendingTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.FindPendingTasks(r.Context())
	h.writeList(w, tasks, err)
}

func (h *TaskHandler) ListCompletedTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.FindCompletedTasks(r.Context())
	h.writeList(w, tasks, err)
}

func (h *TaskHandler) ListTasksByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := entity.ParseTaskStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	tasks, err := h.taskService.FindTasksByStatus(r.Context(), status)
	h.writeList(w, tasks, err)
}

func (h *TaskHandler) ListTasksByPriority(w http.ResponseWriter, r *http.Request) {
	priority, err := entity.ParseTaskPriority(chi.URLParam(r, "priority"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	tasks, err := h.taskService.FindTasksByPriority(r.Context(), priority)
	h.writeList(w, tasks, err)
}

func (h *TaskHandler) CountTasks(w http.ResponseWriter, r *http.Request) {
	count, err := h.taskService.CountTasks(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

func (h *TaskHandler) CountTasksByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := entity.ParseTaskStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	count, err := h.taskService.CountTasksByStatus(r.Context(), status)
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, count)
}

func (h *TaskHandler) writeList(w http.ResponseWriter, tasks []entity.Task, err error) {
	if err != nil {
		writeServiceError(w, h.log, err)
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid task id", nil)
		return 0, false
	}
	return id, true
}
