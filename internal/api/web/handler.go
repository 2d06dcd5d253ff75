package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/usecase"
	"github.com/St1cky1/task-manager/internal/validator"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookie = "flash"

const (
	msgCreated   = "Tarefa criada com sucesso!"
	msgUpdated   = "Tarefa atualizada com sucesso!"
	msgCompleted = "Tarefa concluída!"
	msgCancelled = "Tarefa cancelada!"
	msgDeleted   = "Tarefa excluída!"
)

// Handler serves the HTML pages under /tasks.
type Handler struct {
	taskService *usecase.TaskService
	log         logrus.FieldLogger
	pages       map[string]*template.Template
}

func NewHandler(taskService *usecase.TaskService, log logrus.FieldLogger) (*Handler, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"list", "form", "error"} {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Handler{
		taskService: taskService,
		log:         log,
		pages:       pages,
	}, nil
}

// Routes mounts the pages, e.g. under /tasks.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/new", h.New)
	r.Route("/{id}", func(r chi.Router) {
		r.Post("/", h.Update)
		r.Get("/edit", h.Edit)
		r.Post("/complete", h.Complete)
		r.Post("/cancel", h.Cancel)
		r.Post("/delete", h.Delete)
	})
}

type taskForm struct {
	Title       string
	Description string
	Status      entity.TaskStatus
	Priority    entity.TaskPriority
}

type pageData struct {
	Title      string
	Flash      string
	Message    string
	Tasks      []entity.Task
	Action     string
	Form       taskForm
	Errors     map[string]string
	Statuses   []entity.TaskStatus
	Priorities []entity.TaskPriority
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		tasks []entity.Task
		err   error
		title = "Todas as tarefas"
	)

	switch r.URL.Query().Get("filter") {
	case "pending":
		title = "Tarefas pendentes"
		tasks, err = h.taskService.FindPendingTasks(r.Context())
	case "completed":
		title = "Tarefas concluídas"
		tasks, err = h.taskService.FindCompletedTasks(r.Context())
	default:
		tasks, err = h.taskService.FindAllTasks(r.Context())
	}
	if err != nil {
		h.renderError(w, err)
		return
	}

	h.render(w, http.StatusOK, "list", pageData{
		Title: title,
		Flash: popFlash(w, r),
		Tasks: tasks,
	})
}

func (h *Handler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, "Nova tarefa", "/tasks", taskForm{
		Status:   entity.StatusPending,
		Priority: entity.PriorityMedium,
	}, nil)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, req, fields := parseForm(r)
	if len(fields) > 0 {
		h.renderForm(w, http.StatusBadRequest, "Nova tarefa", "/tasks", form, fields)
		return
	}

	if _, err := h.taskService.CreateTask(r.Context(), req); err != nil {
		h.renderError(w, err)
		return
	}
	redirectWithFlash(w, r, msgCreated)
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.FindTaskByID(r.Context(), id)
	if err != nil {
		h.renderError(w, err)
		return
	}

	h.renderForm(w, http.StatusOK, "Editar tarefa", fmt.Sprintf("/tasks/%d", id), taskForm{
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
	}, nil)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}

	form, req, fields := parseForm(r)
	if len(fields) > 0 {
		h.renderForm(w, http.StatusBadRequest, "Editar tarefa", fmt.Sprintf("/tasks/%d", id), form, fields)
		return
	}

	patch := &entity.UpdateTaskRequest{
		Title:       &req.Title,
		Description: &req.Description,
	}
	if req.Status != "" {
		patch.Status = &req.Status
	}
	if req.Priority != "" {
		patch.Priority = &req.Priority
	}

	if _, err := h.taskService.UpdateTask(r.Context(), id, patch); err != nil {
		h.renderError(w, err)
		return
	}
	redirectWithFlash(w, r, msgUpdated)
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, msgCompleted, func(id int64) error {
		_, err := h.taskService.CompleteTask(r.Context(), id)
		return err
	})
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, msgCancelled, func(id int64) error {
		_, err := h.taskService.CancelTask(r.Context(), id)
		return err
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, msgDeleted, func(id int64) error {
		return h.taskService.DeleteTask(r.Context(), id)
	})
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request, flash string, do func(id int64) error) {
	id, ok := h.taskID(w, r)
	if !ok {
		return
	}
	if err := do(id); err != nil {
		h.renderError(w, err)
		return
	}
	redirectWithFlash(w, r, flash)
}

// parseForm reads the posted fields and validates them like an API create request.
func parseForm(r *http.Request) (taskForm, *entity.CreateTaskRequest, map[string]string) {
	_ = r.ParseForm()

	form := taskForm{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
		Status:      entity.TaskStatus(r.PostForm.Get("status")),
		Priority:    entity.TaskPriority(r.PostForm.Get("priority")),
	}
	req := &entity.CreateTaskRequest{
		Title:       form.Title,
		Description: form.Description,
		Status:      form.Status,
		Priority:    form.Priority,
	}
	return form, req, validator.ValidateStruct(req)
}

func (h *Handler) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.render(w, http.StatusBadRequest, "error", pageData{
			Title:   "Requisição inválida",
			Message: "Identificador de tarefa inválido.",
		})
		return 0, false
	}
	return id, true
}

func (h *Handler) renderForm(w http.ResponseWriter, status int, title, action string, form taskForm, fields map[string]string) {
	h.render(w, status, "form", pageData{
		Title:      title,
		Action:     action,
		Form:       form,
		Errors:     fields,
		Statuses:   entity.Statuses,
		Priorities: entity.Priorities,
	})
}

func (h *Handler) renderError(w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrTaskNotFound) {
		h.render(w, http.StatusNotFound, "error", pageData{
			Title:   "Tarefa não encontrada",
			Message: err.Error(),
		})
		return
	}

	h.log.WithError(err).Error("page request failed")
	h.render(w, http.StatusInternalServerError, "error", pageData{
		Title:   "Erro",
		Message: "Erro interno do servidor.",
	})
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data pageData) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.log.WithError(err).WithField("page", page).Error("failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirectWithFlash(w http.ResponseWriter, r *http.Request, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// popFlash returns the pending flash message and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:   flashCookie,
		Path:   "/",
		MaxAge: -1,
	})

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
