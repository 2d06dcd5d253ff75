package api

import (
	"net/http"

	"github.com/St1cky1/task-manager/internal/api/handlers"
	"github.com/St1cky1/task-manager/internal/api/web"
	"github.com/St1cky1/task-manager/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

func NewRouter(taskService *usecase.TaskService, auditService *usecase.TaskAuditService, log logrus.FieldLogger) (*chi.Mux, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: log, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	taskHandler := handlers.NewTaskHandler(taskService, auditService, log)
	webHandler, err := web.NewHandler(taskService, log)
	if err != nil {
		return nil, err
	}

	r.Get("/health", handlers.Health)
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/tasks", http.StatusFound)
	})

	r.Route("/api/tasks", taskHandler.Routes)
	r.Route("/tasks", webHandler.Routes)

	return r, nil
}
