package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/St1cky1/task-manager/internal/api"
	grpcapi "github.com/St1cky1/task-manager/internal/api/grpc"
	"github.com/St1cky1/task-manager/internal/config"
	"github.com/St1cky1/task-manager/internal/infrastructure/client"
	"github.com/St1cky1/task-manager/internal/infrastructure/logger"
	"github.com/St1cky1/task-manager/internal/repository"
	"github.com/St1cky1/task-manager/internal/usecase"
	"github.com/St1cky1/task-manager/internal/worker"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP, web and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

// stores groups the repositories of one storage driver.
type stores struct {
	tasks  repository.ITaskRepository
	audits repository.ITaskAuditRepository
	close  func() error
}

func openStores(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := client.NewSQLiteDB(cfg.Storage.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.Storage.SQLitePath).Info("sqlite database opened")
		return &stores{
			tasks:  repository.NewGormTaskRepository(db),
			audits: repository.NewGormTaskAuditRepository(db),
			close:  func() error { return client.CloseSQLiteDB(db) },
		}, nil

	default:
		if err := runMigrations(cfg, log); err != nil {
			return nil, err
		}
		pg, err := client.NewPostgresClient(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		log.WithField("host", cfg.Postgres.Host).Info("postgres connection established")
		return &stores{
			tasks:  repository.NewTaskRepository(pg.Pool),
			audits: repository.NewTaskAuditRepository(pg.Pool),
			close:  func() error { pg.Close(); return nil },
		}, nil
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.New(cfg.Logger)

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			log.WithError(err).Warn("failed to close store")
		}
	}()

	var (
		publisher    usecase.AuditPublisher
		rabbitMQ     *client.RabbitMQClient
		workerDone   = make(chan struct{})
		workerStop   = func() {}
		workerOnline bool
	)
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err = client.NewRabbitMQClient(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Queue, log)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
		log.WithField("queue", rabbitMQ.QueueName()).Info("RabbitMQ connection established")
		publisher = rabbitMQ

		workerCtx, cancel := context.WithCancel(context.Background())
		workerStop = cancel
		workerOnline = true
		auditWorker := worker.NewAuditWorker(rabbitMQ, st.audits, log)
		go func() {
			defer close(workerDone)
			if err := auditWorker.Run(workerCtx); err != nil {
				log.WithError(err).Error("audit worker failed")
			}
		}()
	} else {
		close(workerDone)
		log.Info("RabbitMQ disabled, task auditing is off")
	}

	taskService := usecase.NewTaskService(st.tasks, publisher, log)
	auditService := usecase.NewTaskAuditService(st.tasks, st.audits)

	router, err := api.NewRouter(taskService, auditService, log)
	if err != nil {
		workerStop()
		return fmt.Errorf("failed to build router: %w", err)
	}
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := grpcapi.NewGRPCServer(taskService, log)

	serveErrs := make(chan error, 2)
	var once sync.Once
	fail := func(err error) {
		serveErrs <- err
		once.Do(func() { interruptSelf(log) })
	}

	go func() {
		log.WithField("addr", cfg.Server.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP server error")
			fail(err)
		}
	}()
	go func() {
		if err := grpcServer.Start(cfg.Server.GRPCAddr); err != nil {
			log.WithError(err).Error("gRPC server error")
			fail(err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		ctx,
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"http": func(ctx context.Context) error {
				return httpServer.Shutdown(ctx)
			},
			"grpc": func(ctx context.Context) error {
				return grpcServer.Stop(ctx)
			},
			"audit-worker": func(ctx context.Context) error {
				if !workerOnline {
					return nil
				}
				workerStop()
				select {
				case <-workerDone:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		},
	)

	exitCode := <-wait
	log.WithField("exit_code", exitCode).Info("server stopped")

	select {
	case err := <-serveErrs:
		return err
	default:
	}
	if exitCode != 0 {
		return fmt.Errorf("shutdown finished with exit code %d", exitCode)
	}
	return nil
}

// interruptSelf triggers the signal-driven shutdown when a listener fails.
func interruptSelf(log logrus.FieldLogger) {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		log.WithError(err).Error("failed to find own process")
		return
	}
	if err := p.Signal(os.Interrupt); err != nil {
		log.WithError(err).Error("failed to signal own process")
	}
}
