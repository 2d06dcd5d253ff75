package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/St1cky1/task-manager/internal/infrastructure/client"
	"github.com/St1cky1/task-manager/internal/infrastructure/logger"
	"github.com/St1cky1/task-manager/internal/repository"
	"github.com/St1cky1/task-manager/internal/usecase"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newTestClient(t *testing.T) (*Client, *grpc.ClientConn) {
	t.Helper()

	db, err := client.NewSQLiteDB(":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	log := logger.Discard()
	svc := usecase.NewTaskService(repository.NewGormTaskRepository(db), nil, log)
	server := NewGRPCServer(svc, log)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = server.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Failed to dial bufnet: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Stop(ctx)
		_ = client.CloseSQLiteDB(db)
	})

	return NewClient(conn), conn
}

func ptr[T any](v T) *T {
	return &v
}

func TestGRPCCreateAndGet(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, &CreateTaskRequest{Title: "Test Task", Priority: "HIGH"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if created.ID == 0 || created.Status != "PENDING" || created.Priority != "HIGH" {
		t.Fatalf("Unexpected task %+v", created)
	}

	got, err := c.GetTask(ctx, &GetTaskRequest{ID: created.ID})
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != "Test Task" || got.CreatedAt != created.CreatedAt {
		t.Fatalf("Expected %+v, got %+v", created, got)
	}
}

func TestGRPCErrorCodes(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	_, err := c.GetTask(ctx, &GetTaskRequest{ID: 999})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("Expected NotFound, got %v", err)
	}

	_, err = c.CreateTask(ctx, &CreateTaskRequest{Title: "ab"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("Expected InvalidArgument, got %v", err)
	}

	task, err := c.CreateTask(ctx, &CreateTaskRequest{Title: "Valid title"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	_, err = c.UpdateTask(ctx, &UpdateTaskRequest{ID: task.ID, Title: ptr("Ab")})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("Expected InvalidArgument for short update title, got %v", err)
	}

	_, err = c.ListTasks(ctx, &ListTasksRequest{Status: "DONE"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("Expected InvalidArgument for unknown status, got %v", err)
	}

	for name, call := range map[string]func() error{
		"CompleteTask": func() error { _, err := c.CompleteTask(ctx, &TaskIDRequest{ID: 999}); return err },
		"CancelTask":   func() error { _, err := c.CancelTask(ctx, &TaskIDRequest{ID: 999}); return err },
		"DeleteTask":   func() error { _, err := c.DeleteTask(ctx, &TaskIDRequest{ID: 999}); return err },
		"UpdateTask":   func() error { _, err := c.UpdateTask(ctx, &UpdateTaskRequest{ID: 999, Title: ptr("x y z")}); return err },
	} {
		if code := status.Code(call()); code != codes.NotFound {
			t.Errorf("%s: expected NotFound, got %s", name, code)
		}
	}
}

func TestGRPCInternalErrorsAreHidden(t *testing.T) {
	server := &GRPCServer{log: logger.Discard()}

	err := server.toStatus(errors.New("pq: connection refused to db.internal:5432"))
	st, _ := status.FromError(err)
	if st.Code() != codes.Internal {
		t.Fatalf("Expected Internal, got %s", st.Code())
	}
	if st.Message() != "internal server error" {
		t.Fatalf("Expected generic message, got %q", st.Message())
	}
}

func TestGRPCLifecycle(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	a, err := c.CreateTask(ctx, &CreateTaskRequest{Title: "Task A", Priority: "LOW"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	b, err := c.CreateTask(ctx, &CreateTaskRequest{Title: "Task B", Priority: "URGENT"})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	updated, err := c.UpdateTask(ctx, &UpdateTaskRequest{ID: a.ID, Title: ptr("  "), Status: ptr("IN_PROGRESS")})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Title != "Task A" || updated.Status != "IN_PROGRESS" {
		t.Fatalf("Unexpected update result %+v", updated)
	}

	completed, err := c.CompleteTask(ctx, &TaskIDRequest{ID: a.ID})
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if completed.Status != "COMPLETED" || completed.CompletedAt == "" {
		t.Fatalf("Unexpected complete result %+v", completed)
	}

	cancelled, err := c.CancelTask(ctx, &TaskIDRequest{ID: b.ID})
	if err != nil || cancelled.Status != "CANCELLED" {
		t.Fatalf("CancelTask = %+v, %v", cancelled, err)
	}

	all, err := c.ListTasks(ctx, &ListTasksRequest{})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(all.Tasks) != 2 || all.Tasks[0].ID != b.ID {
		t.Fatalf("Expected newest first, got %+v", all.Tasks)
	}

	urgent, err := c.ListTasks(ctx, &ListTasksRequest{Priority: "urgent"})
	if err != nil || len(urgent.Tasks) != 1 || urgent.Tasks[0].ID != b.ID {
		t.Fatalf("ListTasks(priority) = %+v, %v", urgent, err)
	}

	count, err := c.CountTasks(ctx, &CountTasksRequest{Status: "COMPLETED"})
	if err != nil || count.Count != 1 {
		t.Fatalf("CountTasks(COMPLETED) = %+v, %v", count, err)
	}

	deleted, err := c.DeleteTask(ctx, &TaskIDRequest{ID: a.ID})
	if err != nil || !deleted.Success {
		t.Fatalf("DeleteTask = %+v, %v", deleted, err)
	}

	total, err := c.CountTasks(ctx, &CountTasksRequest{})
	if err != nil || total.Count != 1 {
		t.Fatalf("CountTasks() = %+v, %v", total, err)
	}
}

func TestGRPCHealth(t *testing.T) {
	_, conn := newTestClient(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: serviceName})
	if err != nil {
		t.Fatalf("Health check failed: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("Expected SERVING, got %s", resp.GetStatus())
	}
}
