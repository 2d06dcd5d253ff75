package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/St1cky1/task-manager/internal/usecase"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

type GRPCServer struct {
	taskService *usecase.TaskService
	log         logrus.FieldLogger
	server      *grpc.Server
	health      *health.Server
}

var _ TaskServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(taskService *usecase.TaskService, log logrus.FieldLogger) *GRPCServer {
	s := &GRPCServer{
		taskService: taskService,
		log:         log,
		health:      health.NewServer(),
	}

	s.server = grpc.NewServer(
		grpc.UnaryInterceptor(s.unaryInterceptor),
	)
	s.server.RegisterService(&taskServiceDesc, s)
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.health.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

// Start listens on addr (e.g. ":9090") and blocks until the server stops.
func (s *GRPCServer) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(lis)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	s.log.WithField("addr", lis.Addr().String()).Info("gRPC server listening")
	return s.server.Serve(lis)
}

// Stop drains in-flight calls; it falls back to a hard stop when ctx expires.
func (s *GRPCServer) Stop(ctx context.Context) error {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}

func (s *GRPCServer) unaryInterceptor(ctx context.Context, req any,
	info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	entry := s.log.WithFields(logrus.Fields{
		"method":   info.FullMethod,
		"code":     status.Code(err).String(),
		"duration": time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Warn("gRPC call failed")
	} else {
		entry.Debug("gRPC call")
	}
	return resp, err
}
