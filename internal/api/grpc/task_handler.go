package grpc

import (
	"context"
	"errors"

	"github.com/St1cky1/task-manager/internal/entity"
	"github.com/St1cky1/task-manager/internal/validator"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const serviceName = "task.v1.TaskService"

// TaskServiceServer is the server API of task.v1.TaskService.
type TaskServiceServer interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, req *GetTaskRequest) (*TaskResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	CompleteTask(ctx context.Context, req *TaskIDRequest) (*TaskResponse, error)
	CancelTask(ctx context.Context, req *TaskIDRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, req *TaskIDRequest) (*DeleteTaskResponse, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error)
	CountTasks(ctx context.Context, req *CountTasksRequest) (*CountTasksResponse, error)
}

var taskServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateTask", TaskServiceServer.CreateTask),
		unaryMethod("GetTask", TaskServiceServer.GetTask),
		unaryMethod("UpdateTask", TaskServiceServer.UpdateTask),
		unaryMethod("CompleteTask", TaskServiceServer.CompleteTask),
		unaryMethod("CancelTask", TaskServiceServer.CancelTask),
		unaryMethod("DeleteTask", TaskServiceServer.DeleteTask),
		unaryMethod("ListTasks", TaskServiceServer.ListTasks),
		unaryMethod("CountTasks", TaskServiceServer.CountTasks),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "task/v1/task.proto",
}

// unaryMethod adapts a typed method to the generic handler signature grpc expects.
func unaryMethod[Req, Resp any](name string, call func(TaskServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(TaskServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + name,
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func (s *GRPCServer) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	createReq := &entity.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		Status:      entity.TaskStatus(req.Status),
		Priority:    entity.TaskPriority(req.Priority),
	}
	if err := validator.Validate(createReq); err != nil {
		return nil, s.toStatus(err)
	}

	task, err := s.taskService.CreateTask(ctx, createReq)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return taskToResponse(task), nil
}

func (s *GRPCServer) GetTask(ctx context.Context, req *GetTaskRequest) (*TaskResponse, error) {
	task, err := s.taskService.FindTaskByID(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return taskToResponse(task), nil
}

func (s *GRPCServer) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	updateReq := &entity.UpdateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		st := entity.TaskStatus(*req.Status)
		updateReq.Status = &st
	}
	if req.Priority != nil {
		p := entity.TaskPriority(*req.Priority)
		updateReq.Priority = &p
	}
	if err := validator.Validate(updateReq); err != nil {
		return nil, s.toStatus(err)
	}

	task, err := s.taskService.UpdateTask(ctx, req.ID, updateReq)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return taskToResponse(task), nil
}

func (s *GRPCServer) CompleteTask(ctx context.Context, req *TaskIDRequest) (*TaskResponse, error) {
	task, err := s.taskService.CompleteTask(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return taskToResponse(task), nil
}

func (s *GRPCServer) CancelTask(ctx context.Context, req *TaskIDRequest) (*TaskResponse, error) {
	task, err := s.taskService.CancelTask(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return taskToResponse(task), nil
}

func (s *GRPCServer) DeleteTask(ctx context.Context, req *TaskIDRequest) (*DeleteTaskResponse, error) {
	if err := s.taskService.DeleteTask(ctx, req.ID); err != nil {
		return nil, s.toStatus(err)
	}
	return &DeleteTaskResponse{Success: true}, nil
}

// ListTasks filters by status or priority when one is given; status wins if both are set.
func (s *GRPCServer) ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error) {
	var (
		tasks []entity.Task
		err   error
	)

	switch {
	case req.Status != "":
		var st entity.TaskStatus
		if st, err = entity.ParseTaskStatus(req.Status); err != nil {
			return nil, s.toStatus(err)
		}
		tasks, err = s.taskService.FindTasksByStatus(ctx, st)
	case req.Priority != "":
		var p entity.TaskPriority
		if p, err = entity.ParseTaskPriority(req.Priority); err != nil {
			return nil, s.toStatus(err)
		}
		tasks, err = s.taskService.FindTasksByPriority(ctx, p)
	default:
		tasks, err = s.taskService.FindAllTasks(ctx)
	}
	if err != nil {
		return nil, s.toStatus(err)
	}

	resp := &ListTasksResponse{Tasks: make([]*TaskResponse, len(tasks))}
	for i := range tasks {
		resp.Tasks[i] = taskToResponse(&tasks[i])
	}
	return resp, nil
}

func (s *GRPCServer) CountTasks(ctx context.Context, req *CountTasksRequest) (*CountTasksResponse, error) {
	if req.Status == "" {
		count, err := s.taskService.CountTasks(ctx)
		if err != nil {
			return nil, s.toStatus(err)
		}
		return &CountTasksResponse{Count: count}, nil
	}

	st, err := entity.ParseTaskStatus(req.Status)
	if err != nil {
		return nil, s.toStatus(err)
	}
	count, err := s.taskService.CountTasksByStatus(ctx, st)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return &CountTasksResponse{Count: count}, nil
}

// toStatus maps domain errors to gRPC codes. Unexpected errors are logged and hidden from the caller.
func (s *GRPCServer) toStatus(err error) error {
	switch {
	case errors.Is(err, entity.ErrTaskNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, entity.ErrInvalidTaskData),
		errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidPriority):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.log.WithError(err).Error("gRPC request failed")
		return status.Error(codes.Internal, "internal server error")
	}
}
