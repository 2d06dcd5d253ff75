package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls task.v1.TaskService over a connection using the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...)
}

func (c *Client) CreateTask(ctx context.Context, in *CreateTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	out := new(TaskResponse)
	if err := c.invoke(ctx, "CreateTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTask(ctx context.Context, in *GetTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	out := new(TaskResponse)
	if err := c.invoke(ctx, "GetTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateTask(ctx context.Context, in *UpdateTaskRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	out := new(TaskResponse)
	if err := c.invoke(ctx, "UpdateTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CompleteTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	out := new(TaskResponse)
	if err := c.invoke(ctx, "CompleteTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CancelTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*TaskResponse, error) {
	out := new(TaskResponse)
	if err := c.invoke(ctx, "CancelTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteTask(ctx context.Context, in *TaskIDRequest, opts ...grpc.CallOption) (*DeleteTaskResponse, error) {
	out := new(DeleteTaskResponse)
	if err := c.invoke(ctx, "DeleteTask", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListTasks(ctx context.Context, in *ListTasksRequest, opts ...grpc.CallOption) (*ListTasksResponse, error) {
	out := new(ListTasksResponse)
	if err := c.invoke(ctx, "ListTasks", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CountTasks(ctx context.Context, in *CountTasksRequest, opts ...grpc.CallOption) (*CountTasksResponse, error) {
	out := new(CountTasksResponse)
	if err := c.invoke(ctx, "CountTasks", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
