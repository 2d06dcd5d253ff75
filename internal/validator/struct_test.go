package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/St1cky1/task-manager/internal/entity"
)

func TestValidateCreateTaskRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        entity.CreateTaskRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  entity.CreateTaskRequest{Title: "Write docs", Priority: entity.PriorityHigh},
		},
		{
			name:       "missing title",
			req:        entity.CreateTaskRequest{},
			wantFields: []string{"title"},
		},
		{
			name:       "blank title",
			req:        entity.CreateTaskRequest{Title: "     "},
			wantFields: []string{"title"},
		},
		{
			name:       "title too short",
			req:        entity.CreateTaskRequest{Title: "ab"},
			wantFields: []string{"title"},
		},
		{
			name:       "title too long",
			req:        entity.CreateTaskRequest{Title: strings.Repeat("x", 101)},
			wantFields: []string{"title"},
		},
		{
			name:       "description too long",
			req:        entity.CreateTaskRequest{Title: "Write docs", Description: strings.Repeat("x", 501)},
			wantFields: []string{"description"},
		},
		{
			name:       "unknown enums",
			req:        entity.CreateTaskRequest{Title: "Write docs", Status: "DONE", Priority: "CRITICAL"},
			wantFields: []string{"status", "priority"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateStruct(&tt.req)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("ValidateStruct() = %v, want fields %v", got, tt.wantFields)
			}
			for _, field := range tt.wantFields {
				if _, ok := got[field]; !ok {
					t.Errorf("Expected error for %q, got %v", field, got)
				}
			}
		})
	}
}

func TestValidateUpdateTaskRequestAllowsBlankTitle(t *testing.T) {
	blank := "   "
	if fields := ValidateStruct(&entity.UpdateTaskRequest{Title: &blank}); len(fields) != 0 {
		t.Fatalf("Expected blank patch title to pass, got %v", fields)
	}

	status := entity.TaskStatus("DONE")
	fields := ValidateStruct(&entity.UpdateTaskRequest{Status: &status})
	if _, ok := fields["status"]; !ok {
		t.Fatalf("Expected status error, got %v", fields)
	}
}

func TestValidateUpdateTaskRequestTitleLength(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{name: "empty", title: ""},
		{name: "three chars", title: "Abc"},
		{name: "hundred chars", title: strings.Repeat("x", 100)},
		{name: "too short", title: "Ab", wantErr: true},
		{name: "too long", title: strings.Repeat("x", 101), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := tt.title
			fields := ValidateStruct(&entity.UpdateTaskRequest{Title: &title})
			if _, got := fields["title"]; got != tt.wantErr {
				t.Fatalf("ValidateStruct() = %v, wantErr %v", fields, tt.wantErr)
			}
		})
	}

	short := "Ab"
	fields := ValidateStruct(&entity.UpdateTaskRequest{Title: &short})
	if fields["title"] != "The field 'title' must be between 3 and 100 characters long." {
		t.Fatalf("Unexpected message %q", fields["title"])
	}
}

func TestValidateMessages(t *testing.T) {
	fields := ValidateStruct(&entity.CreateTaskRequest{Title: "ab"})
	if fields["title"] != "The field 'title' must be at least 3 characters long." {
		t.Fatalf("Unexpected message %q", fields["title"])
	}
}

func TestValidateReturnsValidationError(t *testing.T) {
	err := Validate(&entity.CreateTaskRequest{})
	if !errors.Is(err, entity.ErrInvalidTaskData) {
		t.Fatalf("Expected ErrInvalidTaskData, got %v", err)
	}

	var verr *entity.ValidationError
	if !errors.As(err, &verr) || verr.Fields["title"] == "" {
		t.Fatalf("Expected title field error, got %v", err)
	}

	if err := Validate(&entity.CreateTaskRequest{Title: "Valid title"}); err != nil {
		t.Fatalf("Expected nil, got %v", err)
	}
}
