package entity

import (
	"errors"
	"testing"
	"time"
)

func TestCompleteSetsStatusAndCompletedAt(t *testing.T) {
	for _, status := range Statuses {
		task := &Task{Title: "Test Task", Status: status}
		task.Complete()

		if task.Status != StatusCompleted {
			t.Fatalf("Expected status %s, got %s", StatusCompleted, task.Status)
		}
		if task.CompletedAt == nil {
			t.Fatalf("Expected CompletedAt to be set for prior status %s", status)
		}
	}
}

func TestCompleteTwiceRestamps(t *testing.T) {
	task := &Task{Status: StatusPending}
	task.Complete()
	first := *task.CompletedAt

	time.Sleep(time.Millisecond)
	task.Complete()

	if task.Status != StatusCompleted {
		t.Fatalf("Expected status %s, got %s", StatusCompleted, task.Status)
	}
	if !task.CompletedAt.After(first) {
		t.Fatalf("Expected CompletedAt to move forward, got %v then %v", first, *task.CompletedAt)
	}
}

func TestCancelLeavesCompletedAt(t *testing.T) {
	task := &Task{Status: StatusPending}
	task.Cancel()
	if task.Status != StatusCancelled {
		t.Fatalf("Expected status %s, got %s", StatusCancelled, task.Status)
	}
	if task.CompletedAt != nil {
		t.Fatalf("Expected CompletedAt to stay nil, got %v", task.CompletedAt)
	}

	done := &Task{Status: StatusPending}
	done.Complete()
	stamp := *done.CompletedAt
	done.Cancel()
	if done.Status != StatusCancelled {
		t.Fatalf("Expected status %s, got %s", StatusCancelled, done.Status)
	}
	if done.CompletedAt == nil || !done.CompletedAt.Equal(stamp) {
		t.Fatalf("Expected CompletedAt %v to be untouched, got %v", stamp, done.CompletedAt)
	}
}

func TestDisplayNames(t *testing.T) {
	statuses := map[TaskStatus]string{
		StatusPending:    "Pendente",
		StatusInProgress: "Em Progresso",
		StatusCompleted:  "Concluída",
		StatusCancelled:  "Cancelada",
	}
	for status, want := range statuses {
		if got := status.DisplayName(); got != want {
			t.Errorf("%s.DisplayName() = %q, want %q", status, got, want)
		}
	}

	priorities := map[TaskPriority]string{
		PriorityLow:    "Baixa",
		PriorityMedium: "Média",
		PriorityHigh:   "Alta",
		PriorityUrgent: "Urgente",
	}
	for priority, want := range priorities {
		if got := priority.DisplayName(); got != want {
			t.Errorf("%s.DisplayName() = %q, want %q", priority, got, want)
		}
	}
}

func TestParseTaskStatus(t *testing.T) {
	status, err := ParseTaskStatus(" in_progress ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if status != StatusInProgress {
		t.Fatalf("Expected %s, got %s", StatusInProgress, status)
	}

	if _, err := ParseTaskStatus("DONE"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestParseTaskPriority(t *testing.T) {
	priority, err := ParseTaskPriority("urgent")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if priority != PriorityUrgent {
		t.Fatalf("Expected %s, got %s", PriorityUrgent, priority)
	}

	if _, err := ParseTaskPriority(""); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("Expected ErrInvalidPriority, got %v", err)
	}
}

func TestTaskNotFoundErrorMatchesSentinel(t *testing.T) {
	var err error = NewTaskNotFoundError(42)

	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatal("Expected TaskNotFoundError to match ErrTaskNotFound")
	}

	var nf *TaskNotFoundError
	if !errors.As(err, &nf) || nf.ID != 42 {
		t.Fatalf("Expected TaskNotFoundError with ID 42, got %v", err)
	}
	if err.Error() != "task not found with id: 42" {
		t.Fatalf("Unexpected message %q", err.Error())
	}
}
