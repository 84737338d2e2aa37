package domain

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID          string
	UserID      string
	ProjectID   string
	Title       string
	Description string
	Status      TaskStatus
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask creates a new task in the To Do column.
func NewTask(userID, projectID, title string) *Task {
	now := time.Now()
	return &Task{
		UserID:    userID,
		ProjectID: projectID,
		Title:     strings.TrimSpace(title),
		Status:    TaskStatusToDo,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate returns an error if the task is invalid
func (t *Task) Validate() error {
	if t.UserID == "" {
		return fmt.Errorf("%w: owning user is required", ErrValidation)
	}
	if t.ProjectID == "" {
		return fmt.Errorf("%w: project is required", ErrValidation)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: task title is required", ErrValidation)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: unknown task status %q", ErrValidation, t.Status)
	}
	return nil
}
