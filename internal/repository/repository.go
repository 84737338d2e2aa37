package repository

import (
	"context"
	"time"

	"github.com/andy/freelancedesk/internal/domain"
)

// Every read and write below is scoped by the owning user id. A lookup that
// matches no row for that user returns domain.ErrNotFound whether the record
// is missing or belongs to someone else.

// UserRepository manages API principals
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// ClientRepository manages client persistence
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, userID, id string) (*domain.Client, error)
	List(ctx context.Context, userID string) ([]*domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, userID, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

// ProjectRepository manages project persistence and the timer state machine.
// StartTimer/StopTimer/StopActiveTimer each run in a single immediate
// transaction so the read-active → close → write-new-start sequence is
// atomic with respect to other timer mutations.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, userID, id string) (*domain.Project, error)
	List(ctx context.Context, userID string) ([]*domain.Project, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	// Delete removes the project and, by cascade, its trials.
	Delete(ctx context.Context, userID, id string) error
	CountByStatus(ctx context.Context, userID string, status domain.ProjectStatus) (int, error)

	// FindRunning returns the user's project with an open session, or nil.
	FindRunning(ctx context.Context, userID string) (*domain.Project, error)
	// StartTimer force-closes any other running session for the user, then
	// opens a session on the target project at now.
	StartTimer(ctx context.Context, userID, projectID string, now time.Time) (*domain.Project, error)
	// StopTimer closes the project's open session, accumulating committed
	// if non-nil, otherwise now − timerStartTime. Returns stopped=false
	// (benign no-op) when no session is running.
	StopTimer(ctx context.Context, userID, projectID string, now time.Time, committed *time.Duration) (*domain.Project, bool, error)
	// StopActiveTimer closes whichever session is running for the user.
	StopActiveTimer(ctx context.Context, userID string, now time.Time) (*domain.Project, bool, error)
}

// TrialRepository manages the append-only trial ledger
type TrialRepository interface {
	Create(ctx context.Context, trial *domain.Trial) error
	CountByProject(ctx context.Context, projectID string) (int, error)
	ListByProject(ctx context.Context, userID, projectID string) ([]*domain.Trial, error)
	List(ctx context.Context, userID string) ([]*domain.Trial, error)
}

// InvoiceRepository manages invoice persistence including line items
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, userID, id string) (*domain.Invoice, error)
	List(ctx context.Context, userID string) ([]*domain.Invoice, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Invoice, error)
	// Update writes the invoice and replaces its line items wholesale.
	Update(ctx context.Context, invoice *domain.Invoice) error
	Delete(ctx context.Context, userID, id string) error
	CountByStatus(ctx context.Context, userID string, status domain.InvoiceStatus) (int, error)
}

// TaskRepository manages task persistence
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, userID, id string) (*domain.Task, error)
	List(ctx context.Context, userID string, projectID *string) ([]*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, userID, id string) error
}

// ExpenseRepository manages expense persistence
type ExpenseRepository interface {
	Create(ctx context.Context, expense *domain.Expense) error
	GetByID(ctx context.Context, userID, id string) (*domain.Expense, error)
	List(ctx context.Context, userID string) ([]*domain.Expense, error)
	Update(ctx context.Context, expense *domain.Expense) error
	Delete(ctx context.Context, userID, id string) error
}

// TimeLogRepository manages manual time log entries
type TimeLogRepository interface {
	Create(ctx context.Context, log *domain.TimeLog) error
	List(ctx context.Context, userID string) ([]*domain.TimeLog, error)
}
