package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectStatusNotStarted ProjectStatus = "Not Started"
	ProjectStatusInProgress ProjectStatus = "In Progress"
	ProjectStatusCompleted  ProjectStatus = "Completed"
	ProjectStatusOnHold     ProjectStatus = "On Hold"
	ProjectStatusPending    ProjectStatus = "Pending"
	ProjectStatusPaused     ProjectStatus = "Paused"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusNotStarted, ProjectStatusInProgress, ProjectStatusCompleted,
		ProjectStatusOnHold, ProjectStatusPending, ProjectStatusPaused:
		return true
	}
	return false
}

// Project carries the per-project time accounting state. TotalTimeSpent only
// counts closed sessions; a non-nil TimerStartTime means a session is
// currently running. Across all of a user's projects at most one
// TimerStartTime is set at any instant.
type Project struct {
	ID          string
	UserID      string
	ClientID    string
	Name        string
	Description string
	Status      ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
	Budget      decimal.Decimal
	Progress    int // 0-100

	TotalTimeSpent time.Duration // closed sessions only, millisecond resolution
	TimerStartTime *time.Time    // non-nil while a session is running

	CreatedAt time.Time
	UpdatedAt time.Time

	// Related data (populated by repository)
	Client *Client
}

// NewProject creates a new project with no accumulated time and no running timer.
func NewProject(userID, clientID, name string) *Project {
	now := time.Now()
	return &Project{
		UserID:    userID,
		ClientID:  clientID,
		Name:      strings.TrimSpace(name),
		Status:    ProjectStatusNotStarted,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TimerRunning reports whether a session is currently open.
func (p *Project) TimerRunning() bool {
	return p.TimerStartTime != nil
}

// CurrentElapsed returns the live duration of the open session at the given
// instant, or 0 if no session is running. The result is never persisted.
// A system clock rollback can make this negative; it is intentionally not
// clamped so that stop/accumulate and live display agree.
func (p *Project) CurrentElapsed(now time.Time) time.Duration {
	if p.TimerStartTime == nil {
		return 0
	}
	return now.Sub(*p.TimerStartTime)
}

// BeginSession opens a session at the given instant. Any session already
// open on this project is discarded: its elapsed time is not accumulated,
// matching the restart semantics of the timer endpoint.
func (p *Project) BeginSession(now time.Time) {
	t := now
	p.TimerStartTime = &t
	p.UpdatedAt = now
}

// EndSession closes the open session, accumulating now − TimerStartTime into
// TotalTimeSpent. Returns the accumulated duration and false if no session
// was running (in which case the project is unchanged).
func (p *Project) EndSession(now time.Time) (time.Duration, bool) {
	if p.TimerStartTime == nil {
		return 0, false
	}
	return p.EndSessionWith(now, now.Sub(*p.TimerStartTime))
}

// EndSessionWith closes the open session accumulating a caller-supplied
// duration instead of the wall-clock elapsed. The explicit-commit stop path
// uses this so the amount shown to the user is exactly the amount saved.
func (p *Project) EndSessionWith(now time.Time, committed time.Duration) (time.Duration, bool) {
	if p.TimerStartTime == nil {
		return 0, false
	}
	p.TotalTimeSpent += committed
	p.TimerStartTime = nil
	p.UpdatedAt = now
	return committed, true
}

// Validate returns an error if the project is invalid
func (p *Project) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("%w: owning user is required", ErrValidation)
	}
	if p.ClientID == "" {
		return fmt.Errorf("%w: client is required", ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project name is required", ErrValidation)
	}
	if !p.Status.Valid() {
		return fmt.Errorf("%w: unknown project status %q", ErrValidation, p.Status)
	}
	if p.Progress < 0 || p.Progress > 100 {
		return fmt.Errorf("%w: progress must be between 0 and 100", ErrValidation)
	}
	if p.Budget.IsNegative() {
		return fmt.Errorf("%w: budget cannot be negative", ErrValidation)
	}
	return nil
}
