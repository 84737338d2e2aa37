package domain

import (
	"fmt"
	"time"
)

// TimeLog is a manual log entry, distinct from the live project timer:
// the caller supplies start and (optionally) end, and the duration is
// computed once at creation.
type TimeLog struct {
	ID              string
	UserID          string
	ProjectID       string
	TaskID          string // optional
	Description     string
	StartTime       time.Time
	EndTime         *time.Time
	DurationMinutes float64
	CreatedAt       time.Time

	// Related data (populated by repository)
	ProjectName string
	TaskTitle   string
}

// NewTimeLog creates a manual log entry. A nil end time means "until now";
// the duration in minutes is frozen at creation.
func NewTimeLog(userID, projectID string, start time.Time, end *time.Time, now time.Time) *TimeLog {
	effectiveEnd := now
	if end != nil {
		effectiveEnd = *end
	}
	return &TimeLog{
		UserID:          userID,
		ProjectID:       projectID,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: effectiveEnd.Sub(start).Minutes(),
		CreatedAt:       now,
	}
}

// Validate returns an error if the time log is invalid
func (l *TimeLog) Validate() error {
	if l.UserID == "" {
		return fmt.Errorf("%w: owning user is required", ErrValidation)
	}
	if l.ProjectID == "" {
		return fmt.Errorf("%w: project is required", ErrValidation)
	}
	if l.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrValidation)
	}
	if l.EndTime != nil && l.EndTime.Before(l.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	return nil
}
