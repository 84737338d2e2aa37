package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/andy/freelancedesk/internal/db"
	"github.com/andy/freelancedesk/internal/domain"
)

// TimeLogRepo is a SQLite implementation of TimeLogRepository
type TimeLogRepo struct {
	db *db.DB
}

// NewTimeLogRepo creates a new TimeLogRepo
func NewTimeLogRepo(database *db.DB) *TimeLogRepo {
	return &TimeLogRepo{db: database}
}

// Create appends a manual log entry. Entries are never updated.
func (r *TimeLogRepo) Create(ctx context.Context, log *domain.TimeLog) error {
	if err := log.Validate(); err != nil {
		return fmt.Errorf("invalid time log: %w", err)
	}

	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	query := `
		INSERT INTO time_logs (id, user_id, project_id, task_id, description, start_time, end_time, duration_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.UserID,
		log.ProjectID,
		nullString(log.TaskID),
		log.Description,
		formatTime(log.StartTime),
		nullTime(log.EndTime),
		log.DurationMinutes,
		formatTime(log.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create time log: %w", err)
	}

	return nil
}

// List retrieves a user's log entries newest first, with project and task
// names joined in for display.
func (r *TimeLogRepo) List(ctx context.Context, userID string) ([]*domain.TimeLog, error) {
	query := `
		SELECT l.id, l.user_id, l.project_id, l.task_id, l.description,
		       l.start_time, l.end_time, l.duration_minutes, l.created_at,
		       p.name, COALESCE(t.title, '')
		FROM time_logs l
		JOIN projects p ON p.id = l.project_id
		LEFT JOIN tasks t ON t.id = l.task_id
		WHERE l.user_id = ?
		ORDER BY l.start_time DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*domain.TimeLog, 0)
	for rows.Next() {
		log := &domain.TimeLog{}
		var taskID, description, endTime sql.NullString
		var startTime, createdAt string

		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.ProjectID,
			&taskID,
			&description,
			&startTime,
			&endTime,
			&log.DurationMinutes,
			&createdAt,
			&log.ProjectName,
			&log.TaskTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time log: %w", err)
		}

		log.TaskID = taskID.String
		log.Description = description.String

		if log.StartTime, err = parseTime(startTime); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if log.EndTime, err = scanNullTime(endTime, "end_time"); err != nil {
			return nil, err
		}
		if log.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating time logs: %w", err)
	}

	return logs, nil
}
