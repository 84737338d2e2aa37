package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/andy/freelancedesk/internal/db"
	"github.com/andy/freelancedesk/internal/domain"
)

// TrialRepo is a SQLite implementation of TrialRepository
type TrialRepo struct {
	db *db.DB
}

// NewTrialRepo creates a new TrialRepo
func NewTrialRepo(database *db.DB) *TrialRepo {
	return &TrialRepo{db: database}
}

// Create appends a trial to the ledger. Trials are never updated.
func (r *TrialRepo) Create(ctx context.Context, trial *domain.Trial) error {
	if err := trial.Validate(); err != nil {
		return fmt.Errorf("invalid trial: %w", err)
	}

	if trial.ID == "" {
		trial.ID = uuid.New().String()
	}

	query := `
		INSERT INTO trials (id, user_id, project_id, date, notes, cost, is_extra, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		trial.ID,
		trial.UserID,
		trial.ProjectID,
		formatTime(trial.Date),
		trial.Notes,
		trial.Cost.String(),
		trial.IsExtra,
		formatTime(trial.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create trial: %w", err)
	}

	return nil
}

// CountByProject counts all trials recorded for a project
func (r *TrialRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trials WHERE project_id = ?`, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trials: %w", err)
	}
	return count, nil
}

// ListByProject retrieves a project's trials, newest first
func (r *TrialRepo) ListByProject(ctx context.Context, userID, projectID string) ([]*domain.Trial, error) {
	query := `
		SELECT t.id, t.user_id, t.project_id, t.date, t.notes, t.cost, t.is_extra, t.created_at, p.name
		FROM trials t
		JOIN projects p ON p.id = t.project_id
		WHERE t.project_id = ? AND t.user_id = ?
		ORDER BY t.date DESC
	`
	return r.queryTrials(ctx, query, projectID, userID)
}

// List retrieves all of a user's trials, newest first
func (r *TrialRepo) List(ctx context.Context, userID string) ([]*domain.Trial, error) {
	query := `
		SELECT t.id, t.user_id, t.project_id, t.date, t.notes, t.cost, t.is_extra, t.created_at, p.name
		FROM trials t
		JOIN projects p ON p.id = t.project_id
		WHERE t.user_id = ?
		ORDER BY t.date DESC
	`
	return r.queryTrials(ctx, query, userID)
}

func (r *TrialRepo) queryTrials(ctx context.Context, query string, args ...interface{}) ([]*domain.Trial, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trials: %w", err)
	}
	defer rows.Close()

	trials := make([]*domain.Trial, 0)
	for rows.Next() {
		trial := &domain.Trial{}
		var date, cost, createdAt string
		var notes sql.NullString

		err := rows.Scan(
			&trial.ID,
			&trial.UserID,
			&trial.ProjectID,
			&date,
			&notes,
			&cost,
			&trial.IsExtra,
			&createdAt,
			&trial.ProjectName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}

		trial.Notes = notes.String
		if trial.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		if trial.Cost, err = parseDecimal(cost, "cost"); err != nil {
			return nil, err
		}
		if trial.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		trials = append(trials, trial)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trials: %w", err)
	}

	return trials, nil
}
