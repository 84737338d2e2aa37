package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andy/freelancedesk/internal/db"
	"github.com/andy/freelancedesk/internal/domain"
)

// ProjectRepo is a SQLite implementation of ProjectRepository
type ProjectRepo struct {
	db *db.DB
}

// NewProjectRepo creates a new ProjectRepo
func NewProjectRepo(database *db.DB) *ProjectRepo {
	return &ProjectRepo{db: database}
}

const projectColumns = `
	id, user_id, client_id, name, description, status, start_date, due_date,
	budget, progress, total_time_spent_ms, timer_start_time, created_at, updated_at
`

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	project := &domain.Project{}
	var description, startDate, dueDate, timerStart sql.NullString
	var budget, status, createdAt, updatedAt string
	var totalMS int64

	err := row.Scan(
		&project.ID,
		&project.UserID,
		&project.ClientID,
		&project.Name,
		&description,
		&status,
		&startDate,
		&dueDate,
		&budget,
		&project.Progress,
		&totalMS,
		&timerStart,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	project.Description = description.String
	project.Status = domain.ProjectStatus(status)
	project.TotalTimeSpent = time.Duration(totalMS) * time.Millisecond

	if project.Budget, err = parseDecimal(budget, "budget"); err != nil {
		return nil, err
	}
	if project.StartDate, err = scanNullTime(startDate, "start_date"); err != nil {
		return nil, err
	}
	if project.DueDate, err = scanNullTime(dueDate, "due_date"); err != nil {
		return nil, err
	}
	if project.TimerStartTime, err = scanNullTime(timerStart, "timer_start_time"); err != nil {
		return nil, err
	}
	if project.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if project.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return project, nil
}

// Create inserts a new project into the database
func (r *ProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	if project.ID == "" {
		project.ID = uuid.New().String()
	}

	query := `
		INSERT INTO projects (
			id, user_id, client_id, name, description, status, start_date, due_date,
			budget, progress, total_time_spent_ms, timer_start_time, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		project.ID,
		project.UserID,
		project.ClientID,
		project.Name,
		project.Description,
		string(project.Status),
		nullTime(project.StartDate),
		nullTime(project.DueDate),
		project.Budget.String(),
		project.Progress,
		project.TotalTimeSpent.Milliseconds(),
		nullTime(project.TimerStartTime),
		formatTime(project.CreatedAt),
		formatTime(project.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetByID retrieves a project scoped to its owning user
func (r *ProjectRepo) GetByID(ctx context.Context, userID, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND user_id = ?`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return project, nil
}

// List retrieves all projects for a user
func (r *ProjectRepo) List(ctx context.Context, userID string) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = ? ORDER BY name`
	return r.queryProjects(ctx, query, userID)
}

// ListRecent retrieves the most recently updated projects for a user
func (r *ProjectRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = ? ORDER BY updated_at DESC LIMIT ?`
	return r.queryProjects(ctx, query, userID, limit)
}

func (r *ProjectRepo) queryProjects(ctx context.Context, query string, args ...interface{}) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// Update updates an existing project. Timer state transitions should go
// through StartTimer/StopTimer instead; Update writes timer fields verbatim
// and is meant for administrative corrections and plain field edits.
func (r *ProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	project.UpdatedAt = time.Now()

	query := `
		UPDATE projects
		SET client_id = ?, name = ?, description = ?, status = ?, start_date = ?,
		    due_date = ?, budget = ?, progress = ?, total_time_spent_ms = ?,
		    timer_start_time = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		project.ClientID,
		project.Name,
		project.Description,
		string(project.Status),
		nullTime(project.StartDate),
		nullTime(project.DueDate),
		project.Budget.String(),
		project.Progress,
		project.TotalTimeSpent.Milliseconds(),
		nullTime(project.TimerStartTime),
		formatTime(project.UpdatedAt),
		project.ID,
		project.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes a project and cascades its trials
func (r *ProjectRepo) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Trials cascade via the foreign key, but delete explicitly so the
	// behavior does not depend on PRAGMA foreign_keys being on.
	if _, err := tx.ExecContext(ctx, `DELETE FROM trials WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete project trials: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	return nil
}

// CountByStatus counts a user's projects with the given status
func (r *ProjectRepo) CountByStatus(ctx context.Context, userID string, status domain.ProjectStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE user_id = ? AND status = ?`,
		userID, string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// FindRunning returns the user's project with an open timer session, or nil
func (r *ProjectRepo) FindRunning(ctx context.Context, userID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = ? AND timer_start_time IS NOT NULL`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find running timer: %w", err)
	}

	return project, nil
}

// StartTimer opens a session on the target project, force-closing any other
// running session for the user first. The whole read-close-write sequence
// runs in one transaction.
func (r *ProjectRepo) StartTimer(ctx context.Context, userID, projectID string, now time.Time) (*domain.Project, error) {
	var started *domain.Project

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		target, err := getProjectTx(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}

		// Close every other running session, banking its elapsed time.
		running, err := queryProjectsTx(ctx, tx,
			`SELECT `+projectColumns+` FROM projects WHERE user_id = ? AND timer_start_time IS NOT NULL AND id != ?`,
			userID, projectID,
		)
		if err != nil {
			return err
		}
		for _, p := range running {
			p.EndSession(now)
			if err := saveTimerStateTx(ctx, tx, p); err != nil {
				return err
			}
		}

		// A session already open on the target is discarded and restarted.
		target.BeginSession(now)
		if err := saveTimerStateTx(ctx, tx, target); err != nil {
			return err
		}

		started = target
		return nil
	})
	if err != nil {
		return nil, err
	}

	return started, nil
}

// StopTimer closes the project's open session. When committed is non-nil the
// caller-supplied duration is banked instead of now − timerStartTime.
func (r *ProjectRepo) StopTimer(ctx context.Context, userID, projectID string, now time.Time, committed *time.Duration) (*domain.Project, bool, error) {
	var (
		project *domain.Project
		stopped bool
	)

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		target, err := getProjectTx(ctx, tx, userID, projectID)
		if err != nil {
			return err
		}
		project = target

		if committed != nil {
			_, stopped = target.EndSessionWith(now, *committed)
		} else {
			_, stopped = target.EndSession(now)
		}
		if !stopped {
			// No active timer: benign no-op, nothing to write.
			return nil
		}

		return saveTimerStateTx(ctx, tx, target)
	})
	if err != nil {
		return nil, false, err
	}

	return project, stopped, nil
}

// StopActiveTimer closes whichever session is running for the user
func (r *ProjectRepo) StopActiveTimer(ctx context.Context, userID string, now time.Time) (*domain.Project, bool, error) {
	var (
		project *domain.Project
		stopped bool
	)

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		running, err := queryProjectsTx(ctx, tx,
			`SELECT `+projectColumns+` FROM projects WHERE user_id = ? AND timer_start_time IS NOT NULL`,
			userID,
		)
		if err != nil {
			return err
		}
		if len(running) == 0 {
			return nil
		}

		project = running[0]
		_, stopped = project.EndSession(now)
		return saveTimerStateTx(ctx, tx, project)
	})
	if err != nil {
		return nil, false, err
	}

	return project, stopped, nil
}

// inTx runs fn inside a transaction, committing on success
func (r *ProjectRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func getProjectTx(ctx context.Context, tx *sql.Tx, userID, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND user_id = ?`
	project, err := scanProject(tx.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func queryProjectsTx(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) ([]*domain.Project, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// saveTimerStateTx persists only the fields the timer state machine touches
func saveTimerStateTx(ctx context.Context, tx *sql.Tx, project *domain.Project) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE projects SET total_time_spent_ms = ?, timer_start_time = ?, updated_at = ? WHERE id = ?`,
		project.TotalTimeSpent.Milliseconds(),
		nullTime(project.TimerStartTime),
		formatTime(project.UpdatedAt),
		project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to save timer state: %w", err)
	}
	return nil
}
