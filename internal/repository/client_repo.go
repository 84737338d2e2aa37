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

// ClientRepo is a SQLite implementation of ClientRepository
type ClientRepo struct {
	db *db.DB
}

// NewClientRepo creates a new ClientRepo
func NewClientRepo(database *db.DB) *ClientRepo {
	return &ClientRepo{db: database}
}

const clientColumns = `
	id, user_id, name, email, phone, company_name, address, status,
	trial_start_date, trial_end_date, created_at, updated_at
`

func scanClient(row rowScanner) (*domain.Client, error) {
	client := &domain.Client{}
	var phone, companyName, address, trialStart, trialEnd sql.NullString
	var status, createdAt, updatedAt string

	err := row.Scan(
		&client.ID,
		&client.UserID,
		&client.Name,
		&client.Email,
		&phone,
		&companyName,
		&address,
		&status,
		&trialStart,
		&trialEnd,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	client.Phone = phone.String
	client.CompanyName = companyName.String
	client.Address = address.String
	client.Status = domain.ClientStatus(status)

	if client.TrialStartDate, err = scanNullTime(trialStart, "trial_start_date"); err != nil {
		return nil, err
	}
	if client.TrialEndDate, err = scanNullTime(trialEnd, "trial_end_date"); err != nil {
		return nil, err
	}
	if client.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if client.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return client, nil
}

// Create inserts a new client into the database
func (r *ClientRepo) Create(ctx context.Context, client *domain.Client) error {
	if err := client.Validate(); err != nil {
		return fmt.Errorf("invalid client: %w", err)
	}

	if client.ID == "" {
		client.ID = uuid.New().String()
	}

	query := `
		INSERT INTO clients (
			id, user_id, name, email, phone, company_name, address, status,
			trial_start_date, trial_end_date, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.UserID,
		client.Name,
		client.Email,
		client.Phone,
		client.CompanyName,
		client.Address,
		string(client.Status),
		nullTime(client.TrialStartDate),
		nullTime(client.TrialEndDate),
		formatTime(client.CreatedAt),
		formatTime(client.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	return nil
}

// GetByID retrieves a client scoped to its owning user
func (r *ClientRepo) GetByID(ctx context.Context, userID, id string) (*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ? AND user_id = ?`

	client, err := scanClient(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	return client, nil
}

// List retrieves all clients for a user
func (r *ClientRepo) List(ctx context.Context, userID string) ([]*domain.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = ? ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// Update updates an existing client
func (r *ClientRepo) Update(ctx context.Context, client *domain.Client) error {
	if err := client.Validate(); err != nil {
		return fmt.Errorf("invalid client: %w", err)
	}

	client.UpdatedAt = time.Now()

	query := `
		UPDATE clients
		SET name = ?, email = ?, phone = ?, company_name = ?, address = ?,
		    status = ?, trial_start_date = ?, trial_end_date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.CompanyName,
		client.Address,
		string(client.Status),
		nullTime(client.TrialStartDate),
		nullTime(client.TrialEndDate),
		formatTime(client.UpdatedAt),
		client.ID,
		client.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
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

// Delete removes a client
func (r *ClientRepo) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM clients WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
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

// CountByUser counts all clients for a user
func (r *ClientRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}
