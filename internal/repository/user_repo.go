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

// UserRepo is a SQLite implementation of UserRepository
type UserRepo struct {
	db *db.DB
}

// NewUserRepo creates a new UserRepo
func NewUserRepo(database *db.DB) *UserRepo {
	return &UserRepo{db: database}
}

// Create inserts a new user, generating an id and API token if unset
func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.APIToken == "" {
		user.APIToken = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, api_token, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.APIToken, formatTime(user.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByToken resolves an API token to its user
func (r *UserRepo) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	user := &domain.User{}
	var createdAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, api_token, created_at FROM users WHERE api_token = ?`,
		token,
	).Scan(&user.ID, &user.Name, &user.Email, &user.APIToken, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return user, nil
}

// List retrieves all users
func (r *UserRepo) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, api_token, created_at FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		var createdAt string

		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.APIToken, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		if user.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}

		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
