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

// ExpenseRepo is a SQLite implementation of ExpenseRepository
type ExpenseRepo struct {
	db *db.DB
}

// NewExpenseRepo creates a new ExpenseRepo
func NewExpenseRepo(database *db.DB) *ExpenseRepo {
	return &ExpenseRepo{db: database}
}

const expenseColumns = `id, user_id, title, amount, category, date, description, created_at, updated_at`

func scanExpense(row rowScanner) (*domain.Expense, error) {
	expense := &domain.Expense{}
	var description sql.NullString
	var amount, date, createdAt, updatedAt string

	err := row.Scan(
		&expense.ID,
		&expense.UserID,
		&expense.Title,
		&amount,
		&expense.Category,
		&date,
		&description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	expense.Description = description.String

	if expense.Amount, err = parseDecimal(amount, "amount"); err != nil {
		return nil, err
	}
	if expense.Date, err = parseTime(date); err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}
	if expense.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if expense.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return expense, nil
}

// Create inserts a new expense
func (r *ExpenseRepo) Create(ctx context.Context, expense *domain.Expense) error {
	if err := expense.Validate(); err != nil {
		return fmt.Errorf("invalid expense: %w", err)
	}

	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		expense.ID,
		expense.UserID,
		expense.Title,
		expense.Amount.String(),
		expense.Category,
		formatTime(expense.Date),
		expense.Description,
		formatTime(expense.CreatedAt),
		formatTime(expense.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetByID retrieves an expense scoped to its owning user
func (r *ExpenseRepo) GetByID(ctx context.Context, userID, id string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ? AND user_id = ?`

	expense, err := scanExpense(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// List retrieves a user's expenses, newest first
func (r *ExpenseRepo) List(ctx context.Context, userID string) ([]*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE user_id = ? ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// Update updates an existing expense
func (r *ExpenseRepo) Update(ctx context.Context, expense *domain.Expense) error {
	if err := expense.Validate(); err != nil {
		return fmt.Errorf("invalid expense: %w", err)
	}

	expense.UpdatedAt = time.Now()

	query := `
		UPDATE expenses
		SET title = ?, amount = ?, category = ?, date = ?, description = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		expense.Title,
		expense.Amount.String(),
		expense.Category,
		formatTime(expense.Date),
		expense.Description,
		formatTime(expense.UpdatedAt),
		expense.ID,
		expense.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
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

// Delete removes an expense
func (r *ExpenseRepo) Delete(ctx context.Context, userID, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
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
