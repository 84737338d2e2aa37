package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/andy/freelancedesk/internal/db"
	"github.com/andy/freelancedesk/internal/domain"
)

// InvoiceRepo is a SQLite implementation of InvoiceRepository
type InvoiceRepo struct {
	db *db.DB
}

// NewInvoiceRepo creates a new InvoiceRepo
func NewInvoiceRepo(database *db.DB) *InvoiceRepo {
	return &InvoiceRepo{db: database}
}

const invoiceColumns = `
	id, user_id, client_id, invoice_number, date, due_date,
	freelancer_name, freelancer_email, freelancer_address, freelancer_phone,
	client_name, client_email, client_address, client_phone,
	subtotal, discount, tax_rate, shipping, total_amount, status,
	project_id, notes, created_at, updated_at
`

func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	invoice := &domain.Invoice{}
	var date, dueDate, status, createdAt, updatedAt string
	var subtotal, discount, taxRate, shipping, totalAmount string
	var fName, fEmail, fAddress, fPhone sql.NullString
	var cName, cEmail, cAddress, cPhone sql.NullString
	var projectID, notes sql.NullString

	err := row.Scan(
		&invoice.ID,
		&invoice.UserID,
		&invoice.ClientID,
		&invoice.InvoiceNumber,
		&date,
		&dueDate,
		&fName, &fEmail, &fAddress, &fPhone,
		&cName, &cEmail, &cAddress, &cPhone,
		&subtotal, &discount, &taxRate, &shipping, &totalAmount,
		&status,
		&projectID,
		&notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	invoice.FreelancerDetails = domain.ContactDetails{
		Name: fName.String, Email: fEmail.String, Address: fAddress.String, Phone: fPhone.String,
	}
	invoice.ClientDetails = domain.ContactDetails{
		Name: cName.String, Email: cEmail.String, Address: cAddress.String, Phone: cPhone.String,
	}
	invoice.Status = domain.InvoiceStatus(status)
	invoice.ProjectID = projectID.String
	invoice.Notes = notes.String

	if invoice.Date, err = parseTime(date); err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}
	if invoice.DueDate, err = parseTime(dueDate); err != nil {
		return nil, fmt.Errorf("failed to parse due_date: %w", err)
	}
	if invoice.Subtotal, err = parseDecimal(subtotal, "subtotal"); err != nil {
		return nil, err
	}
	if invoice.Discount, err = parseDecimal(discount, "discount"); err != nil {
		return nil, err
	}
	if invoice.TaxRate, err = parseDecimal(taxRate, "tax_rate"); err != nil {
		return nil, err
	}
	if invoice.Shipping, err = parseDecimal(shipping, "shipping"); err != nil {
		return nil, err
	}
	if invoice.TotalAmount, err = parseDecimal(totalAmount, "total_amount"); err != nil {
		return nil, err
	}
	if invoice.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if invoice.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return invoice, nil
}

// Create inserts a new invoice and its line items in one transaction
func (r *InvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}

	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.ExecContext(ctx, query,
		invoice.ID,
		invoice.UserID,
		invoice.ClientID,
		invoice.InvoiceNumber,
		formatTime(invoice.Date),
		formatTime(invoice.DueDate),
		invoice.FreelancerDetails.Name,
		invoice.FreelancerDetails.Email,
		invoice.FreelancerDetails.Address,
		invoice.FreelancerDetails.Phone,
		invoice.ClientDetails.Name,
		invoice.ClientDetails.Email,
		invoice.ClientDetails.Address,
		invoice.ClientDetails.Phone,
		invoice.Subtotal.String(),
		invoice.Discount.String(),
		invoice.TaxRate.String(),
		invoice.Shipping.String(),
		invoice.TotalAmount.String(),
		string(invoice.Status),
		nullString(invoice.ProjectID),
		invoice.Notes,
		formatTime(invoice.CreatedAt),
		formatTime(invoice.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	if err := insertItemsTx(ctx, tx, invoice.ID, invoice.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice: %w", err)
	}

	return nil
}

// GetByID retrieves an invoice with its line items, scoped to the owning user
func (r *InvoiceRepo) GetByID(ctx context.Context, userID, id string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = ? AND user_id = ?`

	invoice, err := scanInvoice(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if invoice.Items, err = r.loadItems(ctx, invoice.ID); err != nil {
		return nil, err
	}

	return invoice, nil
}

// List retrieves all of a user's invoices with their line items
func (r *InvoiceRepo) List(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = ? ORDER BY date DESC`
	return r.queryInvoices(ctx, query, userID)
}

// ListRecent retrieves the most recently created invoices for a user
func (r *InvoiceRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = ? ORDER BY created_at DESC LIMIT ?`
	return r.queryInvoices(ctx, query, userID, limit)
}

func (r *InvoiceRepo) queryInvoices(ctx context.Context, query string, args ...interface{}) ([]*domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	for _, invoice := range invoices {
		if invoice.Items, err = r.loadItems(ctx, invoice.ID); err != nil {
			return nil, err
		}
	}

	return invoices, nil
}

// Update writes the invoice and replaces its line items wholesale
func (r *InvoiceRepo) Update(ctx context.Context, invoice *domain.Invoice) error {
	if err := invoice.Validate(); err != nil {
		return fmt.Errorf("invalid invoice: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE invoices
		SET client_id = ?, invoice_number = ?, date = ?, due_date = ?,
		    freelancer_name = ?, freelancer_email = ?, freelancer_address = ?, freelancer_phone = ?,
		    client_name = ?, client_email = ?, client_address = ?, client_phone = ?,
		    subtotal = ?, discount = ?, tax_rate = ?, shipping = ?, total_amount = ?,
		    status = ?, project_id = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := tx.ExecContext(ctx, query,
		invoice.ClientID,
		invoice.InvoiceNumber,
		formatTime(invoice.Date),
		formatTime(invoice.DueDate),
		invoice.FreelancerDetails.Name,
		invoice.FreelancerDetails.Email,
		invoice.FreelancerDetails.Address,
		invoice.FreelancerDetails.Phone,
		invoice.ClientDetails.Name,
		invoice.ClientDetails.Email,
		invoice.ClientDetails.Address,
		invoice.ClientDetails.Phone,
		invoice.Subtotal.String(),
		invoice.Discount.String(),
		invoice.TaxRate.String(),
		invoice.Shipping.String(),
		invoice.TotalAmount.String(),
		string(invoice.Status),
		nullString(invoice.ProjectID),
		invoice.Notes,
		formatTime(invoice.UpdatedAt),
		invoice.ID,
		invoice.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvoiceNumber
		}
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, invoice.ID); err != nil {
		return fmt.Errorf("failed to clear invoice items: %w", err)
	}
	if err := insertItemsTx(ctx, tx, invoice.ID, invoice.Items); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit invoice: %w", err)
	}

	return nil
}

// Delete removes an invoice and its line items
func (r *InvoiceRepo) Delete(ctx context.Context, userID, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_items WHERE invoice_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete invoice items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM invoices WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
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

// CountByStatus counts a user's invoices with the given status
func (r *InvoiceRepo) CountByStatus(ctx context.Context, userID string, status domain.InvoiceStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM invoices WHERE user_id = ? AND status = ?`,
		userID, string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}
	return count, nil
}

func (r *InvoiceRepo) loadItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT description, quantity, rate, amount FROM invoice_items WHERE invoice_id = ? ORDER BY position`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InvoiceItem, 0)
	for rows.Next() {
		var item domain.InvoiceItem
		var quantity, rate, amount string

		if err := rows.Scan(&item.Description, &quantity, &rate, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item: %w", err)
		}
		if item.Quantity, err = parseDecimal(quantity, "quantity"); err != nil {
			return nil, err
		}
		if item.Rate, err = parseDecimal(rate, "rate"); err != nil {
			return nil, err
		}
		if item.Amount, err = parseDecimal(amount, "amount"); err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, rows.Err()
}

func insertItemsTx(ctx context.Context, tx *sql.Tx, invoiceID string, items []domain.InvoiceItem) error {
	for i, item := range items {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_items (invoice_id, position, description, quantity, rate, amount)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			invoiceID, i, item.Description, item.Quantity.String(), item.Rate.String(), item.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert invoice item: %w", err)
		}
	}
	return nil
}

// nullString converts an optional string to a driver value
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
