package postgres

import (
	"context"
	"fmt"
	"time"

	"library-api/internal/models"
)

const fineColumns = `id, loan_id, user_id, amount, paid, created_at, updated_at`

func scanFine(row interface{ Scan(...any) error }) (*models.Fine, error) {
	var f models.Fine
	err := row.Scan(&f.ID, &f.LoanID, &f.UserID, &f.Amount, &f.Paid,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetFine pobiera karę po ID
func (c *Client) GetFine(ctx context.Context, id string) (*models.Fine, error) {
	if id == "" {
		return nil, fmt.Errorf("ID kary nie może być puste")
	}

	row := c.Pool.QueryRow(ctx, `SELECT `+fineColumns+` FROM fines WHERE id = $1`, id)
	fine, err := scanFine(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania kary: %w", err)
	}

	return fine, nil
}

// GetUserFines pobiera kary użytkownika, najnowsze najpierw
func (c *Client) GetUserFines(ctx context.Context, userID string) ([]*models.Fine, error) {
	if userID == "" {
		return nil, fmt.Errorf("ID użytkownika nie może być puste")
	}

	rows, err := c.Pool.Query(ctx,
		`SELECT `+fineColumns+` FROM fines WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania kar: %w", err)
	}
	defer rows.Close()

	var fines []*models.Fine
	for rows.Next() {
		fine, err := scanFine(rows)
		if err != nil {
			return nil, fmt.Errorf("błąd parsowania kary: %w", err)
		}
		fines = append(fines, fine)
	}

	return fines, rows.Err()
}

// PayFine oznacza karę jako opłaconą.
// Zwraca ErrAlreadyPaid przy próbie ponownej zapłaty.
func (c *Client) PayFine(ctx context.Context, fineID string) (*models.Fine, error) {
	if fineID == "" {
		return nil, fmt.Errorf("ID kary nie może być puste")
	}

	tx, err := c.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("błąd otwierania transakcji: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+fineColumns+` FROM fines WHERE id = $1 FOR UPDATE`, fineID)
	fine, err := scanFine(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania kary: %w", err)
	}

	if fine.Paid {
		return nil, ErrAlreadyPaid
	}

	fine.Paid = true
	fine.UpdatedAt = time.Now()

	_, err = tx.Exec(ctx,
		`UPDATE fines SET paid = TRUE, updated_at = $2 WHERE id = $1`,
		fine.ID, fine.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("błąd aktualizacji kary: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("błąd zatwierdzania transakcji: %w", err)
	}

	return fine, nil
}
