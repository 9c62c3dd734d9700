package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library-api/internal/models"
)

const userColumns = `id, username, password_hash, email, role, is_active, max_loans, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.Role,
		&u.IsActive, &u.MaxLoans, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser zapisuje nowego użytkownika.
// Zwraca ErrDuplicate gdy nazwa użytkownika lub email są już zajęte.
func (c *Client) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("użytkownik nie może być nil")
	}
	if user.Username == "" || user.Email == "" {
		return fmt.Errorf("nazwa użytkownika i email są wymagane")
	}

	now := time.Now()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.MaxLoans <= 0 {
		user.MaxLoans = models.DefaultMaxActiveLoans
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := c.Pool.Exec(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID, user.Username, user.PasswordHash, user.Email, user.Role,
		user.IsActive, user.MaxLoans, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("błąd zapisywania użytkownika: %w", err)
	}

	return nil
}

// GetUser pobiera użytkownika po ID
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, fmt.Errorf("ID użytkownika nie może być puste")
	}

	row := c.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania użytkownika: %w", err)
	}

	return user, nil
}

// GetUserByUsername pobiera użytkownika po nazwie
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("nazwa użytkownika nie może być pusta")
	}

	row := c.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania użytkownika: %w", err)
	}

	return user, nil
}

// UpdateUser aktualizuje dane użytkownika
func (c *Client) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("użytkownik z ID jest wymagany")
	}

	user.UpdatedAt = time.Now()

	tag, err := c.Pool.Exec(ctx,
		`UPDATE users
		 SET username = $2, password_hash = $3, email = $4, role = $5,
		     is_active = $6, max_loans = $7, updated_at = $8
		 WHERE id = $1`,
		user.ID, user.Username, user.PasswordHash, user.Email, user.Role,
		user.IsActive, user.MaxLoans, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("błąd aktualizacji użytkownika: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// ListUsers pobiera wszystkich użytkowników
func (c *Client) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := c.Pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania użytkowników: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("błąd parsowania użytkownika: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
