package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Błędy domenowe zwracane przez warstwę przechowywania
var (
	ErrNotFound        = errors.New("rekord nie został znaleziony")
	ErrDuplicate       = errors.New("rekord o tych danych już istnieje")
	ErrOutOfStock      = errors.New("brak dostępnych egzemplarzy")
	ErrLoanLimit       = errors.New("przekroczono limit wypożyczeń")
	ErrAlreadyReturned = errors.New("wypożyczenie zostało już zwrócone")
	ErrAlreadyPaid     = errors.New("kara została już opłacona")
)

// Client zapewnia dostęp do bazy PostgreSQL
type Client struct {
	Pool *pgxpool.Pool
}

// Connect otwiera pulę połączeń do bazy i weryfikuje połączenie
func Connect(ctx context.Context, databaseURL string) (*Client, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("błąd tworzenia puli połączeń: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("błąd połączenia z bazą danych: %w", err)
	}

	return &Client{Pool: pool}, nil
}

// Close zamyka pulę połączeń
func (c *Client) Close() {
	c.Pool.Close()
}

// InitSchema zakłada tabele jeśli jeszcze nie istnieją
func (c *Client) InitSchema(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			role          TEXT NOT NULL,
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			max_loans     INTEGER NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			id                 TEXT PRIMARY KEY,
			title              TEXT NOT NULL,
			author             TEXT NOT NULL,
			isbn               TEXT NOT NULL UNIQUE,
			quantity           INTEGER NOT NULL CHECK (quantity >= 0),
			available_quantity INTEGER NOT NULL
				CHECK (available_quantity >= 0 AND available_quantity <= quantity),
			created_at         TIMESTAMPTZ NOT NULL,
			updated_at         TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS loans (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			book_id       TEXT NOT NULL REFERENCES books(id) ON DELETE CASCADE,
			borrowed_date TIMESTAMPTZ NOT NULL,
			due_date      TIMESTAMPTZ NOT NULL,
			returned_date TIMESTAMPTZ,
			status        TEXT NOT NULL,
			fine_assessed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fines (
			id         TEXT PRIMARY KEY,
			loan_id    TEXT NOT NULL REFERENCES loans(id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			amount     NUMERIC(10,2) NOT NULL CHECK (amount >= 0),
			paid       BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loans_user_status ON loans (user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_fines_user ON fines (user_id)`,
	}

	for _, stmt := range schema {
		if _, err := c.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("błąd zakładania schematu: %w", err)
		}
	}

	return nil
}

// isUniqueViolation sprawdza czy błąd pochodzi z naruszenia ograniczenia unikalności
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isNoRows sprawdza czy zapytanie nie zwróciło żadnego wiersza
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
