package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library-api/internal/models"
)

const bookColumns = `id, title, author, isbn, quantity, available_quantity, created_at, updated_at`

func scanBook(row interface{ Scan(...any) error }) (*models.Book, error) {
	var b models.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Quantity,
		&b.AvailableQuantity, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBook zapisuje nową książkę. Liczba dostępnych egzemplarzy jest
// inicjalizowana pełnym nakładem. Zwraca ErrDuplicate przy zajętym ISBN.
func (c *Client) CreateBook(ctx context.Context, book *models.Book) error {
	if book == nil {
		return fmt.Errorf("książka nie może być nil")
	}
	if book.Title == "" || book.ISBN == "" {
		return fmt.Errorf("tytuł i ISBN są wymagane")
	}
	if book.Quantity < 0 {
		return fmt.Errorf("liczba egzemplarzy nie może być ujemna")
	}

	now := time.Now()
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	book.AvailableQuantity = book.Quantity
	book.CreatedAt = now
	book.UpdatedAt = now

	_, err := c.Pool.Exec(ctx,
		`INSERT INTO books (`+bookColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		book.ID, book.Title, book.Author, book.ISBN, book.Quantity,
		book.AvailableQuantity, book.CreatedAt, book.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("błąd zapisywania książki: %w", err)
	}

	return nil
}

// GetBook pobiera książkę po ID
func (c *Client) GetBook(ctx context.Context, id string) (*models.Book, error) {
	if id == "" {
		return nil, fmt.Errorf("ID książki nie może być puste")
	}

	row := c.Pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	book, err := scanBook(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania książki: %w", err)
	}

	return book, nil
}

// GetBookByISBN pobiera książkę po numerze ISBN
func (c *Client) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	if isbn == "" {
		return nil, fmt.Errorf("ISBN nie może być pusty")
	}

	row := c.Pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE isbn = $1`, isbn)
	book, err := scanBook(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania książki: %w", err)
	}

	return book, nil
}

// ListBooks pobiera wszystkie książki
func (c *Client) ListBooks(ctx context.Context) ([]*models.Book, error) {
	rows, err := c.Pool.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania książek: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("błąd parsowania książki: %w", err)
		}
		books = append(books, book)
	}

	return books, rows.Err()
}

// UpdateBook aktualizuje dane książki. Gdy nakład maleje poniżej liczby
// dostępnych egzemplarzy, dostępność jest przycinana do nowego nakładu.
func (c *Client) UpdateBook(ctx context.Context, book *models.Book) error {
	if book == nil || book.ID == "" {
		return fmt.Errorf("książka z ID jest wymagana")
	}
	if book.Quantity < 0 {
		return fmt.Errorf("liczba egzemplarzy nie może być ujemna")
	}

	if book.AvailableQuantity > book.Quantity {
		book.AvailableQuantity = book.Quantity
	}
	if book.AvailableQuantity < 0 {
		book.AvailableQuantity = 0
	}
	book.UpdatedAt = time.Now()

	tag, err := c.Pool.Exec(ctx,
		`UPDATE books
		 SET title = $2, author = $3, isbn = $4, quantity = $5,
		     available_quantity = $6, updated_at = $7
		 WHERE id = $1`,
		book.ID, book.Title, book.Author, book.ISBN, book.Quantity,
		book.AvailableQuantity, book.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("błąd aktualizacji książki: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteBook usuwa książkę. Powiązane wypożyczenia są usuwane kaskadowo.
func (c *Client) DeleteBook(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("ID książki nie może być puste")
	}

	tag, err := c.Pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("błąd usuwania książki: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
