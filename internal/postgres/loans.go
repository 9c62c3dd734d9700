package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"library-api/internal/models"
)

const loanColumns = `id, user_id, book_id, borrowed_date, due_date, returned_date, status, fine_assessed, created_at, updated_at`

func scanLoan(row interface{ Scan(...any) error }) (*models.Loan, error) {
	var l models.Loan
	err := row.Scan(&l.ID, &l.UserID, &l.BookID, &l.BorrowedDate, &l.DueDate,
		&l.ReturnedDate, &l.Status, &l.FineAssessed, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// BorrowBook wypożycza książkę użytkownikowi w jednej transakcji.
// Blokada wiersza książki serializuje równoległe wypożyczenia tego samego tytułu.
func (c *Client) BorrowBook(ctx context.Context, userID, bookID string) (*models.Loan, error) {
	if userID == "" || bookID == "" {
		return nil, fmt.Errorf("ID użytkownika i książki są wymagane")
	}

	tx, err := c.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("błąd otwierania transakcji: %w", err)
	}
	defer tx.Rollback(ctx)

	// Pobierz użytkownika i sprawdź czy jest aktywny
	var isActive bool
	var maxLoans int
	err = tx.QueryRow(ctx, `SELECT is_active, max_loans FROM users WHERE id = $1`, userID).
		Scan(&isActive, &maxLoans)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania użytkownika: %w", err)
	}
	if !isActive {
		return nil, ErrLoanLimit
	}
	if maxLoans <= 0 {
		maxLoans = models.DefaultMaxActiveLoans
	}

	// Zablokuj wiersz książki i sprawdź dostępność
	var available int
	err = tx.QueryRow(ctx,
		`SELECT available_quantity FROM books WHERE id = $1 FOR UPDATE`, bookID).
		Scan(&available)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania książki: %w", err)
	}
	if available <= 0 {
		return nil, ErrOutOfStock
	}

	// Sprawdź limit aktywnych wypożyczeń użytkownika
	var activeLoans int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM loans WHERE user_id = $1 AND status IN ($2, $3)`,
		userID, models.LoanStatusActive, models.LoanStatusOverdue).
		Scan(&activeLoans)
	if err != nil {
		return nil, fmt.Errorf("błąd liczenia wypożyczeń: %w", err)
	}
	if activeLoans >= maxLoans {
		return nil, ErrLoanLimit
	}

	// Zmniejsz liczbę dostępnych egzemplarzy
	_, err = tx.Exec(ctx,
		`UPDATE books SET available_quantity = available_quantity - 1, updated_at = $2 WHERE id = $1`,
		bookID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("błąd aktualizacji dostępności: %w", err)
	}

	// Utwórz wypożyczenie
	now := time.Now()
	loan := &models.Loan{
		ID:           uuid.NewString(),
		UserID:       userID,
		BookID:       bookID,
		BorrowedDate: now,
		DueDate:      now.AddDate(0, 0, models.DefaultLoanPeriodDays),
		Status:       models.LoanStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO loans (`+loanColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		loan.ID, loan.UserID, loan.BookID, loan.BorrowedDate, loan.DueDate,
		loan.ReturnedDate, loan.Status, loan.FineAssessed, loan.CreatedAt, loan.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("błąd zapisywania wypożyczenia: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("błąd zatwierdzania transakcji: %w", err)
	}

	return loan, nil
}

// ReturnLoan obsługuje zwrot książki w jednej transakcji.
// Przy zwrocie po terminie nalicza karę, o ile nie została naliczona wcześniej.
func (c *Client) ReturnLoan(ctx context.Context, loanID string) (*models.Loan, error) {
	if loanID == "" {
		return nil, fmt.Errorf("ID wypożyczenia nie może być puste")
	}

	tx, err := c.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("błąd otwierania transakcji: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, loanID)
	loan, err := scanLoan(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania wypożyczenia: %w", err)
	}

	if loan.Status == models.LoanStatusReturned {
		return nil, ErrAlreadyReturned
	}

	now := time.Now()
	loan.ReturnedDate = &now
	loan.Status = models.LoanStatusReturned
	loan.UpdatedAt = now

	// Nalicz karę jeśli zwrot jest po terminie i kara nie była jeszcze naliczona
	if now.After(loan.DueDate) && !loan.FineAssessed {
		if err := insertFine(ctx, tx, loan, loan.OverdueDays(now)); err != nil {
			return nil, err
		}
		loan.FineAssessed = true
	}

	_, err = tx.Exec(ctx,
		`UPDATE loans
		 SET returned_date = $2, status = $3, fine_assessed = $4, updated_at = $5
		 WHERE id = $1`,
		loan.ID, loan.ReturnedDate, loan.Status, loan.FineAssessed, loan.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("błąd aktualizacji wypożyczenia: %w", err)
	}

	// Zwróć egzemplarz do katalogu; LEAST pilnuje górnej granicy nakładu
	_, err = tx.Exec(ctx,
		`UPDATE books
		 SET available_quantity = LEAST(quantity, available_quantity + 1), updated_at = $2
		 WHERE id = $1`,
		loan.BookID, now)
	if err != nil {
		return nil, fmt.Errorf("błąd aktualizacji dostępności: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("błąd zatwierdzania transakcji: %w", err)
	}

	return loan, nil
}

// insertFine zapisuje karę za wypożyczenie w ramach trwającej transakcji
func insertFine(ctx context.Context, tx pgx.Tx, loan *models.Loan, overdueDays int) error {
	now := time.Now()
	fine := &models.Fine{
		ID:        uuid.NewString(),
		LoanID:    loan.ID,
		UserID:    loan.UserID,
		Amount:    models.CalculateFineAmount(overdueDays),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO fines (`+fineColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		fine.ID, fine.LoanID, fine.UserID, fine.Amount, fine.Paid,
		fine.CreatedAt, fine.UpdatedAt)
	if err != nil {
		return fmt.Errorf("błąd zapisywania kary: %w", err)
	}

	return nil
}

// MarkLoanOverdue oznacza aktywne wypożyczenie jako przeterminowane
// i jednorazowo nalicza karę za dotychczasowe opóźnienie.
func (c *Client) MarkLoanOverdue(ctx context.Context, loanID string) error {
	if loanID == "" {
		return fmt.Errorf("ID wypożyczenia nie może być puste")
	}

	tx, err := c.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("błąd otwierania transakcji: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, loanID)
	loan, err := scanLoan(row)
	if err != nil {
		if isNoRows(err) {
			return ErrNotFound
		}
		return fmt.Errorf("błąd pobierania wypożyczenia: %w", err)
	}

	if loan.Status != models.LoanStatusActive {
		// Zwrócone lub już oznaczone - nic do zrobienia
		return nil
	}

	now := time.Now()
	if !now.After(loan.DueDate) {
		return nil
	}

	loan.Status = models.LoanStatusOverdue
	loan.UpdatedAt = now

	if !loan.FineAssessed {
		if err := insertFine(ctx, tx, loan, loan.OverdueDays(now)); err != nil {
			return err
		}
		loan.FineAssessed = true
	}

	_, err = tx.Exec(ctx,
		`UPDATE loans SET status = $2, fine_assessed = $3, updated_at = $4 WHERE id = $1`,
		loan.ID, loan.Status, loan.FineAssessed, loan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("błąd aktualizacji wypożyczenia: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("błąd zatwierdzania transakcji: %w", err)
	}

	return nil
}

// GetLoan pobiera wypożyczenie po ID
func (c *Client) GetLoan(ctx context.Context, id string) (*models.Loan, error) {
	if id == "" {
		return nil, fmt.Errorf("ID wypożyczenia nie może być puste")
	}

	row := c.Pool.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	loan, err := scanLoan(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("błąd pobierania wypożyczenia: %w", err)
	}

	return loan, nil
}

// GetUserLoans pobiera wypożyczenia użytkownika, najnowsze najpierw
func (c *Client) GetUserLoans(ctx context.Context, userID string) ([]*models.Loan, error) {
	if userID == "" {
		return nil, fmt.Errorf("ID użytkownika nie może być puste")
	}

	rows, err := c.Pool.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE user_id = $1 ORDER BY borrowed_date DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania wypożyczeń: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("błąd parsowania wypożyczenia: %w", err)
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

// GetOverdueCandidates pobiera aktywne wypożyczenia po terminie zwrotu
func (c *Client) GetOverdueCandidates(ctx context.Context, now time.Time) ([]*models.Loan, error) {
	rows, err := c.Pool.Query(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE status = $1 AND due_date < $2`,
		models.LoanStatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("błąd pobierania przeterminowanych wypożyczeń: %w", err)
	}
	defer rows.Close()

	var loans []*models.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("błąd parsowania wypożyczenia: %w", err)
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}
