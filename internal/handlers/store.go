package handlers

import (
	"context"

	"library-api/internal/models"
)

// UserStore to operacje na kontach użytkowników wymagane przez handlery
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

// BookStore to operacje na katalogu książek
type BookStore interface {
	CreateBook(ctx context.Context, book *models.Book) error
	GetBook(ctx context.Context, id string) (*models.Book, error)
	ListBooks(ctx context.Context) ([]*models.Book, error)
	UpdateBook(ctx context.Context, book *models.Book) error
	DeleteBook(ctx context.Context, id string) error
}

// LoanStore to operacje na rejestrze wypożyczeń
type LoanStore interface {
	BorrowBook(ctx context.Context, userID, bookID string) (*models.Loan, error)
	ReturnLoan(ctx context.Context, loanID string) (*models.Loan, error)
	GetLoan(ctx context.Context, id string) (*models.Loan, error)
	GetUserLoans(ctx context.Context, userID string) ([]*models.Loan, error)
}

// FineStore to operacje na karach
type FineStore interface {
	GetFine(ctx context.Context, id string) (*models.Fine, error)
	GetUserFines(ctx context.Context, userID string) ([]*models.Fine, error)
	PayFine(ctx context.Context, fineID string) (*models.Fine, error)
}
