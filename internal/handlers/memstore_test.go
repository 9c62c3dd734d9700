package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"library-api/internal/models"
	"library-api/internal/postgres"
)

// memStore to magazyn w pamięci odtwarzający semantykę warstwy PostgreSQL
// na potrzeby testów handlerów
type memStore struct {
	mu    sync.Mutex
	users map[string]*models.User
	books map[string]*models.Book
	loans map[string]*models.Loan
	fines map[string]*models.Fine
	now   func() time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]*models.User),
		books: make(map[string]*models.Book),
		loans: make(map[string]*models.Loan),
		fines: make(map[string]*models.Fine),
		now:   time.Now,
	}
}

func copyUser(u *models.User) *models.User { c := *u; return &c }
func copyBook(b *models.Book) *models.Book { c := *b; return &c }
func copyLoan(l *models.Loan) *models.Loan {
	c := *l
	if l.ReturnedDate != nil {
		d := *l.ReturnedDate
		c.ReturnedDate = &d
	}
	return &c
}
func copyFine(f *models.Fine) *models.Fine { c := *f; return &c }

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return postgres.ErrDuplicate
		}
	}

	now := m.now()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.MaxLoans <= 0 {
		user.MaxLoans = models.DefaultMaxActiveLoans
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *memStore) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return copyUser(user), nil
}

func (m *memStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (m *memStore) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; !ok {
		return postgres.ErrNotFound
	}
	user.UpdatedAt = m.now()
	m.users[user.ID] = copyUser(user)
	return nil
}

func (m *memStore) CreateBook(_ context.Context, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.books {
		if existing.ISBN == book.ISBN {
			return postgres.ErrDuplicate
		}
	}

	now := m.now()
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	book.AvailableQuantity = book.Quantity
	book.CreatedAt = now
	book.UpdatedAt = now

	m.books[book.ID] = copyBook(book)
	return nil
}

func (m *memStore) GetBook(_ context.Context, id string) (*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	book, ok := m.books[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return copyBook(book), nil
}

func (m *memStore) ListBooks(_ context.Context) ([]*models.Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var books []*models.Book
	for _, book := range m.books {
		books = append(books, copyBook(book))
	}
	return books, nil
}

func (m *memStore) UpdateBook(_ context.Context, book *models.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[book.ID]; !ok {
		return postgres.ErrNotFound
	}
	for _, existing := range m.books {
		if existing.ID != book.ID && existing.ISBN == book.ISBN {
			return postgres.ErrDuplicate
		}
	}

	if book.AvailableQuantity > book.Quantity {
		book.AvailableQuantity = book.Quantity
	}
	if book.AvailableQuantity < 0 {
		book.AvailableQuantity = 0
	}
	book.UpdatedAt = m.now()

	m.books[book.ID] = copyBook(book)
	return nil
}

func (m *memStore) DeleteBook(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.books[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(m.books, id)

	// Kaskadowe usunięcie wypożyczeń tej książki
	for loanID, loan := range m.loans {
		if loan.BookID == id {
			delete(m.loans, loanID)
		}
	}
	return nil
}

func (m *memStore) BorrowBook(_ context.Context, userID, bookID string) (*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	if !user.IsActive {
		return nil, postgres.ErrLoanLimit
	}

	book, ok := m.books[bookID]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	if book.AvailableQuantity <= 0 {
		return nil, postgres.ErrOutOfStock
	}

	active := 0
	for _, loan := range m.loans {
		if loan.UserID == userID &&
			(loan.Status == models.LoanStatusActive || loan.Status == models.LoanStatusOverdue) {
			active++
		}
	}
	if !user.CanBorrow(active) {
		return nil, postgres.ErrLoanLimit
	}

	book.AvailableQuantity--

	now := m.now()
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
	m.loans[loan.ID] = loan

	return copyLoan(loan), nil
}

func (m *memStore) ReturnLoan(_ context.Context, loanID string) (*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.loans[loanID]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	if loan.Status == models.LoanStatusReturned {
		return nil, postgres.ErrAlreadyReturned
	}

	now := m.now()
	loan.ReturnedDate = &now
	loan.Status = models.LoanStatusReturned
	loan.UpdatedAt = now

	if now.After(loan.DueDate) && !loan.FineAssessed {
		fine := &models.Fine{
			ID:        uuid.NewString(),
			LoanID:    loan.ID,
			UserID:    loan.UserID,
			Amount:    models.CalculateFineAmount(loan.OverdueDays(now)),
			CreatedAt: now,
			UpdatedAt: now,
		}
		m.fines[fine.ID] = fine
		loan.FineAssessed = true
	}

	if book, ok := m.books[loan.BookID]; ok {
		book.IncrementAvailable()
	}

	return copyLoan(loan), nil
}

func (m *memStore) GetLoan(_ context.Context, id string) (*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	loan, ok := m.loans[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return copyLoan(loan), nil
}

func (m *memStore) GetUserLoans(_ context.Context, userID string) ([]*models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var loans []*models.Loan
	for _, loan := range m.loans {
		if loan.UserID == userID {
			loans = append(loans, copyLoan(loan))
		}
	}
	return loans, nil
}

func (m *memStore) GetFine(_ context.Context, id string) (*models.Fine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fine, ok := m.fines[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return copyFine(fine), nil
}

func (m *memStore) GetUserFines(_ context.Context, userID string) ([]*models.Fine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var fines []*models.Fine
	for _, fine := range m.fines {
		if fine.UserID == userID {
			fines = append(fines, copyFine(fine))
		}
	}
	return fines, nil
}

func (m *memStore) PayFine(_ context.Context, fineID string) (*models.Fine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fine, ok := m.fines[fineID]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	if fine.Paid {
		return nil, postgres.ErrAlreadyPaid
	}

	fine.Paid = true
	fine.UpdatedAt = m.now()
	return copyFine(fine), nil
}

// setLoanDueDate przestawia termin zwrotu aby zasymulować opóźnienie
func (m *memStore) setLoanDueDate(loanID string, due time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if loan, ok := m.loans[loanID]; ok {
		loan.DueDate = due
	}
}

// userFines zwraca kary użytkownika bez pośrednictwa interfejsu
func (m *memStore) userFines(userID string) []*models.Fine {
	fines, _ := m.GetUserFines(context.Background(), userID)
	return fines
}
