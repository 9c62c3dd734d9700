package models

import (
	"math"
	"time"
)

// LoanStatus określa status wypożyczenia
type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "ACTIVE"   // Aktywne wypożyczenie
	LoanStatusReturned LoanStatus = "RETURNED" // Zwrócone
	LoanStatusOverdue  LoanStatus = "OVERDUE"  // Przeterminowane, jeszcze nie zwrócone
)

// DefaultLoanPeriodDays to standardowy okres wypożyczenia w dniach
const DefaultLoanPeriodDays = 14

// Loan reprezentuje wypożyczenie książki
type Loan struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	BookID       string     `json:"book_id"`
	BorrowedDate time.Time  `json:"borrowed_date"`
	DueDate      time.Time  `json:"due_date"`
	ReturnedDate *time.Time `json:"returned_date,omitempty"`
	Status       LoanStatus `json:"status"`
	FineAssessed bool       `json:"-"` // Czy kara za to wypożyczenie została już naliczona
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsOverdue sprawdza czy niezwrócone wypożyczenie przekroczyło termin
func (l *Loan) IsOverdue(now time.Time) bool {
	if l.Status == LoanStatusReturned {
		return false
	}
	return now.After(l.DueDate)
}

// OverdueDays zwraca liczbę dni opóźnienia względem podanego momentu.
// Każda rozpoczęta doba liczy się jako pełny dzień.
func (l *Loan) OverdueDays(now time.Time) int {
	if !now.After(l.DueDate) {
		return 0
	}
	late := now.Sub(l.DueDate)
	return int(math.Ceil(late.Hours() / 24))
}
