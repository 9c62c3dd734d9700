package models

import "time"

// UserRole określa rolę użytkownika w systemie
type UserRole string

const (
	RoleMember UserRole = "MEMBER" // Czytelnik - może wypożyczać książki i płacić kary
	RoleAdmin  UserRole = "ADMIN"  // Administrator - zarządza katalogiem i wypożyczeniami
)

// DefaultMaxActiveLoans to domyślny limit jednocześnie wypożyczonych książek
const DefaultMaxActiveLoans = 5

// IsValid sprawdza czy rola jest jedną ze znanych wartości
func (r UserRole) IsValid() bool {
	return r == RoleMember || r == RoleAdmin
}

// User reprezentuje użytkownika systemu
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Nigdy nie serializujemy hasha
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	MaxLoans     int       `json:"max_loans"` // Maksymalna liczba aktywnych wypożyczeń
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin sprawdza czy użytkownik jest administratorem
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanBorrow sprawdza czy użytkownik może wypożyczyć kolejną książkę
// przy podanej liczbie aktywnych wypożyczeń
func (u *User) CanBorrow(activeLoans int) bool {
	limit := u.MaxLoans
	if limit <= 0 {
		limit = DefaultMaxActiveLoans
	}
	return u.IsActive && activeLoans < limit
}
