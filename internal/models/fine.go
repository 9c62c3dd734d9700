package models

import "time"

// FinePerDayRate to stawka kary za każdy dzień opóźnienia
const FinePerDayRate = 1.00

// Fine reprezentuje karę za przetrzymanie książki
type Fine struct {
	ID        string    `json:"id"`
	LoanID    string    `json:"loan_id"`
	UserID    string    `json:"user_id"`
	Amount    float64   `json:"amount"`
	Paid      bool      `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CalculateFineAmount oblicza wysokość kary dla podanej liczby dni opóźnienia
func CalculateFineAmount(overdueDays int) float64 {
	if overdueDays <= 0 {
		return 0
	}
	return float64(overdueDays) * FinePerDayRate
}
