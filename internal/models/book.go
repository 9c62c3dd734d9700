package models

import "time"

// Book reprezentuje książkę w katalogu bibliotecznym
type Book struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	ISBN              string    `json:"isbn"`
	Quantity          int       `json:"quantity"`
	AvailableQuantity int       `json:"available_quantity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsAvailable sprawdza czy książka jest dostępna do wypożyczenia
func (b *Book) IsAvailable() bool {
	return b.AvailableQuantity > 0
}

// DecrementAvailable zmniejsza liczbę dostępnych egzemplarzy
func (b *Book) DecrementAvailable() {
	if b.AvailableQuantity > 0 {
		b.AvailableQuantity--
	}
}

// IncrementAvailable zwiększa liczbę dostępnych egzemplarzy
func (b *Book) IncrementAvailable() {
	if b.AvailableQuantity < b.Quantity {
		b.AvailableQuantity++
	}
}
