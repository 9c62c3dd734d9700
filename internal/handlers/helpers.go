package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"library-api/internal/postgres"
)

// errorResponse to struktura odpowiedzi błędu zwracanej klientowi
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON serializuje odpowiedź i ustawia nagłówki
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Błąd serializacji odpowiedzi: %v", err)
	}
}

// respondError zwraca błąd w ustalonym formacie JSON
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondStoreError mapuje błędy warstwy przechowywania na kody HTTP
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, postgres.ErrNotFound):
		respondError(w, http.StatusNotFound, "Rekord nie został znaleziony")
	case errors.Is(err, postgres.ErrDuplicate):
		respondError(w, http.StatusBadRequest, "Rekord o tych danych już istnieje")
	case errors.Is(err, postgres.ErrOutOfStock):
		respondError(w, http.StatusBadRequest, "Brak dostępnych egzemplarzy")
	case errors.Is(err, postgres.ErrLoanLimit):
		respondError(w, http.StatusBadRequest, "Przekroczono limit wypożyczeń")
	case errors.Is(err, postgres.ErrAlreadyReturned):
		respondError(w, http.StatusBadRequest, "Wypożyczenie zostało już zwrócone")
	case errors.Is(err, postgres.ErrAlreadyPaid):
		respondError(w, http.StatusBadRequest, "Kara została już opłacona")
	default:
		log.Printf("Błąd warstwy danych: %v", err)
		respondError(w, http.StatusInternalServerError, "Błąd wewnętrzny serwera")
	}
}

// decodeJSON parsuje ciało żądania do podanej struktury
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
