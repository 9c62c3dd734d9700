package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"library-api/internal/middleware"
	"library-api/internal/models"
)

// CirculationHandler obsługuje wypożyczenia i zwroty
type CirculationHandler struct {
	loans LoanStore
}

// NewCirculationHandler tworzy nowy handler rejestru wypożyczeń
func NewCirculationHandler(loans LoanStore) *CirculationHandler {
	return &CirculationHandler{loans: loans}
}

// borrowRequest to ciało żądania wypożyczenia
type borrowRequest struct {
	Book string `json:"book"`
}

// Borrow wypożycza książkę zalogowanemu użytkownikowi (POST /api/circulation/borrow/)
func (h *CirculationHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Brak autoryzacji")
		return
	}

	var req borrowRequest
	if err := decodeJSON(r, &req); err != nil || req.Book == "" {
		respondError(w, http.StatusBadRequest, "ID książki jest wymagane")
		return
	}

	loan, err := h.loans.BorrowBook(r.Context(), user.ID, req.Book)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, loan)
}

// Return obsługuje zwrot wypożyczenia (PUT /api/circulation/return/{loan_id}/).
// Czytelnik może zwrócić tylko własne wypożyczenie, admin dowolne.
func (h *CirculationHandler) Return(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Brak autoryzacji")
		return
	}

	loanID := chi.URLParam(r, "loan_id")
	if loanID == "" {
		respondError(w, http.StatusBadRequest, "Brak ID wypożyczenia")
		return
	}

	loan, err := h.loans.GetLoan(r.Context(), loanID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if !user.IsAdmin() && loan.UserID != user.ID {
		respondError(w, http.StatusForbidden, "Brak uprawnień")
		return
	}

	returned, err := h.loans.ReturnLoan(r.Context(), loanID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, returned)
}

// MyLoans zwraca wypożyczenia zalogowanego użytkownika (GET /api/circulation/my-loans/)
func (h *CirculationHandler) MyLoans(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Brak autoryzacji")
		return
	}

	loans, err := h.loans.GetUserLoans(r.Context(), user.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if loans == nil {
		loans = []*models.Loan{}
	}
	respondJSON(w, http.StatusOK, loans)
}
