package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"library-api/internal/middleware"
	"library-api/internal/models"
)

// FinesHandler obsługuje przeglądanie i opłacanie kar
type FinesHandler struct {
	fines FineStore
}

// NewFinesHandler tworzy nowy handler kar
func NewFinesHandler(fines FineStore) *FinesHandler {
	return &FinesHandler{fines: fines}
}

// MyFines zwraca kary zalogowanego użytkownika (GET /api/fines/my-fines/)
func (h *FinesHandler) MyFines(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Brak autoryzacji")
		return
	}

	fines, err := h.fines.GetUserFines(r.Context(), user.ID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if fines == nil {
		fines = []*models.Fine{}
	}
	respondJSON(w, http.StatusOK, fines)
}

// Pay oznacza karę jako opłaconą (POST /api/fines/{id}/pay/).
// Czytelnik może opłacić tylko własną karę, admin dowolną.
func (h *FinesHandler) Pay(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Brak autoryzacji")
		return
	}

	fineID := chi.URLParam(r, "id")
	if fineID == "" {
		respondError(w, http.StatusBadRequest, "Brak ID kary")
		return
	}

	fine, err := h.fines.GetFine(r.Context(), fineID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if !user.IsAdmin() && fine.UserID != user.ID {
		respondError(w, http.StatusForbidden, "Brak uprawnień")
		return
	}

	paid, err := h.fines.PayFine(r.Context(), fineID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, paid)
}
