package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"library-api/internal/models"
)

// BooksHandler obsługuje operacje na katalogu książek
type BooksHandler struct {
	books BookStore
}

// NewBooksHandler tworzy nowy handler katalogu
func NewBooksHandler(books BookStore) *BooksHandler {
	return &BooksHandler{books: books}
}

// List zwraca listę wszystkich książek (GET /api/books/)
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.ListBooks(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if books == nil {
		books = []*models.Book{}
	}
	respondJSON(w, http.StatusOK, books)
}

// Get zwraca pojedynczą książkę (GET /api/books/{id}/)
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		respondError(w, http.StatusBadRequest, "Brak ID książki")
		return
	}

	book, err := h.books.GetBook(r.Context(), bookID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, book)
}

// bookRequest to ciało żądania tworzenia i edycji książki.
// Pominięty nakład oznacza pozostawienie dotychczasowego.
type bookRequest struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	ISBN     string `json:"isbn"`
	Quantity *int   `json:"quantity"`
}

// Create dodaje książkę do katalogu (POST /api/books/, tylko admin)
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.ISBN = strings.TrimSpace(req.ISBN)

	if req.Title == "" || req.ISBN == "" {
		respondError(w, http.StatusBadRequest, "Tytuł i ISBN są wymagane")
		return
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 0 {
		respondError(w, http.StatusBadRequest, "Liczba egzemplarzy nie może być ujemna")
		return
	}

	book := &models.Book{
		Title:    req.Title,
		Author:   req.Author,
		ISBN:     req.ISBN,
		Quantity: quantity,
	}

	if err := h.books.CreateBook(r.Context(), book); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, book)
}

// Update edytuje dane książki (PUT /api/books/{id}/, tylko admin)
func (h *BooksHandler) Update(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		respondError(w, http.StatusBadRequest, "Brak ID książki")
		return
	}

	book, err := h.books.GetBook(r.Context(), bookID)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}

	if req.Quantity != nil && *req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "Liczba egzemplarzy nie może być ujemna")
		return
	}

	if req.Title != "" {
		book.Title = strings.TrimSpace(req.Title)
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.ISBN != "" {
		book.ISBN = strings.TrimSpace(req.ISBN)
	}

	// Zmiana nakładu koryguje dostępność o tę samą różnicę;
	// pominięte pole zostawia nakład bez zmian
	if req.Quantity != nil && *req.Quantity != book.Quantity {
		diff := *req.Quantity - book.Quantity
		book.Quantity = *req.Quantity
		book.AvailableQuantity += diff
	}

	if err := h.books.UpdateBook(r.Context(), book); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, book)
}

// Delete usuwa książkę z katalogu (DELETE /api/books/{id}/, tylko admin)
func (h *BooksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "id")
	if bookID == "" {
		respondError(w, http.StatusBadRequest, "Brak ID książki")
		return
	}

	if err := h.books.DeleteBook(r.Context(), bookID); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
