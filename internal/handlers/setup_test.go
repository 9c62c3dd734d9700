package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	authmw "library-api/internal/middleware"
	"library-api/internal/models"
	"library-api/internal/token"
)

// newTestRouter buduje router z trasami jak w cmd/server, ale bez
// weryfikacji tokenów - użytkownik jest wstrzykiwany wprost do kontekstu
func newTestRouter(ms *memStore, tokens *token.Service) chi.Router {
	authHandler := NewAuthHandler(ms, tokens)
	booksHandler := NewBooksHandler(ms)
	circulationHandler := NewCirculationHandler(ms)
	finesHandler := NewFinesHandler(ms)

	r := chi.NewRouter()

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register/", authHandler.Register)
		r.Post("/login/", authHandler.Login)
		r.Post("/refresh/", authHandler.Refresh)
		r.Get("/me/", authHandler.Me)
		r.Put("/me/", authHandler.UpdateMe)
	})

	r.Route("/api/books", func(r chi.Router) {
		r.Get("/", booksHandler.List)
		r.Get("/{id}/", booksHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAdmin)
			r.Post("/", booksHandler.Create)
			r.Put("/{id}/", booksHandler.Update)
			r.Delete("/{id}/", booksHandler.Delete)
		})
	})

	r.Route("/api/circulation", func(r chi.Router) {
		r.Post("/borrow/", circulationHandler.Borrow)
		r.Put("/return/{loan_id}/", circulationHandler.Return)
		r.Get("/my-loans/", circulationHandler.MyLoans)
	})

	r.Route("/api/fines", func(r chi.Router) {
		r.Get("/my-fines/", finesHandler.MyFines)
		r.Post("/{id}/pay/", finesHandler.Pay)
	})

	return r
}

// doRequest wykonuje żądanie na routerze, opcjonalnie jako podany użytkownik
func doRequest(t *testing.T, router chi.Router, method, path string, body any, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if user != nil {
		ctx := context.WithValue(req.Context(), authmw.UserIDKey, user.ID)
		ctx = context.WithValue(ctx, authmw.UserRoleKey, user.Role)
		ctx = context.WithValue(ctx, authmw.UserKey, user)
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeBody parsuje odpowiedź JSON do podanej struktury
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

// seedUser zakłada konto wprost w magazynie
func seedUser(t *testing.T, ms *memStore, username string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "hash",
		Email:        username + "@biblioteka.pl",
		Role:         role,
		IsActive:     true,
		MaxLoans:     models.DefaultMaxActiveLoans,
	}
	require.NoError(t, ms.CreateUser(context.Background(), user))
	return user
}

// seedBook zakłada książkę wprost w magazynie
func seedBook(t *testing.T, ms *memStore, title, isbn string, quantity int) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:    title,
		Author:   "Autor Testowy",
		ISBN:     isbn,
		Quantity: quantity,
	}
	require.NoError(t, ms.CreateBook(context.Background(), book))
	return book
}
