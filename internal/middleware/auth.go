package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"library-api/internal/models"
	"library-api/internal/token"
)

// Klucze do przechowywania wartości w context
type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	UserKey     contextKey = "user"
)

// UserDirectory pozwala middleware pobrać konto na podstawie ID z tokenu
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Authenticator weryfikuje tokeny JWT i dodaje dane użytkownika do kontekstu
type Authenticator struct {
	tokens *token.Service
	users  UserDirectory
}

// NewAuthenticator tworzy middleware uwierzytelniania
func NewAuthenticator(tokens *token.Service, users UserDirectory) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// RequireAuth wymaga ważnego tokenu dostępowego
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Pobierz token z nagłówka Authorization
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Brak nagłówka Authorization", http.StatusUnauthorized)
			return
		}

		// Sprawdź format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Nieprawidłowy format Authorization", http.StatusUnauthorized)
			return
		}

		claims, err := a.tokens.ParseAccess(parts[1])
		if err != nil {
			http.Error(w, "Nieprawidłowy lub wygasły token", http.StatusUnauthorized)
			return
		}

		// Pobierz aktualne dane użytkownika z bazy
		user, err := a.users.GetUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "Użytkownik nie został znaleziony", http.StatusUnauthorized)
			return
		}

		// Sprawdź czy konto jest aktywne
		if !user.IsActive {
			http.Error(w, "Konto użytkownika jest nieaktywne", http.StatusForbidden)
			return
		}

		// Dodaj dane użytkownika do kontekstu
		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, UserRoleKey, user.Role)
		ctx = context.WithValue(ctx, UserKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole zwraca middleware, który wymaga określonej roli
func RequireRole(role models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := r.Context().Value(UserRoleKey).(models.UserRole)
			if !ok {
				http.Error(w, "Brak danych o roli użytkownika", http.StatusUnauthorized)
				return
			}

			// Admin ma dostęp do wszystkiego
			if userRole == models.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}

			if userRole != role {
				http.Error(w, "Brak uprawnień", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin wymaga roli administratora
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)(next)
}

// GetUserFromContext pobiera dane użytkownika z kontekstu
func GetUserFromContext(ctx context.Context) (*models.User, error) {
	user, ok := ctx.Value(UserKey).(*models.User)
	if !ok {
		return nil, fmt.Errorf("brak danych użytkownika w kontekście")
	}
	return user, nil
}

// GetUserIDFromContext pobiera ID użytkownika z kontekstu
func GetUserIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(UserIDKey).(string)
	if !ok {
		return "", fmt.Errorf("brak ID użytkownika w kontekście")
	}
	return id, nil
}

// GetUserRoleFromContext pobiera rolę użytkownika z kontekstu
func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	role, ok := ctx.Value(UserRoleKey).(models.UserRole)
	if !ok {
		return "", fmt.Errorf("brak roli użytkownika w kontekście")
	}
	return role, nil
}
