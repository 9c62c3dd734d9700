package handlers

import (
	"log"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"library-api/internal/middleware"
	"library-api/internal/models"
	"library-api/internal/token"
)

// AuthHandler obsługuje rejestrację, logowanie i profil użytkownika
type AuthHandler struct {
	users  UserStore
	tokens *token.Service
}

// NewAuthHandler tworzy nowy handler autoryzacji
func NewAuthHandler(users UserStore, tokens *token.Service) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// registerRequest to ciało żądania rejestracji
type registerRequest struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

// userResponse to publiczna reprezentacja konta
type userResponse struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Register rejestruje nowego czytelnika (POST /api/auth/register/)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if req.Username == "" || req.Password == "" || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Nazwa użytkownika, hasło i email są wymagane")
		return
	}

	// Konta administratorów powstają wyłącznie przez libraryctl
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	if !req.Role.IsValid() {
		respondError(w, http.StatusBadRequest, "Nieznana rola")
		return
	}
	if req.Role == models.RoleAdmin {
		respondError(w, http.StatusForbidden, "Nie można zarejestrować konta administratora")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Błąd hashowania hasła: %v", err)
		respondError(w, http.StatusInternalServerError, "Błąd wewnętrzny serwera")
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		Role:         req.Role,
		IsActive:     true,
		MaxLoans:     models.DefaultMaxActiveLoans,
	}

	if err := h.users.CreateUser(r.Context(), user); err != nil {
		respondStoreError(w, err)
		return
	}

	log.Printf("Zarejestrowano użytkownika: %s", user.Username)
	respondJSON(w, http.StatusCreated, newUserResponse(user))
}

// loginRequest to ciało żądania logowania
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login weryfikuje dane logowania i wystawia parę tokenów (POST /api/auth/login/)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Nazwa użytkownika i hasło są wymagane")
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		// Nie zdradzamy czy konto istnieje
		respondError(w, http.StatusUnauthorized, "Nieprawidłowe dane logowania")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Nieprawidłowe dane logowania")
		return
	}

	if !user.IsActive {
		respondError(w, http.StatusForbidden, "Konto zostało dezaktywowane")
		return
	}

	pair, err := h.tokens.GeneratePair(user)
	if err != nil {
		log.Printf("Błąd wystawiania tokenów: %v", err)
		respondError(w, http.StatusInternalServerError, "Błąd wewnętrzny serwera")
		return
	}

	log.Printf("Użytkownik zalogowany: %s (%s)", user.Username, user.Role)
	respondJSON(w, http.StatusOK, pair)
}

// refreshRequest to ciało żądania odświeżenia tokenów
type refreshRequest struct {
	Refresh string `json:"refresh"`
}

// Refresh wymienia ważny token odświeżający na nową parę tokenów (POST /api/auth/refresh/)
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil || req.Refresh == "" {
		respondError(w, http.StatusBadRequest, "Token odświeżający jest wymagany")
		return
	}

	claims, err := h.tokens.ParseRefresh(req.Refresh)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Nieprawidłowy lub wygasły token")
		return
	}

	user, err := h.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Użytkownik nie został znaleziony")
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusForbidden, "Konto zostało dezaktywowane")
		return
	}

	pair, err := h.tokens.GeneratePair(user)
	if err != nil {
		log.Printf("Błąd wystawiania tokenów: %v", err)
		respondError(w, http.StatusInternalServerError, "Błąd wewnętrzny serwera")
		return
	}

	respondJSON(w, http.StatusOK, pair)
}

// Me zwraca profil zalogowanego użytkownika (GET /api/auth/me/)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Brak autoryzacji")
		return
	}

	respondJSON(w, http.StatusOK, newUserResponse(user))
}

// updateMeRequest to ciało żądania aktualizacji profilu
type updateMeRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateMe aktualizuje email lub hasło zalogowanego użytkownika (PUT /api/auth/me/)
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r.Context())
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Brak autoryzacji")
		return
	}

	var req updateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Nieprawidłowe ciało żądania")
		return
	}

	if req.Email != "" {
		user.Email = strings.TrimSpace(req.Email)
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Błąd hashowania hasła: %v", err)
			respondError(w, http.StatusInternalServerError, "Błąd wewnętrzny serwera")
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := h.users.UpdateUser(r.Context(), user); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newUserResponse(user))
}
