package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"library-api/internal/models"
)

const (
	// AccessTokenTTL to czas życia tokenu dostępowego
	AccessTokenTTL = time.Hour
	// RefreshTokenTTL to czas życia tokenu odświeżającego
	RefreshTokenTTL = 24 * time.Hour

	issuer = "library-api"

	useAccess  = "access"
	useRefresh = "refresh"
)

// Claims to dane przenoszone w tokenie JWT
type Claims struct {
	UserID   string          `json:"user_id"`
	Username string          `json:"username"`
	Role     models.UserRole `json:"role"`
	TokenUse string          `json:"token_use"`
	jwt.RegisteredClaims
}

// Pair zawiera parę tokenów: dostępowy i odświeżający
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Service podpisuje i weryfikuje tokeny JWT
type Service struct {
	secret []byte
}

// NewService tworzy serwis tokenów z podanym sekretem
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// GeneratePair wystawia parę tokenów dla użytkownika
func (s *Service) GeneratePair(user *models.User) (*Pair, error) {
	access, err := s.sign(user, useAccess, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("błąd podpisywania tokenu dostępowego: %w", err)
	}

	refresh, err := s.sign(user, useRefresh, RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("błąd podpisywania tokenu odświeżającego: %w", err)
	}

	return &Pair{Access: access, Refresh: refresh}, nil
}

func (s *Service) sign(user *models.User, use string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse weryfikuje podpis i ważność tokenu oraz zwraca jego claims
func (s *Service) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("nieoczekiwana metoda podpisu: %v", token.Header["alg"])
			}
			return s.secret, nil
		})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("nieprawidłowy token")
	}

	return claims, nil
}

// ParseAccess weryfikuje token i wymaga aby był tokenem dostępowym
func (s *Service) ParseAccess(tokenString string) (*Claims, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenUse != useAccess {
		return nil, fmt.Errorf("token nie jest tokenem dostępowym")
	}
	return claims, nil
}

// ParseRefresh weryfikuje token i wymaga aby był tokenem odświeżającym
func (s *Service) ParseRefresh(tokenString string) (*Claims, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenUse != useRefresh {
		return nil, fmt.Errorf("token nie jest tokenem odświeżającym")
	}
	return claims, nil
}
