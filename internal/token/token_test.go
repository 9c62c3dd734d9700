package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       "user-1",
		Username: "jkowalski",
		Role:     models.RoleMember,
	}
}

func TestGeneratePairRoundTrip(t *testing.T) {
	svc := NewService("test-secret")

	pair, err := svc.GeneratePair(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := svc.ParseAccess(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jkowalski", claims.Username)
	assert.Equal(t, models.RoleMember, claims.Role)

	refreshClaims, err := svc.ParseRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", refreshClaims.UserID)
}

func TestTokenUseIsEnforced(t *testing.T) {
	svc := NewService("test-secret")

	pair, err := svc.GeneratePair(testUser())
	require.NoError(t, err)

	// Token odświeżający nie przechodzi jako dostępowy i odwrotnie
	_, err = svc.ParseAccess(pair.Refresh)
	assert.Error(t, err)

	_, err = svc.ParseRefresh(pair.Access)
	assert.Error(t, err)
}

func TestWrongSecretIsRejected(t *testing.T) {
	svc := NewService("test-secret")
	other := NewService("inny-sekret")

	pair, err := svc.GeneratePair(testUser())
	require.NoError(t, err)

	_, err = other.Parse(pair.Access)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	secret := "test-secret"
	svc := NewService(secret)

	now := time.Now()
	claims := Claims{
		UserID:   "user-1",
		TokenUse: useAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = svc.Parse(expired)
	assert.Error(t, err)
}

func TestWrongSigningMethodIsRejected(t *testing.T) {
	svc := NewService("test-secret")

	// Token bez podpisu nie może przejść weryfikacji
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Parse(unsigned)
	assert.Error(t, err)
}

func TestTokenLifetimes(t *testing.T) {
	assert.Equal(t, time.Hour, AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, RefreshTokenTTL)
}
