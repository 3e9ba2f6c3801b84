package auth

import (
	"testing"

	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:         42,
		Email:      "alice@example.com",
		Role:       models.RoleModerator,
		CustomerID: 7,
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := NewTokenManager("test-secret")

	token, err := manager.CreateAccessToken(testUser())
	require.NoError(t, err)

	claims, err := manager.VerifyToken(token, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, uint64(7), claims.CustomerID)
	assert.NotEmpty(t, claims.ID)
}

func TestRefreshTokenOmitsIdentity(t *testing.T) {
	manager := NewTokenManager("test-secret")

	token, err := manager.CreateRefreshToken(testUser())
	require.NoError(t, err)

	claims, err := manager.VerifyToken(token, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Role)
}

func TestVerifyRejectsWrongType(t *testing.T) {
	manager := NewTokenManager("test-secret")

	token, err := manager.CreateAccessToken(testUser())
	require.NoError(t, err)

	_, err = manager.VerifyToken(token, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	manager := NewTokenManager("test-secret")
	other := NewTokenManager("other-secret")

	token, err := manager.CreateAccessToken(testUser())
	require.NoError(t, err)

	_, err = other.VerifyToken(token, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret")
	_, err := manager.VerifyToken("not-a-token", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensCarryUniqueIDs(t *testing.T) {
	manager := NewTokenManager("test-secret")

	first, err := manager.CreateRefreshToken(testUser())
	require.NoError(t, err)
	second, err := manager.CreateRefreshToken(testUser())
	require.NoError(t, err)

	firstClaims, err := manager.VerifyToken(first, TokenTypeRefresh)
	require.NoError(t, err)
	secondClaims, err := manager.VerifyToken(second, TokenTypeRefresh)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}
