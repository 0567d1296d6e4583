package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdroitPhilocalist/quiz-master-22F3000921/internal/domain/entity"
)

func TestJWTService_GenerateAndParse(t *testing.T) {
	svc, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)

	user := &entity.User{ID: 7, Email: "student@example.com", Role: entity.RoleUser}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.Equal(t, entity.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID, "каждый токен получает уникальный jti")
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	issuer, err := NewJWTService("secret-a", 1)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-b", 1)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(&entity.User{ID: 7})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 1)
	assert.Error(t, err)
}
