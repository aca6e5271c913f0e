package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/triviago-api/internal/domain/entity"
)

func TestJWTService_GenerateAndParse(t *testing.T) {
	svc, err := NewJWTService("test-secret", 24)
	require.NoError(t, err)

	user := &entity.User{ID: 42, Email: "a@b.c", Username: "alice"}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_ParseToken_WrongSecret(t *testing.T) {
	svc1, err := NewJWTService("secret-one", 24)
	require.NoError(t, err)
	svc2, err := NewJWTService("secret-two", 24)
	require.NoError(t, err)

	token, err := svc1.GenerateToken(&entity.User{ID: 1})
	require.NoError(t, err)

	// Токен, подписанный другим секретом, не проходит проверку
	_, err = svc2.ParseToken(token)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 24)
	assert.Error(t, err)
}
