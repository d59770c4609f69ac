package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/models"
)

func TestSignAndVerifyToken(t *testing.T) {
	user := &models.User{
		ID:    primitive.NewObjectID(),
		Email: "alice@example.com",
		Role:  models.RoleAdmin,
	}

	token, err := SignToken(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	token, err := SignToken(user, "secret", time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(token, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID()}
	token, err := SignToken(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Garbage(t *testing.T) {
	_, err := VerifyToken("not-a-token", "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, len(hash) > 0)

	ok, err := VerifyPassword("hunter22", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("hunter23", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	_, err := VerifyPassword("x", "$2a$10$notargon")
	assert.Error(t, err)
}

func TestResetToken(t *testing.T) {
	raw, digest, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, raw, 40)
	assert.Equal(t, digest, HashResetToken(raw))
	assert.NotEqual(t, raw, digest)

	raw2, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}
