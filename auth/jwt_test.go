package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debasish218/pg-manager/config"
)

func newManager() *JWTManager {
	return NewJWTManager(config.JWTConfig{Secret: "test-secret", TokenTTL: time.Hour, Issuer: "pg-manager"})
}

func TestGenerateAndValidate(t *testing.T) {
	m := newManager()

	token, expires, err := m.Generate(42)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, time.Minute)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AccountID)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestValidate_Rejects(t *testing.T) {
	m := newManager()
	token, _, err := m.Generate(7)
	require.NoError(t, err)

	other := NewJWTManager(config.JWTConfig{Secret: "other-secret", TokenTTL: time.Hour, Issuer: "pg-manager"})
	_, err = other.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
