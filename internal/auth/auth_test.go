package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/emilythestrangee/bugai/backend/internal/config"
	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newManager(t *testing.T, secret string) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{JWTSecret: secret, TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	return m
}

func TestIssueAndParse(t *testing.T) {
	m := newManager(t, "secret")

	token, err := m.Issue("u-1", "alice", "alice@example.com")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseRejects(t *testing.T) {
	m := newManager(t, "secret")
	other := newManager(t, "another-secret")

	foreign, err := other.Issue("u-1", "alice", "a@example.com")
	require.NoError(t, err)

	expired := newManager(t, "secret")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("u-1", "alice", "a@example.com")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"expired":      old,
		"alg none":     none,
	} {
		_, err := m.Parse(token)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized, name)
	}
}

func TestPasswords(t *testing.T) {
	m := newManager(t, "secret")

	hash, err := m.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.NoError(t, m.CheckPassword(hash, "hunter22"))
	assert.ErrorIs(t, m.CheckPassword(hash, "hunter23"), apperrors.ErrUnauthorized)
}

func TestEphemeralSecret(t *testing.T) {
	a := newManager(t, "")
	b := newManager(t, "")
	assert.True(t, a.Ephemeral())

	token, err := a.Issue("u-1", "alice", "a@example.com")
	require.NoError(t, err)
	_, err = b.Parse(token)
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	m, err := NewManager(config.AuthConfig{JWTSecret: "s"})
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, m.ttl)
	assert.Equal(t, bcrypt.DefaultCost, m.cost)

	_, err = NewManager(config.AuthConfig{JWTSecret: "s", BcryptCost: 99})
	assert.Error(t, err)
}
