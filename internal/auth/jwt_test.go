package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager("test-secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewTokenManagerEmptySecret(t *testing.T) {
	_, err := NewTokenManager("", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestGenerateAndValidatePair(t *testing.T) {
	m := newTestManager(t)
	userID := uuid.New()

	pair, err := m.GeneratePair(userID, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := m.Validate(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	claims, err = m.Validate(pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestValidateRejectsWrongTokenType(t *testing.T) {
	m := newTestManager(t)

	pair, err := m.GeneratePair(uuid.New(), "bob")
	require.NoError(t, err)

	_, err = m.Validate(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = m.Validate(pair.Access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m, err := NewTokenManager("test-secret", -time.Minute, -time.Minute)
	require.NoError(t, err)

	pair, err := m.GeneratePair(uuid.New(), "carol")
	require.NoError(t, err)

	_, err = m.Validate(pair.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	m := newTestManager(t)

	pair, err := m.GeneratePair(uuid.New(), "dave")
	require.NoError(t, err)

	tampered := pair.Access[:len(pair.Access)-2] + "xx"
	_, err = m.Validate(tampered, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	m := newTestManager(t)
	other, err := NewTokenManager("other-secret", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	pair, err := other.GeneratePair(uuid.New(), "eve")
	require.NoError(t, err)

	_, err = m.Validate(pair.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh(t *testing.T) {
	m := newTestManager(t)
	userID := uuid.New()

	pair, err := m.GeneratePair(userID, "frank")
	require.NoError(t, err)

	access, err := m.Refresh(pair.Refresh)
	require.NoError(t, err)

	claims, err := m.Validate(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	m := newTestManager(t)

	pair, err := m.GeneratePair(uuid.New(), "grace")
	require.NoError(t, err)

	_, err = m.Refresh(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}
