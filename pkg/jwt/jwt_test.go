package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("unit-test-secret", time.Hour, 24*time.Hour)

	pair, err := m.GenerateToken(3, "desk@library.test", "Front Desk", "librarian")
	require.NoError(t, err)
	assert.EqualValues(t, 3600, pair.ExpiresIn)

	claims, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 3, claims.StaffID)
	assert.Equal(t, "librarian", claims.Role)
	assert.Equal(t, "3", claims.Subject)
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager("unit-test-secret", -time.Minute, time.Hour)

	pair, err := m.GenerateToken(1, "a@b.c", "A", "admin")
	require.NoError(t, err)

	_, err = m.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour, time.Hour)
	verifier := NewManager("secret-b", time.Hour, time.Hour)

	pair, err := issuer.GenerateToken(1, "a@b.c", "A", "admin")
	require.NoError(t, err)

	_, err = verifier.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestRefreshAccessToken_KeepsRole(t *testing.T) {
	m := NewManager("unit-test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(9, "root@library.test", "Root", "admin")
	require.NoError(t, err)

	access, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := m.ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
}
