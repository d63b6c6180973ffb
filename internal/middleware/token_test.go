package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	m := NewTokenManager("test-secret", 1)

	raw, err := m.Generate("u1", "a@example.com", "org_admin", "org-a")
	require.NoError(t, err)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "org_admin", claims.Role)
	assert.Equal(t, "org-a", claims.OrganizationID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := NewTokenManager("secret-a", 1).Generate("u1", "a@example.com", "user", "")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 1).Verify(raw)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", 1)
	_, err := m.Verify("not.a.jwt")
	assert.Error(t, err)
	_, err = m.Verify("")
	assert.Error(t, err)
}
