package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-connect-api/internal/model"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)

	signed, err := iss.Issue("user-1", model.RoleStudent)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := iss.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, model.RoleStudent, claims.Role)

	// Verification is pure; a second call yields the same result.
	again, err := iss.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, claims.Subject, again.Subject)
	assert.Equal(t, claims.Role, again.Role)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)
	other := NewIssuer("other-secret", time.Hour)

	signed, err := iss.Issue("user-1", model.RoleTeacher)
	require.NoError(t, err)

	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := iss.Verify(tok)
		assert.ErrorIs(t, err, model.ErrTokenInvalid, "token %q", tok)
	}
}

func TestExpiryBoundary(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	iss := NewIssuer("test-secret", ttl)
	iss.now = func() time.Time { return base }

	signed, err := iss.Issue("user-1", model.RoleSociety)
	require.NoError(t, err)

	// One second before expiry the token is still good.
	iss.now = func() time.Time { return base.Add(ttl - time.Second) }
	_, err = iss.Verify(signed)
	require.NoError(t, err)

	// At exactly the expiry instant the token is already expired.
	iss.now = func() time.Time { return base.Add(ttl) }
	_, err = iss.Verify(signed)
	assert.ErrorIs(t, err, model.ErrTokenExpired)

	iss.now = func() time.Time { return base.Add(ttl + time.Minute) }
	_, err = iss.Verify(signed)
	assert.ErrorIs(t, err, model.ErrTokenExpired)
}

func TestVerifyRejectsUnknownRoleClaim(t *testing.T) {
	iss := NewIssuer("test-secret", time.Hour)

	signed, err := iss.Issue("user-1", model.Role("admin"))
	require.NoError(t, err)

	_, err = iss.Verify(signed)
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}
