package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"campus-connect-api/internal/model"
	"campus-connect-api/internal/repository"
	"campus-connect-api/internal/token"
	"campus-connect-api/pkg/apierror"
)

func newTestService(t *testing.T) (*AuthService, *repository.MemoryUserStore) {
	t.Helper()

	store := repository.NewMemoryUserStore()
	issuer := token.NewIssuer("test-secret", time.Hour)
	return NewAuthService(store, issuer, []string{"campus.edu"}), store
}

func TestSignupCreatesAccountAndToken(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	result, err := svc.Signup(ctx, "Avery", "avery@campus.edu", "secret1", "student")
	require.NoError(t, err)
	assert.Equal(t, "Avery", result.User.Name)
	assert.Equal(t, "avery@campus.edu", result.User.Email)
	assert.Equal(t, model.RoleStudent, result.User.Role)
	assert.NotEmpty(t, result.User.ID)
	assert.NotEmpty(t, result.Token)

	stored, err := store.FindByEmail(ctx, "avery@campus.edu")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Avery", "avery@campus.edu", "secret1", "student")
	require.NoError(t, err)

	_, err = svc.Signup(ctx, "Imposter", "AVERY@Campus.EDU", "other", "student")
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

// racingStore simulates a concurrent signup that lands between the service's
// pre-check and its insert: the existence check always says no, and the
// insert fails with the store-level duplicate error.
type racingStore struct {
	*repository.MemoryUserStore
}

func (s *racingStore) ExistsByEmail(context.Context, string) (bool, error) {
	return false, nil
}

func (s *racingStore) Create(context.Context, model.User) error {
	return model.ErrEmailTaken
}

func TestSignupTreatsInsertDuplicateAsConflict(t *testing.T) {
	issuer := token.NewIssuer("test-secret", time.Hour)
	svc := NewAuthService(&racingStore{repository.NewMemoryUserStore()}, issuer, nil)

	_, err := svc.Signup(context.Background(), "Avery", "avery@campus.edu", "secret1", "student")
	assert.ErrorIs(t, err, model.ErrEmailTaken)
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		role     string
	}{
		{"missing name", "", "a@campus.edu", "pw", "student"},
		{"missing password", "Avery", "a@campus.edu", "", "student"},
		{"unknown role", "Avery", "a@campus.edu", "pw", "admin"},
		{"malformed email", "Avery", "not-an-email", "pw", "society"},
		{"student off campus", "Avery", "avery@gmail.com", "pw", "student"},
		{"teacher off campus", "Blake", "blake@gmail.com", "pw", "teacher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(ctx, tt.userName, tt.email, tt.password, tt.role)
			require.Error(t, err)

			var apiErr *apierror.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, 400, apiErr.HTTPStatus)
		})
	}
}

func TestSignupAllowsAnyDomainForSociety(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.Signup(context.Background(), "Chess Club", "chess@clubs.org", "pw", "society")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSociety, result.User.Role)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Avery", "avery@campus.edu", "secret1", "student")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "avery@campus.edu", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, result.User.Role)
	assert.NotEmpty(t, result.Token)

	// Unknown email and wrong password are the same failure.
	_, err = svc.Login(ctx, "nobody@campus.edu", "secret1")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "avery@campus.edu", "secret2")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLoginRequiresBothFields(t *testing.T) {
	svc, _ := newTestService(t)

	var apiErr *apierror.APIError
	_, err := svc.Login(context.Background(), "avery@campus.edu", "")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.HTTPStatus)

	_, err = svc.Login(context.Background(), "", "secret1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.HTTPStatus)
}

func TestVerifyResolvesCurrentUser(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	signedUp, err := svc.Signup(ctx, "Avery", "avery@campus.edu", "secret1", "student")
	require.NoError(t, err)

	user, err := svc.Verify(ctx, signedUp.Token)
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID, user.ID)
	assert.Equal(t, model.RoleStudent, user.Role)

	// Idempotent while the token stays valid.
	again, err := svc.Verify(ctx, signedUp.Token)
	require.NoError(t, err)
	assert.Equal(t, user, again)

	// The subject is re-fetched, so a removed account fails verification.
	store.Delete(ctx, signedUp.User.ID)
	_, err = svc.Verify(ctx, signedUp.Token)
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Verify(context.Background(), "bogus.token.value")
	assert.ErrorIs(t, err, model.ErrTokenInvalid)
}
