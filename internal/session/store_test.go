package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-connect-api/internal/model"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	store := NewFileStore(path)

	// Empty store reads as no session.
	tok, user, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Nil(t, user)

	profile := model.Profile{ID: "u1", Name: "Avery", Email: "avery@campus.edu", Role: model.RoleStudent}
	require.NoError(t, store.Save("tok-1", profile))

	tok, user, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", tok)
	require.NotNil(t, user)
	assert.Equal(t, profile, *user)

	require.NoError(t, store.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-empty store is fine.
	require.NoError(t, store.Clear())
}

func TestMemoryStoreClearDropsBoth(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save("tok-1", model.Profile{ID: "u1", Role: model.RoleSociety}))

	require.NoError(t, store.Clear())

	tok, user, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
	assert.Nil(t, user)
}
