package session

import (
	"os"
	"path/filepath"
	"testing"

	"lis_client/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return store
}

func validSession() model.Session {
	return model.Session{
		Token:  "tok-123",
		Role:   model.RoleTechnician,
		UserID: "T01",
		Name:   "tech",
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(validSession()))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, validSession(), *loaded)
}

func TestStore_LoadWithoutSave(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_RefusesIncompleteSession(t *testing.T) {
	store := newTestStore(t)

	sess := validSession()
	sess.Token = ""
	assert.Error(t, store.Save(sess))
}

// A record missing any required field is no session at all.
func TestStore_LoadPartialRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok-123","role":"Admin"}`), 0o600))

	loaded, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	loaded, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

// A record with a role outside the known set must not restore.
func TestStore_LoadUnknownRole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	record := `{"token":"tok-123","role":"Intern","user_id":"X01","name":"eve"}`
	require.NoError(t, os.WriteFile(path, []byte(record), 0o600))

	loaded, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestStore_ClearThenLoad(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(validSession()))
	require.NoError(t, store.Clear())

	loaded, err := store.Load()
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing an already empty store is fine.
	assert.NoError(t, store.Clear())
}

func TestNewStore_EmptyPath(t *testing.T) {
	_, err := NewStore("   ")
	assert.Error(t, err)
}
