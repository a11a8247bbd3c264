package userdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	return store
}

func TestUpsertAndGet(t *testing.T) {
	store := openTestStore(t)

	u := &User{UserID: "123", APIKey: "key-1", ShopName: "Shop", TaxRate: 0.06}
	require.NoError(t, store.Upsert(u))

	got, err := store.Get("123")
	require.NoError(t, err)
	assert.Equal(t, "key-1", got.APIKey)
	assert.Equal(t, "Shop", got.ShopName)
	assert.InDelta(t, 0.06, got.TaxRate, 1e-9)
}

func TestUpsertReplaces(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Upsert(&User{UserID: "123", APIKey: "old"}))
	require.NoError(t, store.Upsert(&User{UserID: "123", APIKey: "new", SheetLink: "https://example.com"}))

	got, err := store.Get("123")
	require.NoError(t, err)
	assert.Equal(t, "new", got.APIKey)
	assert.Equal(t, "https://example.com", got.SheetLink)
}

func TestGetUnknownUser(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertEmptyID(t *testing.T) {
	store := openTestStore(t)
	require.Error(t, store.Upsert(&User{}))
}

func TestDelete(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Upsert(&User{UserID: "123", APIKey: "key"}))
	require.NoError(t, store.Delete("123"))

	_, err := store.Get("123")
	require.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, store.Delete("123"), "deleting a missing user is not an error")
}
