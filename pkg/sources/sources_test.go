package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryatmodulus/pg-replicate/pkg/config"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleConfig() config.Source {
	return config.Source{
		Host:     "db.internal",
		Port:     5432,
		Name:     "app",
		Username: "replicator",
		Password: "secret",
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := setupStore(t)

	created, err := store.Create("tenant-a", "My Postgres Source", sampleConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "tenant-a", created.TenantID)

	got, err := store.Get("tenant-a", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestStore_TenantIsolation(t *testing.T) {
	store := setupStore(t)

	created, err := store.Create("tenant-a", "src", sampleConfig())
	require.NoError(t, err)

	_, err = store.Get("tenant-b", created.ID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, created.ID, notFound.ID)

	listed, err := store.List("tenant-b")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestStore_List(t *testing.T) {
	store := setupStore(t)

	first, err := store.Create("tenant-a", "first", sampleConfig())
	require.NoError(t, err)
	second, err := store.Create("tenant-a", "second", sampleConfig())
	require.NoError(t, err)

	listed, err := store.List("tenant-a")
	require.NoError(t, err)
	require.Len(t, listed, 2)

	ids := []string{listed[0].ID, listed[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}

func TestStore_Update(t *testing.T) {
	store := setupStore(t)

	created, err := store.Create("tenant-a", "old name", sampleConfig())
	require.NoError(t, err)

	newConfig := sampleConfig()
	newConfig.Host = "replica.internal"
	updated, err := store.Update("tenant-a", created.ID, "new name", newConfig)
	require.NoError(t, err)
	assert.Equal(t, "new name", updated.Name)
	assert.Equal(t, "replica.internal", updated.Config.Host)

	got, err := store.Get("tenant-a", created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestStore_Delete(t *testing.T) {
	store := setupStore(t)

	created, err := store.Create("tenant-a", "src", sampleConfig())
	require.NoError(t, err)

	require.NoError(t, store.Delete("tenant-a", created.ID))

	_, err = store.Get("tenant-a", created.ID)
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	err = store.Delete("tenant-a", created.ID)
	assert.ErrorAs(t, err, &notFound, "double delete answers not found")
}

func TestSource_Stripped(t *testing.T) {
	src := Source{
		ID:     "abc",
		Name:   "src",
		Config: sampleConfig(),
	}
	stripped := src.Stripped()
	assert.Empty(t, stripped.Config.Password)
	assert.Equal(t, "secret", src.Config.Password, "original is untouched")
}
