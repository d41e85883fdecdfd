package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianlabs/purchase-engine/internal/common"
	"github.com/meridianlabs/purchase-engine/internal/session"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testPayload(state string, version int) session.Payload {
	return session.Payload{
		"version":   version,
		"sessionId": "s-1",
		"state":     state,
	}
}

func TestSQLiteStoreSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	payload := testPayload("valid", session.LatestVersion)
	require.NoError(t, store.Save(ctx, "s-1", payload))

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "valid", loaded.String("state"))
	assert.Equal(t, session.LatestVersion, loaded.Int("version"))
}

func TestSQLiteStoreLoadMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrSessionNotFound)
}

func TestSQLiteStoreSaveUpserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s-1", testPayload("valid", 27)))
	require.NoError(t, store.Save(ctx, "s-1", testPayload("processed", 28)))

	loaded, err := store.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "processed", loaded.String("state"))

	ids, err := store.SessionIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, ids)
}

func TestSQLiteStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s-1", testPayload("valid", 28)))
	require.NoError(t, store.Delete(ctx, "s-1"))

	_, err := store.Load(ctx, "s-1")
	assert.ErrorIs(t, err, common.ErrSessionNotFound)

	// Deleting an absent session is not an error.
	assert.NoError(t, store.Delete(ctx, "s-1"))
}

func TestSQLiteStoreValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx, "")
	assert.Error(t, err)

	assert.Error(t, store.Save(ctx, "", testPayload("valid", 28)))
	assert.Error(t, store.Save(ctx, "s-1", nil))
	assert.Error(t, store.Delete(ctx, ""))

	_, err = NewSQLiteStore("")
	assert.Error(t, err)
}

func TestSQLiteStoreStateCounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s-1", session.Payload{"version": 28, "state": "valid"}))
	require.NoError(t, store.Save(ctx, "s-2", session.Payload{"version": 28, "state": "valid"}))
	require.NoError(t, store.Save(ctx, "s-3", session.Payload{"version": 28, "state": "processed"}))

	counts, err := store.StateCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"valid": 2, "processed": 1}, counts)
}

func TestSQLiteStoreStaleVersionCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s-1", session.Payload{"version": 20, "state": "valid"}))
	require.NoError(t, store.Save(ctx, "s-2", session.Payload{"version": session.LatestVersion, "state": "valid"}))
	require.NoError(t, store.Save(ctx, "s-3", session.Payload{"state": "valid"}))

	stale, err := store.StaleVersionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stale, "missing versions count as stale")
}

func TestSQLiteStorePurgeOlderThan(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s-1", testPayload("processed", 28)))
	require.NoError(t, store.Save(ctx, "s-2", testPayload("processed", 28)))

	purged, err := store.PurgeOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, purged)

	purged, err = store.PurgeOlderThan(ctx, time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), purged)

	ids, err := store.SessionIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSQLiteStoreMigrateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Migrate(context.Background()))
}
