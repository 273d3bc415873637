//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/tessera/internal/storage"
	"github.com/dyluth/tessera/internal/testutil"
	"github.com/dyluth/tessera/pkg/dashboard"
)

func TestManager_RedisRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := testutil.StartRedis(t)
	kv, err := storage.NewRedisKV(opts)
	require.NoError(t, err)
	defer kv.Close()
	require.NoError(t, kv.Ping(ctx))

	m, err := New(kv, "fleet-overview", WithMaxBackups(2))
	require.NoError(t, err)
	store := m.Load(ctx)

	for _, id := range []string{"a", "b", "c"} {
		store.AddWidget(widget(id, 4, 2))
		require.NoError(t, m.SaveNow(ctx))
		time.Sleep(2 * time.Millisecond)
	}
	require.NoError(t, m.Close())

	backups, err := m.Backups(ctx)
	require.NoError(t, err)
	assert.Len(t, backups, 2)

	reloaded, err := New(kv, "fleet-overview")
	require.NoError(t, err)
	defer reloaded.Close()

	got := reloaded.Load(ctx)
	assert.Equal(t, []string{"a", "b", "c"}, got.WidgetIDs())
}

func TestManager_RedisOutOfMemory(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := testutil.StartRedis(t)
	kv, err := storage.NewRedisKV(opts)
	require.NoError(t, err)
	defer kv.Close()

	m, err := New(kv, "fleet-overview")
	require.NoError(t, err)
	defer m.Close()

	store := m.Load(ctx)
	store.AddWidget(widget("a", 4, 2))
	require.NoError(t, m.SaveNow(ctx))

	testutil.SetMaxMemory(t, opts, "1")
	store.AddWidget(widget("b", 4, 2))

	err = m.SaveNow(ctx)
	require.Error(t, err)
	assert.True(t, storage.IsQuotaExceeded(err))

	testutil.SetMaxMemory(t, opts, "0")
	raw, err := kv.Get(ctx, dashboard.SnapshotKey("fleet-overview"))
	require.NoError(t, err)
	snap, err := dashboard.ParseSnapshot([]byte(raw))
	require.NoError(t, err)
	assert.Len(t, snap.Widgets, 1)
}
