package documents

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestSelectionStore(t *testing.T) (*SelectionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewSelectionStore(rdb, time.Hour), mr
}

func TestSelectionStoreToggleAndLoad(t *testing.T) {
	store, _ := newTestSelectionStore(t)
	ctx := context.Background()
	existing := []string{"doc-1", "doc-2", "doc-3"}

	require.NoError(t, store.Toggle(ctx, "view-1", "doc-1", true))
	require.NoError(t, store.Toggle(ctx, "view-1", "doc-2", true))
	require.NoError(t, store.Toggle(ctx, "view-1", "doc-2", false))

	set, err := store.Load(ctx, "view-1", existing)
	require.NoError(t, err)
	require.Equal(t, []string{"doc-1"}, set.IDs())
}

func TestSelectionStoreIsScopedPerView(t *testing.T) {
	store, _ := newTestSelectionStore(t)
	ctx := context.Background()
	existing := []string{"doc-1", "doc-2"}

	require.NoError(t, store.Toggle(ctx, "view-1", "doc-1", true))
	require.NoError(t, store.Toggle(ctx, "view-2", "doc-2", true))

	one, err := store.Load(ctx, "view-1", existing)
	require.NoError(t, err)
	require.Equal(t, []string{"doc-1"}, one.IDs())

	two, err := store.Load(ctx, "view-2", existing)
	require.NoError(t, err)
	require.Equal(t, []string{"doc-2"}, two.IDs())
}

func TestSelectionStoreSelectAllAccumulates(t *testing.T) {
	store, _ := newTestSelectionStore(t)
	ctx := context.Background()
	existing := []string{"doc-1", "doc-2", "doc-3", "doc-4"}

	require.NoError(t, store.SelectAll(ctx, "view-1", []string{"doc-1", "doc-2"}, true))
	require.NoError(t, store.SelectAll(ctx, "view-1", []string{"doc-3", "doc-4"}, true))
	require.NoError(t, store.SelectAll(ctx, "view-1", []string{"doc-2"}, false))

	set, err := store.Load(ctx, "view-1", existing)
	require.NoError(t, err)
	require.Equal(t, []string{"doc-1", "doc-3", "doc-4"}, set.IDs())
}

func TestSelectionStoreLoadPrunesStaleIDs(t *testing.T) {
	store, mr := newTestSelectionStore(t)
	ctx := context.Background()

	require.NoError(t, store.SelectAll(ctx, "view-1", []string{"doc-1", "doc-gone"}, true))

	set, err := store.Load(ctx, "view-1", []string{"doc-1"})
	require.NoError(t, err)
	require.Equal(t, []string{"doc-1"}, set.IDs())

	// pruning is persisted, not just in-memory
	members, err := mr.Members(selectionKey("view-1"))
	require.NoError(t, err)
	require.Equal(t, []string{"doc-1"}, members)
}

func TestSelectionStoreClear(t *testing.T) {
	store, _ := newTestSelectionStore(t)
	ctx := context.Background()

	require.NoError(t, store.SelectAll(ctx, "view-1", []string{"doc-1", "doc-2"}, true))
	require.NoError(t, store.Clear(ctx, "view-1"))

	set, err := store.Load(ctx, "view-1", []string{"doc-1", "doc-2"})
	require.NoError(t, err)
	require.Equal(t, 0, set.Count())
}

func TestSelectionStoreTouchesTTL(t *testing.T) {
	store, mr := newTestSelectionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Toggle(ctx, "view-1", "doc-1", true))
	require.Greater(t, mr.TTL(selectionKey("view-1")), time.Duration(0))
}
