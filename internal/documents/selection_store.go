package documents

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const selectionKeyPrefix = "recondash:selection:"

// SelectionStore persists one SelectionSet per dashboard view in a redis set,
// so selection survives across stateless API requests. The pure SelectionSet
// engine defines the semantics; this store only carries its state.
type SelectionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSelectionStore builds a store. ttl bounds how long an idle view keeps
// its selection.
func NewSelectionStore(rdb *redis.Client, ttl time.Duration) *SelectionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SelectionStore{rdb: rdb, ttl: ttl}
}

func selectionKey(viewID string) string {
	return selectionKeyPrefix + viewID
}

// Load materialises the view's selection, lazily dropping ids that no longer
// exist in the base collection.
func (s *SelectionStore) Load(ctx context.Context, viewID string, existing []string) (SelectionSet, error) {
	members, err := s.rdb.SMembers(ctx, selectionKey(viewID)).Result()
	if err != nil {
		return SelectionSet{}, err
	}
	set := NewSelectionSet()
	for _, id := range members {
		set.Toggle(id, true)
	}
	if dropped := set.Prune(existing); len(dropped) > 0 {
		stale := make([]interface{}, len(dropped))
		for i, id := range dropped {
			stale[i] = id
		}
		if err := s.rdb.SRem(ctx, selectionKey(viewID), stale...).Err(); err != nil {
			return SelectionSet{}, err
		}
	}
	return set, nil
}

// Toggle adds or removes a single id.
func (s *SelectionStore) Toggle(ctx context.Context, viewID, id string, selected bool) error {
	key := selectionKey(viewID)
	var err error
	if selected {
		err = s.rdb.SAdd(ctx, key, id).Err()
	} else {
		err = s.rdb.SRem(ctx, key, id).Err()
	}
	if err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, s.ttl).Err()
}

// SelectAll adds or removes exactly the visible page's ids.
func (s *SelectionStore) SelectAll(ctx context.Context, viewID string, ids []string, selected bool) error {
	if len(ids) == 0 {
		return nil
	}
	key := selectionKey(viewID)
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	var err error
	if selected {
		err = s.rdb.SAdd(ctx, key, members...).Err()
	} else {
		err = s.rdb.SRem(ctx, key, members...).Err()
	}
	if err != nil {
		return err
	}
	return s.rdb.Expire(ctx, key, s.ttl).Err()
}

// Clear empties the view's selection.
func (s *SelectionStore) Clear(ctx context.Context, viewID string) error {
	return s.rdb.Del(ctx, selectionKey(viewID)).Err()
}
