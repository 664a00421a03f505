// Package paircache provides an optional cache of pair_ids already scored
// in a prior partial run, so a long-running batch job can skip re-emitting
// pairs the generator has already produced. The interface mirrors the
// swappable-backend pattern the teacher uses for its own limiter/session
// stores (see pkg/kernel/limiter_redis.go): a small interface, an in-memory
// default, and a Redis-backed implementation for multi-process runs sharing
// one corpus.
package paircache

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// PairSeenStore records and checks which pair_ids have already been
// generated. Implementations must be safe for concurrent use.
type PairSeenStore interface {
	Seen(ctx context.Context, pairID string) (bool, error)
	MarkSeen(ctx context.Context, pairID string) error
}

// MemoryStore is the zero-dependency default: a mutex-guarded set, scoped to
// one process's lifetime.
type MemoryStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[string]struct{})}
}

func (s *MemoryStore) Seen(_ context.Context, pairID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[pairID]
	return ok, nil
}

func (s *MemoryStore) MarkSeen(_ context.Context, pairID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[pairID] = struct{}{}
	return nil
}

// RedisStore backs PairSeenStore with a Redis set, letting multiple
// processes (or repeated runs over the same corpus) share pair-seen state.
type RedisStore struct {
	client *redis.Client
	setKey string
}

// NewRedisStore builds a RedisStore. setKey scopes the shared set, typically
// one per corpus (e.g. "srdedupe:pairs_seen:<corpus-id>").
func NewRedisStore(addr, password string, db int, setKey string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client, setKey: setKey}
}

func (s *RedisStore) Seen(ctx context.Context, pairID string) (bool, error) {
	return s.client.SIsMember(ctx, s.setKey, pairID).Result()
}

func (s *RedisStore) MarkSeen(ctx context.Context, pairID string) error {
	return s.client.SAdd(ctx, s.setKey, pairID).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Filter removes from pairIDs any already present in store, returning only
// the ones genuinely new to this corpus run, and marks all of pairIDs as
// seen for future calls. Order is preserved.
func Filter(ctx context.Context, store PairSeenStore, pairIDs []string) ([]string, error) {
	fresh := make([]string, 0, len(pairIDs))
	for _, pid := range pairIDs {
		ok, err := store.Seen(ctx, pid)
		if err != nil {
			return nil, err
		}
		if ok {
			continue
		}
		fresh = append(fresh, pid)
	}
	for _, pid := range fresh {
		if err := store.MarkSeen(ctx, pid); err != nil {
			return nil, err
		}
	}
	return fresh, nil
}
