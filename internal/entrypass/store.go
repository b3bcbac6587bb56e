package entrypass

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/event-entry/internal/model"
)

// Snapshot is the last pass fetched for a customer.  Pass is nil when the
// customer had no pass at FetchedAt.
type Snapshot struct {
	Pass      *model.EntryPass `json:"pass"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

// Store keeps pass snapshots per customer.  Get reports found=false when
// no snapshot is held.
type Store interface {
	Get(ctx context.Context, userID string) (Snapshot, bool, error)
	Put(ctx context.Context, userID string, s Snapshot) error
	Drop(ctx context.Context, userID string) error
}

// RedisStore keeps snapshots as JSON under <prefix>:<userID>.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a Redis-backed Store.
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "entrypass"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) key(userID string) string { return s.prefix + ":" + userID }

func (s *RedisStore) Get(ctx context.Context, userID string) (Snapshot, bool, error) {
	bs, err := s.rdb.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(bs, &snap); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *RedisStore) Put(ctx context.Context, userID string, snap Snapshot) error {
	bs, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(userID), bs, s.ttl).Err()
}

func (s *RedisStore) Drop(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, s.key(userID)).Err()
}

// MemoryStore is a process-local Store, used when Redis is unavailable.
// Snapshots fetched more than ttl ago are treated as missing.
type MemoryStore struct {
	mu    sync.Mutex
	snaps map[string]Snapshot
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.  A ttl of zero keeps
// snapshots until they are replaced or dropped.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{snaps: map[string]Snapshot{}, ttl: ttl, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[userID]
	if !ok {
		return Snapshot{}, false, nil
	}
	if s.ttl > 0 && s.now().Sub(snap.FetchedAt) >= s.ttl {
		delete(s.snaps, userID)
		return Snapshot{}, false, nil
	}
	return snap, true, nil
}

func (s *MemoryStore) Put(_ context.Context, userID string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[userID] = snap
	return nil
}

func (s *MemoryStore) Drop(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, userID)
	return nil
}
