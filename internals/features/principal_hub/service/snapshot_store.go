package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"edudash_backend/internals/features/principal_hub/dto"
)

// SnapshotStore keeps the last good dashboard per hub key.
// Load returns (nil, nil) when nothing is stored.
type SnapshotStore interface {
	Load(ctx context.Context, key string) (*dto.DashboardData, error)
	Save(ctx context.Context, key string, data dto.DashboardData) error
	Delete(ctx context.Context, key string) error
}

/* ===================== MEMORY ===================== */

const DefaultSnapshotTTL = 30 * time.Minute

// MemorySnapshotStore expires snapshots after ttl; expired ones are swept on Save.
type MemorySnapshotStore struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]memorySnapshot
}

type memorySnapshot struct {
	data    dto.DashboardData
	expires time.Time
}

func NewMemorySnapshotStore(ttl time.Duration) *MemorySnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &MemorySnapshotStore{ttl: ttl, now: time.Now, data: make(map[string]memorySnapshot)}
}

func (m *MemorySnapshotStore) Load(_ context.Context, key string) (*dto.DashboardData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[key]
	if !ok || !m.now().Before(s.expires) {
		return nil, nil
	}
	d := s.data
	return &d, nil
}

func (m *MemorySnapshotStore) Save(_ context.Context, key string, data dto.DashboardData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for k, s := range m.data {
		if !now.Before(s.expires) {
			delete(m.data, k)
		}
	}
	m.data[key] = memorySnapshot{data: data, expires: now.Add(m.ttl)}
	return nil
}

func (m *MemorySnapshotStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len is the number of stored snapshots, expired ones included until swept.
func (m *MemorySnapshotStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

/* ===================== REDIS ===================== */

const redisSnapshotPrefix = "principal_hub:snapshot:"

// RedisSnapshotStore shares last good dashboards between API instances.
type RedisSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, ttl time.Duration) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client, ttl: ttl}
}

func (r *RedisSnapshotStore) Load(ctx context.Context, key string) (*dto.DashboardData, error) {
	raw, err := r.client.Get(ctx, redisSnapshotPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d dto.DashboardData
	if err := sonic.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *RedisSnapshotStore) Save(ctx context.Context, key string, data dto.DashboardData) error {
	payload, err := sonic.Marshal(data)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisSnapshotPrefix+key, payload, r.ttl).Err()
}

func (r *RedisSnapshotStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisSnapshotPrefix+key).Err()
}
