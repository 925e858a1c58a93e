package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
	"github.com/Jmaes1212/artiq-front-end/internal/usecase"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "order:"

// RedisStore is the durable drop-in for MemoryStore. Entries are stored
// as one JSON blob per order with no expiry; the ledger has no delete
// path. Single-writer semantics are assumed (one storefront process),
// matching the in-memory variant.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Record(ctx context.Context, resp map[string]any) (*domain.OrderEntry, error) {
	entry := newEntry(resp, time.Now().UTC())
	if err := s.put(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *RedisStore) ApplyWebhook(ctx context.Context, payload map[string]any) (*domain.OrderEntry, error) {
	id := webhookID(payload)
	if id == "" {
		return nil, nil
	}
	now := time.Now().UTC()

	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry = &domain.OrderEntry{ID: id, Status: "unknown", CreatedAt: now}
	}
	applyUpdate(entry, payload, now)
	if err := s.put(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.OrderEntry, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entry domain.OrderEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *RedisStore) put(ctx context.Context, entry *domain.OrderEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+entry.ID, raw, 0).Err()
}

var _ usecase.OrderStore = (*RedisStore)(nil)
