// Package store holds the order ledger implementations behind the
// usecase.OrderStore port: a volatile in-process map (the default) and a
// Redis-backed variant for deployments that want orders to outlive the
// process.
package store

import (
	"context"
	"sync"
	"time"

	domain "github.com/Jmaes1212/artiq-front-end/internal/entity"
	"github.com/Jmaes1212/artiq-front-end/internal/usecase"
)

// MemoryStore keeps ledger entries for the process lifetime only.
// Entries are never deleted; webhook history only grows.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*domain.OrderEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*domain.OrderEntry)}
}

func (s *MemoryStore) Record(_ context.Context, resp map[string]any) (*domain.OrderEntry, error) {
	entry := newEntry(resp, time.Now().UTC())
	s.mu.Lock()
	s.orders[entry.ID] = entry
	s.mu.Unlock()
	return snapshot(entry), nil
}

func (s *MemoryStore) ApplyWebhook(_ context.Context, payload map[string]any) (*domain.OrderEntry, error) {
	id := webhookID(payload)
	if id == "" {
		return nil, nil
	}
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.orders[id]
	if !ok {
		entry = &domain.OrderEntry{ID: id, Status: "unknown", CreatedAt: now}
		s.orders[id] = entry
	}
	applyUpdate(entry, payload, now)
	return snapshot(entry), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*domain.OrderEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	return snapshot(entry), nil
}

// snapshot copies the entry so callers never observe a later webhook
// append racing with their read.
func snapshot(e *domain.OrderEntry) *domain.OrderEntry {
	cp := *e
	cp.Updates = append([]domain.OrderUpdate(nil), e.Updates...)
	return &cp
}

func newEntry(resp map[string]any, now time.Time) *domain.OrderEntry {
	id := stringField(resp, "id")
	if id == "" {
		id = usecase.LocalOrderID(now)
	}
	status := stringField(resp, "status")
	if status == "" {
		status = "submitted"
	}
	return &domain.OrderEntry{
		ID:        id,
		Status:    status,
		CreatedAt: now,
		Response:  resp,
		Updates:   []domain.OrderUpdate{},
	}
}

// applyUpdate is the webhook merge rule: status overwrite is idempotent,
// history append is not, so replayed deliveries leave the status intact
// and the trail complete.
func applyUpdate(entry *domain.OrderEntry, payload map[string]any, now time.Time) {
	if status := stringField(payload, "status"); status != "" {
		entry.Status = status
	}
	entry.Updates = append(entry.Updates, domain.OrderUpdate{ReceivedAt: now, Payload: payload})
}

func webhookID(payload map[string]any) string {
	if payload == nil {
		return ""
	}
	if id := stringField(payload, "id"); id != "" {
		return id
	}
	return stringField(payload, "orderId")
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

var _ usecase.OrderStore = (*MemoryStore)(nil)
