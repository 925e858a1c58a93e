package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUsesProviderID(t *testing.T) {
	s := NewMemoryStore()

	entry, err := s.Record(context.Background(), map[string]any{"id": "ord_1", "status": "InProgress"})
	require.NoError(t, err)
	assert.Equal(t, "ord_1", entry.ID)
	assert.Equal(t, "InProgress", entry.Status)
	assert.False(t, entry.CreatedAt.IsZero())
	assert.Empty(t, entry.Updates)

	got, err := s.Get(context.Background(), "ord_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "InProgress", got.Status)
}

func TestRecordFallsBackToLocalID(t *testing.T) {
	s := NewMemoryStore()

	entry, err := s.Record(context.Background(), map[string]any{"status": "InProgress"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(entry.ID, "local-"), "got %q", entry.ID)
}

func TestRecordDefaultsStatusToSubmitted(t *testing.T) {
	s := NewMemoryStore()

	entry, err := s.Record(context.Background(), map[string]any{"id": "ord_2"})
	require.NoError(t, err)
	assert.Equal(t, "submitted", entry.Status)
}

func TestWebhookReplayIsIdempotentOnStatus(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Record(context.Background(), map[string]any{"id": "ord_1", "status": "InProgress"})
	require.NoError(t, err)

	payload := map[string]any{"id": "ord_1", "status": "Complete"}

	first, err := s.ApplyWebhook(context.Background(), payload)
	require.NoError(t, err)
	second, err := s.ApplyWebhook(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, "Complete", first.Status)
	assert.Equal(t, "Complete", second.Status)
	assert.Len(t, second.Updates, 2, "every delivery is appended to history")

	// still one ledger entry, not one per delivery
	got, err := s.Get(context.Background(), "ord_1")
	require.NoError(t, err)
	assert.Len(t, got.Updates, 2)
}

func TestWebhookCreatesEntryWhenUnknown(t *testing.T) {
	s := NewMemoryStore()

	entry, err := s.ApplyWebhook(context.Background(), map[string]any{"orderId": "ord_9", "status": "Shipped"})
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "ord_9", entry.ID)
	assert.Equal(t, "Shipped", entry.Status)
	assert.Len(t, entry.Updates, 1)
}

func TestWebhookWithoutStatusKeepsExisting(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Record(context.Background(), map[string]any{"id": "ord_1", "status": "InProgress"})
	require.NoError(t, err)

	entry, err := s.ApplyWebhook(context.Background(), map[string]any{"id": "ord_1", "note": "picked"})
	require.NoError(t, err)
	assert.Equal(t, "InProgress", entry.Status)
	assert.Len(t, entry.Updates, 1)
}

func TestWebhookWithoutIDIsIgnored(t *testing.T) {
	s := NewMemoryStore()

	entry, err := s.ApplyWebhook(context.Background(), map[string]any{"status": "Complete"})
	require.NoError(t, err)
	assert.Nil(t, entry)

	entry, err = s.ApplyWebhook(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestGetUnknownOrder(t *testing.T) {
	s := NewMemoryStore()

	entry, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestGetReturnsSnapshot(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Record(context.Background(), map[string]any{"id": "ord_1", "status": "InProgress"})
	require.NoError(t, err)

	before, err := s.Get(context.Background(), "ord_1")
	require.NoError(t, err)

	_, err = s.ApplyWebhook(context.Background(), map[string]any{"id": "ord_1", "status": "Complete"})
	require.NoError(t, err)

	assert.Equal(t, "InProgress", before.Status, "earlier read is not mutated by later webhooks")
	assert.Empty(t, before.Updates)
}
