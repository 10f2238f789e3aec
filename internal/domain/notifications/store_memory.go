package notifications

import (
	"context"
	"slices"
	"sync"
	"time"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/platform/memstore"
)

type MemoryStore struct {
	mu    sync.Mutex
	table *memstore.Table[Notification]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{table: memstore.NewTable("notification",
		func(n Notification) string { return n.ID },
		func(Notification) int { return 0 },
	)}
}

func (m *MemoryStore) Create(_ context.Context, n Notification) error {
	return m.table.Insert(n)
}

func (m *MemoryStore) List(_ context.Context, recipientID string, limit, offset int) ([]Notification, error) {
	rows := m.table.List(func(n Notification) bool { return n.RecipientID == recipientID })
	slices.Reverse(rows)
	return memstore.Page(rows, limit, offset), nil
}

func (m *MemoryStore) Count(_ context.Context, recipientID string) (int, error) {
	return len(m.table.List(func(n Notification) bool { return n.RecipientID == recipientID })), nil
}

func (m *MemoryStore) MarkRead(_ context.Context, recipientID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, err := m.table.Get(id)
	if err != nil {
		return err
	}
	if n.RecipientID != recipientID {
		return apperr.NotFound("notification", id)
	}
	if n.ReadAt != nil {
		return nil
	}
	n.ReadAt = &at
	return m.table.Replace(n, 0)
}
