package audit

import (
	"context"
	"slices"

	"gymhub/internal/platform/memstore"
)

type MemoryStore struct {
	table *memstore.Table[Event]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{table: memstore.NewTable("audit event",
		func(e Event) string { return e.ID },
		func(Event) int { return 0 },
	)}
}

func (m *MemoryStore) Insert(_ context.Context, evt Event) error {
	return m.table.Insert(evt)
}

// List returns newest first.
func (m *MemoryStore) List(_ context.Context, filter Filter, includeDetails bool) ([]Event, error) {
	rows := m.table.List(func(e Event) bool { return matches(e, filter) })
	slices.Reverse(rows)
	rows = memstore.Page(rows, filter.Limit, filter.Offset)
	if !includeDetails {
		for i := range rows {
			rows[i].Before, rows[i].After = nil, nil
		}
	}
	return rows, nil
}

func (m *MemoryStore) Count(_ context.Context, filter Filter) (int, error) {
	return len(m.table.List(func(e Event) bool { return matches(e, filter) })), nil
}

func matches(e Event, f Filter) bool {
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.EntityType != "" && e.EntityType != f.EntityType {
		return false
	}
	if f.EntityID != "" && e.EntityID != f.EntityID {
		return false
	}
	if f.ActorID != "" && e.ActorID != f.ActorID {
		return false
	}
	return true
}
