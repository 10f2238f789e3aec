package roster

import (
	"context"
	"strings"

	"gymhub/internal/platform/memstore"
)

type MemoryStore struct {
	table *memstore.Table[Shift]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{table: memstore.NewTable(entityName,
		func(s Shift) string { return s.ID },
		func(s Shift) int { return s.Version },
	)}
}

func (m *MemoryStore) List(_ context.Context, filter Filter) ([]Shift, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := m.table.List(func(s Shift) bool {
		if filter.StaffID != "" && s.StaffID != filter.StaffID {
			return false
		}
		if filter.Status != "" && s.Status != filter.Status {
			return false
		}
		if !filter.Period.Contains(s.Date) {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(s.StaffName+" "+string(s.ShiftType)+" "+s.Notes), search) {
			return false
		}
		return true
	})
	return memstore.Page(rows, filter.Limit, filter.Offset), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Shift, error) {
	return m.table.Get(id)
}

func (m *MemoryStore) Create(_ context.Context, shift Shift) error {
	return m.table.Insert(shift)
}

func (m *MemoryStore) Update(_ context.Context, shift Shift, expectedVersion int) error {
	return m.table.Replace(shift, expectedVersion)
}

func (m *MemoryStore) Delete(_ context.Context, id string, expectedVersion int) error {
	return m.table.Delete(id, expectedVersion)
}
