package sessions

import (
	"context"
	"strings"

	"gymhub/internal/platform/memstore"
)

type MemoryStore struct {
	table *memstore.Table[TrainerSession]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{table: memstore.NewTable(entityName,
		func(s TrainerSession) string { return s.ID },
		func(s TrainerSession) int { return s.Version },
	)}
}

func (m *MemoryStore) List(_ context.Context, filter Filter) ([]TrainerSession, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := m.table.List(func(s TrainerSession) bool {
		if filter.TrainerID != "" && s.TrainerID != filter.TrainerID {
			return false
		}
		if filter.MemberID != "" && s.MemberID != filter.MemberID {
			return false
		}
		if filter.Status != "" && s.Status != filter.Status {
			return false
		}
		if !filter.Period.Contains(s.Date) {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(s.TrainerName+" "+s.MemberName+" "+s.Type+" "+s.Location+" "+s.Notes), search) {
			return false
		}
		return true
	})
	return memstore.Page(rows, filter.Limit, filter.Offset), nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (TrainerSession, error) {
	return m.table.Get(id)
}

func (m *MemoryStore) Create(_ context.Context, session TrainerSession) error {
	return m.table.Insert(session)
}

func (m *MemoryStore) Update(_ context.Context, session TrainerSession, expectedVersion int) error {
	return m.table.Replace(session, expectedVersion)
}

func (m *MemoryStore) Delete(_ context.Context, id string, expectedVersion int) error {
	return m.table.Delete(id, expectedVersion)
}
