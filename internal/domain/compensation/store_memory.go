package compensation

import (
	"context"
	"strings"

	"gymhub/internal/platform/memstore"
)

type MemoryStore struct {
	table *memstore.Table[SalaryRecord]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{table: memstore.NewTable(entityName,
		func(r SalaryRecord) string { return r.ID },
		func(r SalaryRecord) int { return r.Version },
	)}
}

func (s *MemoryStore) List(_ context.Context, filter Filter) ([]SalaryRecord, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := s.table.List(func(r SalaryRecord) bool {
		if filter.StaffID != "" && r.StaffID != filter.StaffID {
			return false
		}
		if filter.Status != "" && r.Status != filter.Status {
			return false
		}
		if !filter.Period.Overlaps(r.PeriodStart, r.PeriodEnd) {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(r.StaffName+" "+r.Notes), search) {
			return false
		}
		return true
	})
	return memstore.Page(rows, filter.Limit, filter.Offset), nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (SalaryRecord, error) {
	return s.table.Get(id)
}

func (s *MemoryStore) Create(_ context.Context, rec SalaryRecord) error {
	return s.table.Insert(rec)
}

func (s *MemoryStore) Update(_ context.Context, rec SalaryRecord, expectedVersion int) error {
	return s.table.Replace(rec, expectedVersion)
}

func (s *MemoryStore) Delete(_ context.Context, id string, expectedVersion int) error {
	return s.table.Delete(id, expectedVersion)
}
