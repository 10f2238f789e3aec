package booking

import (
	"context"
	"strings"

	"gymhub/internal/domain/clock"
	"gymhub/internal/platform/memstore"
)

type MemoryPlanStore struct {
	table *memstore.Table[Plan]
}

func NewMemoryPlanStore() *MemoryPlanStore {
	return &MemoryPlanStore{table: memstore.NewTable(planEntity,
		func(p Plan) string { return p.ID },
		func(p Plan) int { return p.Version },
	)}
}

func (s *MemoryPlanStore) List(_ context.Context, filter PlanFilter) ([]Plan, error) {
	return s.table.List(func(p Plan) bool { return !filter.ActiveOnly || p.Active }), nil
}

func (s *MemoryPlanStore) Get(_ context.Context, id string) (Plan, error) {
	return s.table.Get(id)
}

func (s *MemoryPlanStore) Create(_ context.Context, plan Plan) error {
	return s.table.Insert(plan)
}

func (s *MemoryPlanStore) Update(_ context.Context, plan Plan, expectedVersion int) error {
	return s.table.Replace(plan, expectedVersion)
}

type MemoryRequestStore struct {
	table *memstore.Table[BookingRequest]
}

func NewMemoryRequestStore() *MemoryRequestStore {
	return &MemoryRequestStore{table: memstore.NewTable(requestEntity,
		func(r BookingRequest) string { return r.ID },
		func(r BookingRequest) int { return r.Version },
	)}
}

func (s *MemoryRequestStore) List(_ context.Context, filter RequestFilter) ([]BookingRequest, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := s.table.List(func(r BookingRequest) bool {
		if filter.MemberID != "" && r.MemberID != filter.MemberID {
			return false
		}
		if filter.PlanID != "" && r.PlanID != filter.PlanID {
			return false
		}
		if filter.Status != "" && r.Status != filter.Status {
			return false
		}
		if !filter.Period.Contains(clock.DateOf(r.RequestedAt)) {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(r.MemberName+" "+r.PlanName+" "+r.Note), search) {
			return false
		}
		return true
	})
	return memstore.Page(rows, filter.Limit, filter.Offset), nil
}

func (s *MemoryRequestStore) Get(_ context.Context, id string) (BookingRequest, error) {
	return s.table.Get(id)
}

func (s *MemoryRequestStore) Create(_ context.Context, req BookingRequest) error {
	return s.table.Insert(req)
}

func (s *MemoryRequestStore) Update(_ context.Context, req BookingRequest, expectedVersion int) error {
	return s.table.Replace(req, expectedVersion)
}

func (s *MemoryRequestStore) Delete(_ context.Context, id string, expectedVersion int) error {
	return s.table.Delete(id, expectedVersion)
}
