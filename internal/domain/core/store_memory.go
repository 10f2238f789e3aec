package core

import (
	"context"
	"strings"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/platform/memstore"
)

type MemoryStaffStore struct {
	table *memstore.Table[Staff]
}

func NewMemoryStaffStore() *MemoryStaffStore {
	return &MemoryStaffStore{table: memstore.NewTable(staffEntity,
		func(s Staff) string { return s.ID },
		func(s Staff) int { return s.Version },
	)}
}

func (m *MemoryStaffStore) List(_ context.Context, filter StaffFilter) ([]Staff, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := m.table.List(func(s Staff) bool {
		if filter.Role != "" && s.Role != filter.Role {
			return false
		}
		if filter.Active != nil && s.Active != *filter.Active {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(s.FullName+" "+s.Email+" "+s.Position), search) {
			return false
		}
		return true
	})
	return memstore.Page(rows, filter.Limit, filter.Offset), nil
}

func (m *MemoryStaffStore) Get(_ context.Context, id string) (Staff, error) {
	return m.table.Get(id)
}

func (m *MemoryStaffStore) Create(_ context.Context, staff Staff) error {
	if _, taken := m.table.Find(func(s Staff) bool { return s.Email == staff.Email }); taken {
		return apperr.Invalid("email", "is already in use")
	}
	return m.table.Insert(staff)
}

func (m *MemoryStaffStore) Update(_ context.Context, staff Staff, expectedVersion int) error {
	if _, taken := m.table.Find(func(s Staff) bool { return s.Email == staff.Email && s.ID != staff.ID }); taken {
		return apperr.Invalid("email", "is already in use")
	}
	return m.table.Replace(staff, expectedVersion)
}

func (m *MemoryStaffStore) Delete(_ context.Context, id string, expectedVersion int) error {
	return m.table.Delete(id, expectedVersion)
}

type MemoryMemberStore struct {
	table *memstore.Table[Member]
}

func NewMemoryMemberStore() *MemoryMemberStore {
	return &MemoryMemberStore{table: memstore.NewTable(memberEntity,
		func(m Member) string { return m.ID },
		func(m Member) int { return m.Version },
	)}
}

func (m *MemoryMemberStore) List(_ context.Context, filter MemberFilter) ([]Member, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := m.table.List(func(mem Member) bool {
		if filter.Status != "" && mem.Status != filter.Status {
			return false
		}
		if search != "" && !strings.Contains(strings.ToLower(mem.FullName+" "+mem.Email+" "+mem.Phone), search) {
			return false
		}
		return true
	})
	return memstore.Page(rows, filter.Limit, filter.Offset), nil
}

func (m *MemoryMemberStore) Get(_ context.Context, id string) (Member, error) {
	return m.table.Get(id)
}

func (m *MemoryMemberStore) Create(_ context.Context, member Member) error {
	return m.table.Insert(member)
}

func (m *MemoryMemberStore) Update(_ context.Context, member Member, expectedVersion int) error {
	return m.table.Replace(member, expectedVersion)
}

func (m *MemoryMemberStore) Delete(_ context.Context, id string, expectedVersion int) error {
	return m.table.Delete(id, expectedVersion)
}
