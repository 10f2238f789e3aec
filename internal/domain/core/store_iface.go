package core

import "context"

type StaffStore interface {
	List(ctx context.Context, filter StaffFilter) ([]Staff, error)
	Get(ctx context.Context, id string) (Staff, error)
	Create(ctx context.Context, staff Staff) error
	Update(ctx context.Context, staff Staff, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
}

// StaffDependents is an area holding records keyed by a staff member.
// CheckStaffRemoval refuses while records that must outlive the person exist;
// ReleaseStaff drops the rest once every area has agreed.
type StaffDependents interface {
	CheckStaffRemoval(ctx context.Context, staffID string) error
	ReleaseStaff(ctx context.Context, staffID string) error
}

type MemberStore interface {
	List(ctx context.Context, filter MemberFilter) ([]Member, error)
	Get(ctx context.Context, id string) (Member, error)
	Create(ctx context.Context, member Member) error
	Update(ctx context.Context, member Member, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
}
