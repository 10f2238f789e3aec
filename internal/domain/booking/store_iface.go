package booking

import (
	"context"

	"gymhub/internal/domain/core"
)

type PlanStore interface {
	List(ctx context.Context, filter PlanFilter) ([]Plan, error)
	Get(ctx context.Context, id string) (Plan, error)
	Create(ctx context.Context, plan Plan) error
	Update(ctx context.Context, plan Plan, expectedVersion int) error
}

type RequestStore interface {
	List(ctx context.Context, filter RequestFilter) ([]BookingRequest, error)
	Get(ctx context.Context, id string) (BookingRequest, error)
	Create(ctx context.Context, req BookingRequest) error
	Update(ctx context.Context, req BookingRequest, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
}

type MemberLookup interface {
	GetMember(ctx context.Context, id string) (core.Member, error)
}

// Cache is the read-through cache used for the plan catalog.
type Cache interface {
	Read(ctx context.Context, key string, out any) bool
	Write(ctx context.Context, key string, val any)
	Invalidate(ctx context.Context, pattern string)
}
