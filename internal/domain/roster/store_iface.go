package roster

import (
	"context"

	"gymhub/internal/domain/core"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Shift, error)
	Get(ctx context.Context, id string) (Shift, error)
	Create(ctx context.Context, shift Shift) error
	Update(ctx context.Context, shift Shift, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
}

type StaffLookup interface {
	GetStaff(ctx context.Context, id string) (core.Staff, error)
}
