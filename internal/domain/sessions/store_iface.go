package sessions

import (
	"context"

	"gymhub/internal/domain/core"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]TrainerSession, error)
	Get(ctx context.Context, id string) (TrainerSession, error)
	Create(ctx context.Context, session TrainerSession) error
	Update(ctx context.Context, session TrainerSession, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
}

type Parties interface {
	GetStaff(ctx context.Context, id string) (core.Staff, error)
	GetMember(ctx context.Context, id string) (core.Member, error)
}
