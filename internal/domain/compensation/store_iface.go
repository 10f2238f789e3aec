package compensation

import (
	"context"

	"github.com/shopspring/decimal"

	"gymhub/internal/domain/clock"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]SalaryRecord, error)
	Get(ctx context.Context, id string) (SalaryRecord, error)
	Create(ctx context.Context, rec SalaryRecord) error
	Update(ctx context.Context, rec SalaryRecord, expectedVersion int) error
	Delete(ctx context.Context, id string, expectedVersion int) error
}

type PayeeLookup interface {
	Payee(ctx context.Context, staffID string) (Payee, error)
}

// HoursSource reports hours worked from approved duty shifts.
type HoursSource interface {
	WorkedHours(ctx context.Context, staffID string, period clock.Range) (decimal.Decimal, error)
}
