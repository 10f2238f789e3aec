package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymhub/internal/domain/apperr"
)

const planCachePrefix = "plans:"

// PlanService manages the membership plan catalog. Listings go through the
// cache and every write invalidates it.
type PlanService struct {
	store PlanStore
	cache Cache
	Now   func() time.Time
}

func NewPlanService(store PlanStore, cache Cache) *PlanService {
	return &PlanService{store: store, cache: cache, Now: time.Now}
}

func (s *PlanService) List(ctx context.Context, filter PlanFilter) ([]Plan, error) {
	key := planCachePrefix + "all"
	if filter.ActiveOnly {
		key = planCachePrefix + "active"
	}
	var plans []Plan
	if s.cache != nil && s.cache.Read(ctx, key, &plans) {
		return plans, nil
	}
	plans, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []Plan{}
	}
	if s.cache != nil {
		s.cache.Write(ctx, key, plans)
	}
	return plans, nil
}

func (s *PlanService) Get(ctx context.Context, id string) (Plan, error) {
	return s.store.Get(ctx, id)
}

func (s *PlanService) Create(ctx context.Context, in PlanInput) (Plan, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validatePlan(in); err != nil {
		return Plan{}, err
	}
	now := s.Now().UTC()
	plan := Plan{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Description:  strings.TrimSpace(in.Description),
		Price:        in.Price,
		DurationDays: in.DurationDays,
		Active:       in.Active == nil || *in.Active,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, plan); err != nil {
		return Plan{}, err
	}
	s.invalidate(ctx)
	return plan, nil
}

func (s *PlanService) Update(ctx context.Context, id string, in PlanInput, expectedVersion int) (Plan, error) {
	plan, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return Plan{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validatePlan(in); err != nil {
		return Plan{}, err
	}
	plan.Name = in.Name
	plan.Description = strings.TrimSpace(in.Description)
	plan.Price = in.Price
	plan.DurationDays = in.DurationDays
	if in.Active != nil {
		plan.Active = *in.Active
	}
	return s.save(ctx, plan)
}

// Deactivate retires a plan. Plans are never hard-deleted because requests reference them.
func (s *PlanService) Deactivate(ctx context.Context, id string, expectedVersion int) (Plan, error) {
	plan, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return Plan{}, err
	}
	if !plan.Active {
		return plan, nil
	}
	plan.Active = false
	return s.save(ctx, plan)
}

func (s *PlanService) load(ctx context.Context, id string, expectedVersion int) (Plan, error) {
	plan, err := s.store.Get(ctx, id)
	if err != nil {
		return Plan{}, err
	}
	if expectedVersion > 0 && plan.Version != expectedVersion {
		return Plan{}, apperr.Conflict(planEntity, id)
	}
	return plan, nil
}

func (s *PlanService) save(ctx context.Context, plan Plan) (Plan, error) {
	current := plan.Version
	plan.Version = current + 1
	plan.UpdatedAt = s.Now().UTC()
	if err := s.store.Update(ctx, plan, current); err != nil {
		return Plan{}, err
	}
	s.invalidate(ctx)
	return plan, nil
}

func (s *PlanService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, planCachePrefix)
	}
}

func validatePlan(in PlanInput) error {
	var issues apperr.Issues
	issues.Required("name", in.Name)
	if in.Price.Negative() {
		issues.Add("price", "must not be negative")
	}
	if in.DurationDays <= 0 {
		issues.Add("durationDays", "must be greater than zero")
	}
	return issues.Err()
}
