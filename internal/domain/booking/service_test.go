package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/core"
	"gymhub/internal/domain/money"
)

type fixture struct {
	svc    *Service
	plans  *PlanService
	member core.Member
	plan   Plan
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	people := core.NewService(core.NewMemoryStaffStore(), core.NewMemoryMemberStore())
	member, err := people.CreateMember(ctx, core.MemberInput{FullName: "Mia Member", Email: "mia@example.com"})
	require.NoError(t, err)

	planStore := NewMemoryPlanStore()
	plans := NewPlanService(planStore, nil)
	plan, err := plans.Create(ctx, PlanInput{Name: "Gold", Price: money.MustParse("49.90"), DurationDays: 30})
	require.NoError(t, err)

	svc := NewService(NewMemoryRequestStore(), planStore, people)
	svc.Now = func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, plans: plans, member: member, plan: plan}
}

func TestRequestApproveThenRejectFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req, err := f.svc.Create(ctx, RequestInput{MemberID: f.member.ID, PlanID: f.plan.ID})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "Gold", req.PlanName)
	assert.Equal(t, "Mia Member", req.MemberName)

	approved, err := f.svc.Approve(ctx, req.ID, "manager-1", 0)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, "manager-1", approved.DecidedBy)
	require.NotNil(t, approved.DecidedAt)

	_, err = f.svc.Reject(ctx, req.ID, "manager-1", 0)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState), "got %v", err)

	_, err = f.svc.Approve(ctx, req.ID, "manager-1", 0)
	assert.True(t, errors.Is(err, apperr.ErrInvalidState))

	stored, err := f.svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, stored.Status)
	assert.Equal(t, approved.Version, stored.Version)
}

func TestRequestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Create(ctx, RequestInput{})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = f.svc.Create(ctx, RequestInput{MemberID: "ghost", PlanID: f.plan.ID})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	_, err = f.plans.Deactivate(ctx, f.plan.ID, 0)
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, RequestInput{MemberID: f.member.ID, PlanID: f.plan.ID})
	assert.True(t, errors.Is(err, apperr.ErrValidation), "inactive plans cannot be requested")

	all, err := f.svc.List(ctx, RequestFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRequestRemoveAnyState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, err := f.svc.Create(ctx, RequestInput{MemberID: f.member.ID, PlanID: f.plan.ID})
	require.NoError(t, err)
	_, err = f.svc.Reject(ctx, req.ID, "manager-1", 0)
	require.NoError(t, err)

	_, err = f.svc.Remove(ctx, req.ID, 0)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, req.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestRequestStaleVersionConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	req, err := f.svc.Create(ctx, RequestInput{MemberID: f.member.ID, PlanID: f.plan.ID})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, req.ID, "m", req.Version+1)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestRequestListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, err := f.svc.Create(ctx, RequestInput{MemberID: f.member.ID, PlanID: f.plan.ID, Note: "front desk"})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, RequestInput{MemberID: f.member.ID, PlanID: f.plan.ID})
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, first.ID, "m", 0)
	require.NoError(t, err)

	pending, err := f.svc.List(ctx, RequestFilter{Status: StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	found, err := f.svc.List(ctx, RequestFilter{Search: "desk"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.ID, found[0].ID)

	all, err := f.svc.List(ctx, RequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID, "creation order")
}
