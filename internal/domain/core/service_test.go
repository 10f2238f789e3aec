package core

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/compensation"
	"gymhub/internal/domain/money"
)

func newService() *Service {
	return NewService(NewMemoryStaffStore(), NewMemoryMemberStore())
}

func hourly(rate string) compensation.Profile {
	a := money.MustParse(rate)
	return compensation.Profile{Mode: compensation.ModeHourly, HourlyRate: &a}
}

func TestCreateStaffAndPayee(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	staff, err := svc.CreateStaff(ctx, StaffInput{
		FullName: " Ana Trainer ",
		Email:    "Ana@Gym.Local",
		Role:     auth.RoleTrainer,
		Position: "Coach",
		Profile:  hourly("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Trainer", staff.FullName)
	assert.Equal(t, "ana@gym.local", staff.Email)
	assert.True(t, staff.Active)

	payee, err := svc.Payee(ctx, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, compensation.ModeHourly, payee.Profile.Mode)
	assert.Equal(t, money.MustParse("20"), *payee.Profile.HourlyRate)

	_, err = svc.Payee(ctx, "ghost")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCreateStaffValidation(t *testing.T) {
	svc := newService()
	_, err := svc.CreateStaff(context.Background(), StaffInput{
		Email:   "not-an-email",
		Role:    auth.RoleMember,
		Profile: compensation.Profile{Mode: compensation.ModeHourly},
	})
	var ve *apperr.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]bool{}
	for _, issue := range ve.Issues {
		fields[issue.Field] = true
	}
	assert.True(t, fields["fullName"])
	assert.True(t, fields["email"])
	assert.True(t, fields["role"])
	assert.True(t, fields["compensation.hourlyRate"])
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	in := StaffInput{FullName: "Dee", Email: "dee@gym.local", Role: auth.RoleStaff, Profile: hourly("15")}
	_, err := svc.CreateStaff(ctx, in)
	require.NoError(t, err)
	_, err = svc.CreateStaff(ctx, in)
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestUpdateStaffVersioning(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	staff, err := svc.CreateStaff(ctx, StaffInput{FullName: "Sam", Email: "sam@gym.local", Role: auth.RoleStaff, Profile: hourly("15")})
	require.NoError(t, err)

	pct := decimal.RequireFromString("10")
	updated, err := svc.UpdateStaff(ctx, staff.ID, StaffInput{
		FullName: "Sam Sales",
		Email:    "sam@gym.local",
		Role:     auth.RoleStaff,
		Profile:  compensation.Profile{Mode: compensation.ModeCommission, CommissionRatePercent: &pct},
	}, staff.Version)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, compensation.ModeCommission, updated.Profile.Mode)

	_, err = svc.UpdateStaff(ctx, staff.ID, StaffInput{FullName: "Stale", Email: "sam@gym.local", Role: auth.RoleStaff, Profile: hourly("1")}, 1)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	require.NoError(t, svc.DeleteStaff(ctx, staff.ID, 0))
	ok, err := svc.StaffExists(ctx, staff.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

type fakeDependents struct {
	blockFor string
	released []string
}

func (f *fakeDependents) CheckStaffRemoval(_ context.Context, staffID string) error {
	if staffID == f.blockFor {
		return apperr.Locked("roster shift", "Approved", "left without its staff member")
	}
	return nil
}

func (f *fakeDependents) ReleaseStaff(_ context.Context, staffID string) error {
	f.released = append(f.released, staffID)
	return nil
}

func TestDeleteStaffConsultsDependents(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	shifts := &fakeDependents{}
	sessions := &fakeDependents{}
	svc.GuardStaffRemoval(shifts, sessions)

	kept, err := svc.CreateStaff(ctx, StaffInput{FullName: "Ana", Email: "ana@gym.local", Role: auth.RoleTrainer, Profile: hourly("20")})
	require.NoError(t, err)
	gone, err := svc.CreateStaff(ctx, StaffInput{FullName: "Bo", Email: "bo@gym.local", Role: auth.RoleStaff, Profile: hourly("15")})
	require.NoError(t, err)
	shifts.blockFor = kept.ID

	err = svc.DeleteStaff(ctx, kept.ID, 0)
	assert.True(t, errors.Is(err, apperr.ErrLocked), "got %v", err)
	assert.Empty(t, shifts.released)
	assert.Empty(t, sessions.released)
	ok, err := svc.StaffExists(ctx, kept.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	err = svc.DeleteStaff(ctx, gone.ID, 7)
	assert.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)

	require.NoError(t, svc.DeleteStaff(ctx, gone.ID, gone.Version))
	assert.Equal(t, []string{gone.ID}, shifts.released)
	assert.Equal(t, []string{gone.ID}, sessions.released)
	ok, err = svc.StaffExists(ctx, gone.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemberLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	member, err := svc.CreateMember(ctx, MemberInput{FullName: "Mia Member", Email: "mia@example.com"})
	require.NoError(t, err)
	assert.Equal(t, MemberActive, member.Status)
	assert.False(t, member.JoinedAt.IsZero())

	_, err = svc.CreateMember(ctx, MemberInput{FullName: "Bad", Email: "bad@example.com", Status: "frozen"})
	assert.True(t, errors.Is(err, apperr.ErrValidation))

	updated, err := svc.UpdateMember(ctx, member.ID, MemberInput{FullName: "Mia M.", Email: "mia@example.com", Status: MemberInactive}, 0)
	require.NoError(t, err)
	assert.Equal(t, MemberInactive, updated.Status)
	assert.Equal(t, member.JoinedAt, updated.JoinedAt)

	inactive, err := svc.ListMembers(ctx, MemberFilter{Status: MemberInactive})
	require.NoError(t, err)
	require.Len(t, inactive, 1)

	found, err := svc.ListMembers(ctx, MemberFilter{Search: "mia"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	ok, err := svc.MemberExists(ctx, member.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
