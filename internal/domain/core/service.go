package core

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/clock"
	"gymhub/internal/domain/compensation"
)

type Service struct {
	staff      StaffStore
	members    MemberStore
	dependents []StaffDependents
	Now        func() time.Time
}

func NewService(staff StaffStore, members MemberStore) *Service {
	return &Service{staff: staff, members: members, Now: time.Now}
}

func (s *Service) ListStaff(ctx context.Context, filter StaffFilter) ([]Staff, error) {
	return s.staff.List(ctx, filter)
}

func (s *Service) GetStaff(ctx context.Context, id string) (Staff, error) {
	return s.staff.Get(ctx, id)
}

func (s *Service) CreateStaff(ctx context.Context, in StaffInput) (Staff, error) {
	in = normalizeStaff(in)
	if err := validateStaff(in); err != nil {
		return Staff{}, err
	}
	now := s.Now().UTC()
	staff := Staff{
		ID:        uuid.NewString(),
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		Position:  in.Position,
		Role:      in.Role,
		Profile:   in.Profile,
		Active:    in.Active == nil || *in.Active,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return Staff{}, err
	}
	return staff, nil
}

func (s *Service) UpdateStaff(ctx context.Context, id string, in StaffInput, expectedVersion int) (Staff, error) {
	staff, err := s.staff.Get(ctx, id)
	if err != nil {
		return Staff{}, err
	}
	if expectedVersion > 0 && staff.Version != expectedVersion {
		return Staff{}, apperr.Conflict(staffEntity, id)
	}
	in = normalizeStaff(in)
	if err := validateStaff(in); err != nil {
		return Staff{}, err
	}

	current := staff.Version
	staff.FullName = in.FullName
	staff.Email = in.Email
	staff.Phone = in.Phone
	staff.Position = in.Position
	staff.Role = in.Role
	staff.Profile = in.Profile
	if in.Active != nil {
		staff.Active = *in.Active
	}
	staff.Version = current + 1
	staff.UpdatedAt = s.Now().UTC()
	if err := s.staff.Update(ctx, staff, current); err != nil {
		return Staff{}, err
	}
	return staff, nil
}

// GuardStaffRemoval registers areas consulted before a staff member is deleted.
func (s *Service) GuardStaffRemoval(deps ...StaffDependents) {
	s.dependents = append(s.dependents, deps...)
}

func (s *Service) DeleteStaff(ctx context.Context, id string, expectedVersion int) error {
	staff, err := s.staff.Get(ctx, id)
	if err != nil {
		return err
	}
	if expectedVersion > 0 && staff.Version != expectedVersion {
		return apperr.Conflict(staffEntity, id)
	}
	for _, d := range s.dependents {
		if err := d.CheckStaffRemoval(ctx, id); err != nil {
			return err
		}
	}
	for _, d := range s.dependents {
		if err := d.ReleaseStaff(ctx, id); err != nil {
			return err
		}
	}
	return s.staff.Delete(ctx, id, staff.Version)
}

// Payee exposes a staff member's pay profile to the salary calculator.
func (s *Service) Payee(ctx context.Context, staffID string) (compensation.Payee, error) {
	staff, err := s.staff.Get(ctx, staffID)
	if err != nil {
		return compensation.Payee{}, err
	}
	return compensation.Payee{
		ID:       staff.ID,
		FullName: staff.FullName,
		Email:    staff.Email,
		Position: staff.Position,
		Profile:  staff.Profile,
	}, nil
}

func (s *Service) ListMembers(ctx context.Context, filter MemberFilter) ([]Member, error) {
	return s.members.List(ctx, filter)
}

func (s *Service) GetMember(ctx context.Context, id string) (Member, error) {
	return s.members.Get(ctx, id)
}

func (s *Service) CreateMember(ctx context.Context, in MemberInput) (Member, error) {
	in = normalizeMember(in)
	if err := validateMember(in); err != nil {
		return Member{}, err
	}
	now := s.Now().UTC()
	if in.JoinedAt.IsZero() {
		in.JoinedAt = clock.DateOf(now)
	}
	member := Member{
		ID:        uuid.NewString(),
		FullName:  in.FullName,
		Email:     in.Email,
		Phone:     in.Phone,
		Status:    in.Status,
		JoinedAt:  in.JoinedAt,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return Member{}, err
	}
	return member, nil
}

func (s *Service) UpdateMember(ctx context.Context, id string, in MemberInput, expectedVersion int) (Member, error) {
	member, err := s.members.Get(ctx, id)
	if err != nil {
		return Member{}, err
	}
	if expectedVersion > 0 && member.Version != expectedVersion {
		return Member{}, apperr.Conflict(memberEntity, id)
	}
	in = normalizeMember(in)
	if err := validateMember(in); err != nil {
		return Member{}, err
	}

	current := member.Version
	member.FullName = in.FullName
	member.Email = in.Email
	member.Phone = in.Phone
	member.Status = in.Status
	if !in.JoinedAt.IsZero() {
		member.JoinedAt = in.JoinedAt
	}
	member.Version = current + 1
	member.UpdatedAt = s.Now().UTC()
	if err := s.members.Update(ctx, member, current); err != nil {
		return Member{}, err
	}
	return member, nil
}

func (s *Service) DeleteMember(ctx context.Context, id string, expectedVersion int) error {
	return s.members.Delete(ctx, id, expectedVersion)
}

// MemberExists reports whether id names a member; used to validate references from other areas.
func (s *Service) MemberExists(ctx context.Context, id string) (bool, error) {
	return exists(s.members.Get(ctx, id))
}

func (s *Service) StaffExists(ctx context.Context, id string) (bool, error) {
	return exists(s.staff.Get(ctx, id))
}

func exists[T any](_ T, err error) (bool, error) {
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func normalizeStaff(in StaffInput) StaffInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Position = strings.TrimSpace(in.Position)
	return in
}

func validateStaff(in StaffInput) error {
	var issues apperr.Issues
	issues.Required("fullName", in.FullName)
	validEmail(&issues, in.Email)
	if !staffRoles[in.Role] {
		issues.Add("role", "must be one of Admin, Manager, Trainer, Staff")
	}
	if err := in.Profile.Validate(); err != nil {
		var ve *apperr.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for _, issue := range ve.Issues {
			issues.Add(issue.Field, issue.Reason)
		}
	}
	return issues.Err()
}

func normalizeMember(in MemberInput) MemberInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Status == "" {
		in.Status = MemberActive
	}
	return in
}

func validateMember(in MemberInput) error {
	var issues apperr.Issues
	issues.Required("fullName", in.FullName)
	validEmail(&issues, in.Email)
	if !in.Status.Valid() {
		issues.Add("status", "must be active or inactive")
	}
	return issues.Err()
}

func validEmail(issues *apperr.Issues, email string) {
	if email == "" {
		issues.Add("email", "is required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		issues.Add("email", "is not a valid address")
	}
}
