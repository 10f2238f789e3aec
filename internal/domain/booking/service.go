package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymhub/internal/domain/apperr"
)

type Service struct {
	store   RequestStore
	plans   PlanStore
	members MemberLookup
	Now     func() time.Time
}

func NewService(store RequestStore, plans PlanStore, members MemberLookup) *Service {
	return &Service{store: store, plans: plans, members: members, Now: time.Now}
}

func (s *Service) List(ctx context.Context, filter RequestFilter) ([]BookingRequest, error) {
	return s.store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (BookingRequest, error) {
	return s.store.Get(ctx, id)
}

// Create records a pending plan purchase. Missing or unknown member and plan
// references are validation errors and nothing is stored.
func (s *Service) Create(ctx context.Context, in RequestInput) (BookingRequest, error) {
	var issues apperr.Issues
	issues.Required("memberId", in.MemberID)
	issues.Required("planId", in.PlanID)

	var memberName, planName string
	if in.MemberID != "" {
		member, err := s.members.GetMember(ctx, in.MemberID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			issues.Add("memberId", "unknown member")
		case err != nil:
			return BookingRequest{}, err
		default:
			memberName = member.FullName
		}
	}
	if in.PlanID != "" {
		plan, err := s.plans.Get(ctx, in.PlanID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			issues.Add("planId", "unknown plan")
		case err != nil:
			return BookingRequest{}, err
		case !plan.Active:
			issues.Add("planId", "plan is no longer offered")
		default:
			planName = plan.Name
		}
	}
	if err := issues.Err(); err != nil {
		return BookingRequest{}, err
	}

	now := s.Now().UTC()
	req := BookingRequest{
		ID:          uuid.NewString(),
		MemberID:    in.MemberID,
		MemberName:  memberName,
		PlanID:      in.PlanID,
		PlanName:    planName,
		RequestedAt: now,
		Status:      StatusPending,
		Note:        strings.TrimSpace(in.Note),
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, req); err != nil {
		return BookingRequest{}, err
	}
	return req, nil
}

func (s *Service) Approve(ctx context.Context, id, actorID string, expectedVersion int) (BookingRequest, error) {
	return s.Transition(ctx, id, ActionApprove, actorID, expectedVersion)
}

func (s *Service) Reject(ctx context.Context, id, actorID string, expectedVersion int) (BookingRequest, error) {
	return s.Transition(ctx, id, ActionReject, actorID, expectedVersion)
}

// Transition applies action; a refused move returns the stored request untouched.
func (s *Service) Transition(ctx context.Context, id string, action Action, actorID string, expectedVersion int) (BookingRequest, error) {
	req, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return BookingRequest{}, err
	}
	next, err := requestFlow.Next(req.Status, action)
	if err != nil {
		return req, err
	}
	current := req.Version
	now := s.Now().UTC()
	req.Status = next
	req.DecidedBy = actorID
	req.DecidedAt = &now
	req.Version = current + 1
	req.UpdatedAt = now
	if err := s.store.Update(ctx, req, current); err != nil {
		return BookingRequest{}, err
	}
	return req, nil
}

// Remove deletes a request in any state.
func (s *Service) Remove(ctx context.Context, id string, expectedVersion int) (BookingRequest, error) {
	req, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return BookingRequest{}, err
	}
	if err := s.store.Delete(ctx, id, req.Version); err != nil {
		return BookingRequest{}, err
	}
	return req, nil
}

func (s *Service) load(ctx context.Context, id string, expectedVersion int) (BookingRequest, error) {
	req, err := s.store.Get(ctx, id)
	if err != nil {
		return BookingRequest{}, err
	}
	if expectedVersion > 0 && req.Version != expectedVersion {
		return BookingRequest{}, apperr.Conflict(requestEntity, id)
	}
	return req, nil
}
