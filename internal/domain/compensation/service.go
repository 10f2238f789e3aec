package compensation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/clock"
)

type Service struct {
	store    StoreAPI
	payees   PayeeLookup
	hours    HoursSource
	Currency string
	Now      func() time.Time
}

func NewService(store StoreAPI, payees PayeeLookup, hours HoursSource) *Service {
	return &Service{store: store, payees: payees, hours: hours, Currency: "USD", Now: time.Now}
}

// Preview computes the breakdown a Generate call would persist, without writing anything.
func (s *Service) Preview(ctx context.Context, in GenerateInput) (Breakdown, error) {
	_, breakdown, _, err := s.prepare(ctx, in.StaffID, in.SalaryInput)
	return breakdown, err
}

func (s *Service) Generate(ctx context.Context, in GenerateInput) (SalaryRecord, error) {
	payee, breakdown, input, err := s.prepare(ctx, in.StaffID, in.SalaryInput)
	if err != nil {
		return SalaryRecord{}, err
	}
	now := s.Now().UTC()
	rec := SalaryRecord{
		ID:          uuid.NewString(),
		StaffID:     payee.ID,
		StaffName:   payee.FullName,
		PeriodStart: in.PeriodStart,
		PeriodEnd:   in.PeriodEnd,
		Bonuses:     input.Bonuses,
		Deductions:  input.Deductions,
		Breakdown:   breakdown,
		Status:      StatusGenerated,
		Notes:       in.Notes,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return SalaryRecord{}, err
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id string) (SalaryRecord, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) ([]SalaryRecord, error) {
	return s.store.List(ctx, filter)
}

// Update replaces the inputs of a record and recomputes every derived figure.
// expectedVersion of zero skips the caller-side version check.
func (s *Service) Update(ctx context.Context, id string, in SalaryInput, expectedVersion int) (SalaryRecord, error) {
	rec, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return SalaryRecord{}, err
	}
	if rec.Locked() {
		return rec, apperr.Locked(entityName, string(rec.Status), "edited")
	}

	payee, breakdown, input, err := s.prepare(ctx, rec.StaffID, in)
	if err != nil {
		return rec, err
	}

	current := rec.Version
	rec.StaffName = payee.FullName
	rec.PeriodStart = in.PeriodStart
	rec.PeriodEnd = in.PeriodEnd
	rec.Bonuses = input.Bonuses
	rec.Deductions = input.Deductions
	rec.Breakdown = breakdown
	rec.Notes = in.Notes
	rec.Version = current + 1
	rec.UpdatedAt = s.Now().UTC()
	if err := s.store.Update(ctx, rec, current); err != nil {
		return SalaryRecord{}, err
	}
	return rec, nil
}

func (s *Service) Approve(ctx context.Context, id, actorID string, expectedVersion int) (SalaryRecord, error) {
	return s.transition(ctx, id, ActionApprove, actorID, expectedVersion)
}

func (s *Service) MarkPaid(ctx context.Context, id, actorID string, expectedVersion int) (SalaryRecord, error) {
	return s.transition(ctx, id, ActionPay, actorID, expectedVersion)
}

func (s *Service) Delete(ctx context.Context, id string, expectedVersion int) (SalaryRecord, error) {
	rec, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return SalaryRecord{}, err
	}
	if rec.Locked() {
		return rec, apperr.Locked(entityName, string(rec.Status), "deleted")
	}
	if err := s.store.Delete(ctx, id, rec.Version); err != nil {
		return SalaryRecord{}, err
	}
	return rec, nil
}

// CheckStaffRemoval refuses while any salary record names the staff member; pay history is kept.
func (s *Service) CheckStaffRemoval(ctx context.Context, staffID string) error {
	recs, err := s.store.List(ctx, Filter{StaffID: staffID, Limit: 1})
	if err != nil {
		return err
	}
	if len(recs) > 0 {
		return apperr.Locked(entityName, string(recs[0].Status), "left without its staff member")
	}
	return nil
}

func (s *Service) ReleaseStaff(context.Context, string) error {
	return nil
}

func (s *Service) transition(ctx context.Context, id string, action Action, actorID string, expectedVersion int) (SalaryRecord, error) {
	rec, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return SalaryRecord{}, err
	}
	next, err := salaryFlow.Next(rec.Status, action)
	if err != nil {
		return rec, err
	}

	current := rec.Version
	now := s.Now().UTC()
	rec.Status = next
	switch next {
	case StatusApproved:
		rec.ApprovedBy = actorID
		rec.ApprovedAt = &now
	case StatusPaid:
		rec.PaidBy = actorID
		rec.PaidAt = &now
	}
	rec.Version = current + 1
	rec.UpdatedAt = now
	if err := s.store.Update(ctx, rec, current); err != nil {
		return SalaryRecord{}, err
	}
	return rec, nil
}

func (s *Service) load(ctx context.Context, id string, expectedVersion int) (SalaryRecord, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return SalaryRecord{}, err
	}
	if expectedVersion > 0 && rec.Version != expectedVersion {
		return SalaryRecord{}, apperr.Conflict(entityName, id)
	}
	return rec, nil
}

func (s *Service) prepare(ctx context.Context, staffID string, in SalaryInput) (Payee, Breakdown, Input, error) {
	var issues apperr.Issues
	issues.Required("staffId", staffID)
	input := validateInput(in, &issues)

	var payee Payee
	if staffID != "" {
		found, err := s.payees.Payee(ctx, staffID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			issues.Add("staffId", "unknown staff member")
		case err != nil:
			return Payee{}, Breakdown{}, Input{}, err
		default:
			payee = found
		}
	}
	if err := issues.Err(); err != nil {
		return Payee{}, Breakdown{}, Input{}, err
	}

	if input.HoursWorked == nil && in.UseRosterHours && s.hours != nil {
		worked, err := s.hours.WorkedHours(ctx, payee.ID, clock.Range{From: in.PeriodStart, To: in.PeriodEnd})
		if err != nil {
			return Payee{}, Breakdown{}, Input{}, err
		}
		worked = worked.Round(2)
		input.HoursWorked = &worked
	}
	if input.FixedSalary == nil && payee.Profile.Mode == ModeFixed {
		input.FixedSalary = payee.Profile.FixedSalary
	}

	breakdown, err := Compute(payee.Profile.Rates(), input)
	if err != nil {
		return Payee{}, Breakdown{}, Input{}, err
	}
	return payee, breakdown, input, nil
}
