package sessions

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/clock"
)

type Service struct {
	store   StoreAPI
	parties Parties
	Now     func() time.Time
}

func NewService(store StoreAPI, parties Parties) *Service {
	return &Service{store: store, parties: parties, Now: time.Now}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]TrainerSession, error) {
	return s.store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (TrainerSession, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (TrainerSession, error) {
	var issues apperr.Issues
	issues.Required("trainerId", in.TrainerID)
	issues.Required("memberId", in.MemberID)
	date, at := parseSlot(in.Date, in.Time, &issues)
	if in.Duration < 0 {
		issues.Add("duration", "must be greater than zero")
	}

	session := TrainerSession{
		TrainerID: in.TrainerID,
		MemberID:  in.MemberID,
		Date:      date,
		Time:      at,
		Duration:  in.Duration,
		Type:      strings.TrimSpace(in.Type),
		Location:  strings.TrimSpace(in.Location),
		Notes:     strings.TrimSpace(in.Notes),
		Status:    StatusBooked,
	}
	if session.Duration == 0 {
		session.Duration = defaultDuration
	}
	if err := s.resolveParties(ctx, &session, &issues); err != nil {
		return TrainerSession{}, err
	}
	if err := issues.Err(); err != nil {
		return TrainerSession{}, err
	}

	now := s.Now().UTC()
	session.ID = uuid.NewString()
	session.Version = 1
	session.CreatedAt = now
	session.UpdatedAt = now
	if err := s.store.Create(ctx, session); err != nil {
		return TrainerSession{}, err
	}
	return session, nil
}

func (s *Service) Accept(ctx context.Context, id string, expectedVersion int) (TrainerSession, error) {
	return s.Transition(ctx, id, ActionAccept, expectedVersion)
}

func (s *Service) Reject(ctx context.Context, id string, expectedVersion int) (TrainerSession, error) {
	return s.Transition(ctx, id, ActionReject, expectedVersion)
}

func (s *Service) Cancel(ctx context.Context, id string, expectedVersion int) (TrainerSession, error) {
	return s.Transition(ctx, id, ActionCancel, expectedVersion)
}

func (s *Service) Complete(ctx context.Context, id string, expectedVersion int) (TrainerSession, error) {
	return s.Transition(ctx, id, ActionComplete, expectedVersion)
}

func (s *Service) Transition(ctx context.Context, id string, action Action, expectedVersion int) (TrainerSession, error) {
	session, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return TrainerSession{}, err
	}
	next, err := sessionFlow.Next(session.Status, action)
	if err != nil {
		return session, err
	}
	session.Status = next
	return s.save(ctx, session)
}

// Reschedule moves a session to a new date and time and leaves its status alone.
// Both values are required; finished or cancelled sessions cannot move.
func (s *Service) Reschedule(ctx context.Context, id, date, at string, expectedVersion int) (TrainerSession, error) {
	session, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return TrainerSession{}, err
	}
	var issues apperr.Issues
	newDate, newTime := parseSlot(date, at, &issues)
	if err := issues.Err(); err != nil {
		return session, err
	}
	if sessionFlow.Terminal(session.Status) {
		return session, apperr.InvalidState(entityName, string(session.Status), "reschedule")
	}
	session.Date = newDate
	session.Time = newTime
	return s.save(ctx, session)
}

// Remove deletes a session in any state.
func (s *Service) Remove(ctx context.Context, id string, expectedVersion int) (TrainerSession, error) {
	session, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return TrainerSession{}, err
	}
	if err := s.store.Delete(ctx, id, session.Version); err != nil {
		return TrainerSession{}, err
	}
	return session, nil
}

func (s *Service) CheckStaffRemoval(context.Context, string) error {
	return nil
}

// ReleaseStaff drops every session the staff member trains.
func (s *Service) ReleaseStaff(ctx context.Context, staffID string) error {
	list, err := s.store.List(ctx, Filter{TrainerID: staffID})
	if err != nil {
		return err
	}
	for _, session := range list {
		if err := s.store.Delete(ctx, session.ID, session.Version); err != nil {
			return err
		}
	}
	return nil
}

// WeekView lists the sessions of the Monday-based week containing day, grouped by
// day and by normalized time slot. Cancelled sessions are left out.
func (s *Service) WeekView(ctx context.Context, day clock.Date, filter Filter) (Week, error) {
	start := clock.WeekStart(day)
	filter.Period = clock.Range{From: start, To: start.AddDays(6)}
	filter.Limit, filter.Offset = 0, 0
	list, err := s.store.List(ctx, filter)
	if err != nil {
		return Week{}, err
	}

	week := Week{Start: start, Days: make([]Day, 7)}
	for i := range week.Days {
		week.Days[i] = Day{Date: start.AddDays(i), Slots: []Slot{}}
	}
	for _, session := range list {
		if session.Status == StatusCancelled {
			continue
		}
		idx := int(session.Date.Sub(start.Time).Hours() / 24)
		if idx < 0 || idx > 6 {
			continue
		}
		week.Days[idx].Slots = addToSlot(week.Days[idx].Slots, session)
	}
	for i := range week.Days {
		sort.SliceStable(week.Days[i].Slots, func(a, b int) bool {
			return week.Days[i].Slots[a].Time < week.Days[i].Slots[b].Time
		})
	}
	return week, nil
}

func addToSlot(slots []Slot, session TrainerSession) []Slot {
	for i := range slots {
		if slots[i].Time == session.Time {
			slots[i].Sessions = append(slots[i].Sessions, session)
			return slots
		}
	}
	return append(slots, Slot{Time: session.Time, Label: session.Time.Label(), Sessions: []TrainerSession{session}})
}

func (s *Service) resolveParties(ctx context.Context, session *TrainerSession, issues *apperr.Issues) error {
	if session.TrainerID != "" {
		trainer, err := s.parties.GetStaff(ctx, session.TrainerID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			issues.Add("trainerId", "unknown trainer")
		case err != nil:
			return err
		default:
			session.TrainerName = trainer.FullName
		}
	}
	if session.MemberID != "" {
		member, err := s.parties.GetMember(ctx, session.MemberID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			issues.Add("memberId", "unknown member")
		case err != nil:
			return err
		default:
			session.MemberName = member.FullName
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string, expectedVersion int) (TrainerSession, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return TrainerSession{}, err
	}
	if expectedVersion > 0 && session.Version != expectedVersion {
		return TrainerSession{}, apperr.Conflict(entityName, id)
	}
	return session, nil
}

func (s *Service) save(ctx context.Context, session TrainerSession) (TrainerSession, error) {
	current := session.Version
	session.Version = current + 1
	session.UpdatedAt = s.Now().UTC()
	if err := s.store.Update(ctx, session, current); err != nil {
		return TrainerSession{}, err
	}
	return session, nil
}

func parseSlot(date, at string, issues *apperr.Issues) (clock.Date, clock.TimeOfDay) {
	var d clock.Date
	var t clock.TimeOfDay
	if strings.TrimSpace(date) == "" {
		issues.Add("date", "is required")
	} else if parsed, err := clock.ParseDate(date); err != nil {
		issues.Add("date", "must be YYYY-MM-DD")
	} else {
		d = parsed
	}
	if strings.TrimSpace(at) == "" {
		issues.Add("time", "is required")
	} else if parsed, err := clock.ParseTime(at); err != nil {
		issues.Add("time", "is not a recognized time of day")
	} else {
		t = parsed
	}
	return d, t
}
