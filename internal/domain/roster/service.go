package roster

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gymhub/internal/domain/apperr"
	"gymhub/internal/domain/clock"
)

var minutesPerHour = decimal.NewFromInt(60)

type Service struct {
	store StoreAPI
	staff StaffLookup
	Now   func() time.Time
}

func NewService(store StoreAPI, staff StaffLookup) *Service {
	return &Service{store: store, staff: staff, Now: time.Now}
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Shift, error) {
	return s.store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (Shift, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Shift, error) {
	shift, err := s.build(ctx, in)
	if err != nil {
		return Shift{}, err
	}
	now := s.Now().UTC()
	shift.ID = uuid.NewString()
	shift.Status = StatusScheduled
	shift.Version = 1
	shift.CreatedAt = now
	shift.UpdatedAt = now
	if err := s.store.Create(ctx, shift); err != nil {
		return Shift{}, err
	}
	return shift, nil
}

// Update replaces a scheduled shift; approved and completed shifts are locked.
func (s *Service) Update(ctx context.Context, id string, in Input, expectedVersion int) (Shift, error) {
	shift, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return Shift{}, err
	}
	if shift.Locked() {
		return shift, apperr.Locked(entityName, string(shift.Status), "edited")
	}
	next, err := s.build(ctx, in)
	if err != nil {
		return shift, err
	}
	shift.StaffID = next.StaffID
	shift.StaffName = next.StaffName
	shift.ShiftType = next.ShiftType
	shift.Date = next.Date
	shift.StartTime = next.StartTime
	shift.EndTime = next.EndTime
	shift.Breaks = next.Breaks
	shift.Notes = next.Notes
	return s.save(ctx, shift)
}

func (s *Service) Approve(ctx context.Context, id, actorID string, expectedVersion int) (Shift, error) {
	return s.transition(ctx, id, ActionApprove, actorID, expectedVersion)
}

func (s *Service) Complete(ctx context.Context, id, actorID string, expectedVersion int) (Shift, error) {
	return s.transition(ctx, id, ActionComplete, actorID, expectedVersion)
}

func (s *Service) Remove(ctx context.Context, id string, expectedVersion int) (Shift, error) {
	shift, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return Shift{}, err
	}
	if shift.Locked() {
		return shift, apperr.Locked(entityName, string(shift.Status), "deleted")
	}
	if err := s.store.Delete(ctx, id, shift.Version); err != nil {
		return Shift{}, err
	}
	return shift, nil
}

// WeekView lists the Monday-based week containing day, shifts ordered by start time.
// CheckStaffRemoval refuses while the staff member has approved or completed shifts.
func (s *Service) CheckStaffRemoval(ctx context.Context, staffID string) error {
	shifts, err := s.store.List(ctx, Filter{StaffID: staffID})
	if err != nil {
		return err
	}
	for _, shift := range shifts {
		if shift.Locked() {
			return apperr.Locked(entityName, string(shift.Status), "left without its staff member")
		}
	}
	return nil
}

// ReleaseStaff drops the staff member's remaining scheduled shifts.
func (s *Service) ReleaseStaff(ctx context.Context, staffID string) error {
	shifts, err := s.store.List(ctx, Filter{StaffID: staffID})
	if err != nil {
		return err
	}
	for _, shift := range shifts {
		if shift.Locked() {
			return apperr.Locked(entityName, string(shift.Status), "deleted")
		}
		if err := s.store.Delete(ctx, shift.ID, shift.Version); err != nil {
			return err
		}
	}
	return nil
}

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
		week.Days[i] = Day{Date: start.AddDays(i), Shifts: []Shift{}}
	}
	for _, shift := range list {
		idx := int(shift.Date.Sub(start.Time).Hours() / 24)
		if idx < 0 || idx > 6 {
			continue
		}
		week.Days[idx].Shifts = append(week.Days[idx].Shifts, shift)
	}
	for i := range week.Days {
		shifts := week.Days[i].Shifts
		sort.SliceStable(shifts, func(a, b int) bool { return shifts[a].StartTime < shifts[b].StartTime })
	}
	return week, nil
}

// WorkedHours sums approved and completed shift time for a staff member within period.
func (s *Service) WorkedHours(ctx context.Context, staffID string, period clock.Range) (decimal.Decimal, error) {
	list, err := s.store.List(ctx, Filter{StaffID: staffID, Period: period})
	if err != nil {
		return decimal.Zero, err
	}
	minutes := 0
	for _, shift := range list {
		if shift.Status == StatusScheduled {
			continue
		}
		minutes += shift.WorkedMinutes()
	}
	return decimal.NewFromInt(int64(minutes)).DivRound(minutesPerHour, 2), nil
}

func (s *Service) transition(ctx context.Context, id string, action Action, actorID string, expectedVersion int) (Shift, error) {
	shift, err := s.load(ctx, id, expectedVersion)
	if err != nil {
		return Shift{}, err
	}
	next, err := shiftFlow.Next(shift.Status, action)
	if err != nil {
		return shift, err
	}
	shift.Status = next
	if next == StatusApproved {
		now := s.Now().UTC()
		shift.ApprovedBy = actorID
		shift.ApprovedAt = &now
	}
	return s.save(ctx, shift)
}

func (s *Service) load(ctx context.Context, id string, expectedVersion int) (Shift, error) {
	shift, err := s.store.Get(ctx, id)
	if err != nil {
		return Shift{}, err
	}
	if expectedVersion > 0 && shift.Version != expectedVersion {
		return Shift{}, apperr.Conflict(entityName, id)
	}
	return shift, nil
}

func (s *Service) save(ctx context.Context, shift Shift) (Shift, error) {
	current := shift.Version
	shift.Version = current + 1
	shift.UpdatedAt = s.Now().UTC()
	if err := s.store.Update(ctx, shift, current); err != nil {
		return Shift{}, err
	}
	return shift, nil
}

// build validates input into an unsaved shift. Breaks are dropped for straight
// shifts and must sit inside the shift without overlapping for break shifts.
func (s *Service) build(ctx context.Context, in Input) (Shift, error) {
	var issues apperr.Issues
	issues.Required("staffId", in.StaffID)
	if in.ShiftType == "" {
		in.ShiftType = ShiftStraight
	}
	if !in.ShiftType.Valid() {
		issues.Add("shiftType", "must be Straight Shift or Break Shift")
	}

	shift := Shift{StaffID: in.StaffID, ShiftType: in.ShiftType, Notes: strings.TrimSpace(in.Notes), Breaks: []Break{}}
	if strings.TrimSpace(in.Date) == "" {
		issues.Add("date", "is required")
	} else if d, err := clock.ParseDate(in.Date); err != nil {
		issues.Add("date", "must be YYYY-MM-DD")
	} else {
		shift.Date = d
	}
	startOK := parseTime(&issues, "startTime", in.StartTime, &shift.StartTime)
	endOK := parseTime(&issues, "endTime", in.EndTime, &shift.EndTime)
	if startOK && endOK && shift.EndTime <= shift.StartTime {
		issues.Add("endTime", "must be after startTime")
		startOK = false
	}

	if shift.ShiftType == ShiftBreak {
		for i, raw := range in.Breaks {
			var b Break
			field := fmt.Sprintf("breaks[%d]", i)
			okStart := parseTime(&issues, field+".start", raw.Start, &b.Start)
			okEnd := parseTime(&issues, field+".end", raw.End, &b.End)
			if !okStart || !okEnd {
				continue
			}
			if b.End <= b.Start {
				issues.Add(field+".end", "must be after start")
				continue
			}
			if startOK && endOK && (b.Start < shift.StartTime || b.End > shift.EndTime) {
				issues.Add(field, "must fall within the shift")
				continue
			}
			shift.Breaks = append(shift.Breaks, b)
		}
		sort.SliceStable(shift.Breaks, func(a, b int) bool { return shift.Breaks[a].Start < shift.Breaks[b].Start })
		for i := 1; i < len(shift.Breaks); i++ {
			if shift.Breaks[i].Start < shift.Breaks[i-1].End {
				issues.Add("breaks", "must not overlap")
				break
			}
		}
	}

	if in.StaffID != "" {
		staff, err := s.staff.GetStaff(ctx, in.StaffID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			issues.Add("staffId", "unknown staff member")
		case err != nil:
			return Shift{}, err
		default:
			shift.StaffName = staff.FullName
		}
	}
	if err := issues.Err(); err != nil {
		return Shift{}, err
	}
	return shift, nil
}

func parseTime(issues *apperr.Issues, field, raw string, out *clock.TimeOfDay) bool {
	if strings.TrimSpace(raw) == "" {
		issues.Add(field, "is required")
		return false
	}
	parsed, err := clock.ParseTime(raw)
	if err != nil {
		issues.Add(field, "is not a recognized time of day")
		return false
	}
	*out = parsed
	return true
}
