package roster

import (
	"time"

	"gymhub/internal/domain/clock"
)

type Break struct {
	Start clock.TimeOfDay `json:"start"`
	End   clock.TimeOfDay `json:"end"`
}

func (b Break) Minutes() int {
	return int(b.End - b.Start)
}

type Shift struct {
	ID         string          `json:"id"`
	StaffID    string          `json:"staffId"`
	StaffName  string          `json:"staffName"`
	ShiftType  ShiftType       `json:"shiftType"`
	Date       clock.Date      `json:"date"`
	StartTime  clock.TimeOfDay `json:"startTime"`
	EndTime    clock.TimeOfDay `json:"endTime"`
	Breaks     []Break         `json:"breaks"`
	Status     Status          `json:"status"`
	Notes      string          `json:"notes"`
	ApprovedBy string          `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time      `json:"approvedAt,omitempty"`
	Version    int             `json:"version"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Locked reports whether the shift can no longer be edited or removed.
func (s Shift) Locked() bool {
	return s.Status != StatusScheduled
}

// WorkedMinutes is the span between start and end less any breaks.
func (s Shift) WorkedMinutes() int {
	total := int(s.EndTime - s.StartTime)
	for _, b := range s.Breaks {
		total -= b.Minutes()
	}
	if total < 0 {
		return 0
	}
	return total
}

type BreakInput struct {
	Start string
	End   string
}

type Input struct {
	StaffID   string
	ShiftType ShiftType
	Date      string
	StartTime string
	EndTime   string
	Breaks    []BreakInput
	Notes     string
}

type Filter struct {
	StaffID string
	Status  Status
	Search  string
	Period  clock.Range
	Limit   int
	Offset  int
}

type Week struct {
	Start clock.Date `json:"start"`
	Days  []Day      `json:"days"`
}

type Day struct {
	Date   clock.Date `json:"date"`
	Shifts []Shift    `json:"shifts"`
}
