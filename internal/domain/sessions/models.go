package sessions

import (
	"time"

	"gymhub/internal/domain/clock"
)

type TrainerSession struct {
	ID          string          `json:"id"`
	TrainerID   string          `json:"trainerId"`
	TrainerName string          `json:"trainerName"`
	MemberID    string          `json:"memberId"`
	MemberName  string          `json:"memberName"`
	Date        clock.Date      `json:"date"`
	Time        clock.TimeOfDay `json:"time"`
	Duration    int             `json:"duration"`
	Type        string          `json:"type"`
	Location    string          `json:"location"`
	Notes       string          `json:"notes"`
	Status      Status          `json:"status"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Input carries raw date and time strings; they are normalized on create.
type Input struct {
	TrainerID string
	MemberID  string
	Date      string
	Time      string
	Duration  int
	Type      string
	Location  string
	Notes     string
}

type Filter struct {
	TrainerID string
	MemberID  string
	Status    Status
	Search    string
	Period    clock.Range
	Limit     int
	Offset    int
}

// Week is the calendar view: seven days from Monday, each bucketed by time slot.
type Week struct {
	Start clock.Date `json:"start"`
	Days  []Day      `json:"days"`
}

type Day struct {
	Date  clock.Date `json:"date"`
	Slots []Slot     `json:"slots"`
}

type Slot struct {
	Time     clock.TimeOfDay  `json:"time"`
	Label    string           `json:"label"`
	Sessions []TrainerSession `json:"sessions"`
}
