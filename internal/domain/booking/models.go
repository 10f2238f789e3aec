package booking

import (
	"time"

	"gymhub/internal/domain/clock"
	"gymhub/internal/domain/money"
)

type Plan struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Price        money.Amount `json:"price"`
	DurationDays int          `json:"durationDays"`
	Active       bool         `json:"active"`
	Version      int          `json:"version"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type PlanInput struct {
	Name         string
	Description  string
	Price        money.Amount
	DurationDays int
	Active       *bool
}

type PlanFilter struct {
	ActiveOnly bool
}

// BookingRequest is a member's request to purchase a membership plan.
type BookingRequest struct {
	ID          string     `json:"id"`
	MemberID    string     `json:"memberId"`
	MemberName  string     `json:"memberName"`
	PlanID      string     `json:"planId"`
	PlanName    string     `json:"planName"`
	RequestedAt time.Time  `json:"requestedAt"`
	Status      Status     `json:"status"`
	Note        string     `json:"note"`
	DecidedBy   string     `json:"decidedBy,omitempty"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type RequestInput struct {
	MemberID string
	PlanID   string
	Note     string
}

type RequestFilter struct {
	MemberID string
	PlanID   string
	Status   Status
	Search   string
	Period   clock.Range
	Limit    int
	Offset   int
}
