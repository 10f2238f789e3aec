package core

import (
	"time"

	"gymhub/internal/domain/clock"
	"gymhub/internal/domain/compensation"
)

type Staff struct {
	ID        string               `json:"id"`
	FullName  string               `json:"fullName"`
	Email     string               `json:"email"`
	Phone     string               `json:"phone"`
	Position  string               `json:"position"`
	Role      string               `json:"role"`
	Profile   compensation.Profile `json:"compensation"`
	Active    bool                 `json:"active"`
	Version   int                  `json:"version"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type Member struct {
	ID        string       `json:"id"`
	FullName  string       `json:"fullName"`
	Email     string       `json:"email"`
	Phone     string       `json:"phone"`
	Status    MemberStatus `json:"status"`
	JoinedAt  clock.Date   `json:"joinedAt"`
	Version   int          `json:"version"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

type StaffInput struct {
	FullName string
	Email    string
	Phone    string
	Position string
	Role     string
	Profile  compensation.Profile
	Active   *bool
}

type MemberInput struct {
	FullName string
	Email    string
	Phone    string
	Status   MemberStatus
	JoinedAt clock.Date
}

type StaffFilter struct {
	Role   string
	Search string
	Active *bool
	Limit  int
	Offset int
}

type MemberFilter struct {
	Status MemberStatus
	Search string
	Limit  int
	Offset int
}
