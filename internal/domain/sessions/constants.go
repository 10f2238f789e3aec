package sessions

import "gymhub/internal/domain/workflow"

type Status string

const (
	StatusBooked    Status = "Booked"
	StatusUpcoming  Status = "Upcoming"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusBooked, StatusUpcoming, StatusCompleted, StatusCancelled:
		return Status(raw), true
	}
	return "", false
}

type Action string

const (
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

const (
	entityName      = "trainer session"
	defaultDuration = 60
)

var sessionFlow = workflow.New(entityName, map[Action]workflow.Rule[Status]{
	ActionAccept:   {From: []Status{StatusBooked}, To: StatusUpcoming},
	ActionReject:   {From: []Status{StatusBooked, StatusUpcoming}, To: StatusCancelled},
	ActionCancel:   {From: []Status{StatusBooked, StatusUpcoming}, To: StatusCancelled},
	ActionComplete: {From: []Status{StatusUpcoming}, To: StatusCompleted},
})
