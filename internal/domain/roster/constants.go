package roster

import "gymhub/internal/domain/workflow"

type ShiftType string

const (
	ShiftStraight ShiftType = "Straight Shift"
	ShiftBreak    ShiftType = "Break Shift"
)

func (t ShiftType) Valid() bool {
	return t == ShiftStraight || t == ShiftBreak
}

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusApproved  Status = "Approved"
	StatusCompleted Status = "Completed"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusScheduled, StatusApproved, StatusCompleted:
		return Status(raw), true
	}
	return "", false
}

type Action string

const (
	ActionApprove  Action = "approve"
	ActionComplete Action = "complete"
)

const entityName = "roster shift"

var shiftFlow = workflow.New(entityName, map[Action]workflow.Rule[Status]{
	ActionApprove:  {From: []Status{StatusScheduled}, To: StatusApproved},
	ActionComplete: {From: []Status{StatusApproved}, To: StatusCompleted},
})
