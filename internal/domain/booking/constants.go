package booking

import "gymhub/internal/domain/workflow"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(raw), true
	}
	return "", false
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

const (
	requestEntity = "plan request"
	planEntity    = "plan"
)

var requestFlow = workflow.New(requestEntity, map[Action]workflow.Rule[Status]{
	ActionApprove: {From: []Status{StatusPending}, To: StatusApproved},
	ActionReject:  {From: []Status{StatusPending}, To: StatusRejected},
})
