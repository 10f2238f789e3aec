package compensation

import "gymhub/internal/domain/workflow"

type Mode string

const (
	ModeFixed      Mode = "fixed"
	ModeHourly     Mode = "hourly"
	ModeCommission Mode = "commission"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeFixed, ModeHourly, ModeCommission:
		return true
	}
	return false
}

type Status string

const (
	StatusGenerated Status = "Generated"
	StatusApproved  Status = "Approved"
	StatusPaid      Status = "Paid"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionPay     Action = "pay"
)

const WarningNegativeNet = "negative_net"

const entityName = "salary record"

var salaryFlow = workflow.New(entityName, map[Action]workflow.Rule[Status]{
	ActionApprove: {From: []Status{StatusGenerated}, To: StatusApproved},
	ActionPay:     {From: []Status{StatusApproved}, To: StatusPaid},
})

func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusGenerated, StatusApproved, StatusPaid:
		return Status(raw), true
	}
	return "", false
}
