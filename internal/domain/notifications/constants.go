package notifications

const (
	TypePlanRequestApproved = "plan_request_approved"
	TypePlanRequestRejected = "plan_request_rejected"
	TypeSessionAccepted     = "session_accepted"
	TypeSessionCancelled    = "session_cancelled"
	TypeSessionRescheduled  = "session_rescheduled"
	TypeShiftApproved       = "shift_approved"
	TypeSalaryPaid          = "salary_paid"
)
