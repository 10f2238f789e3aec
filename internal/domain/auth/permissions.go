package auth

import "context"

const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleTrainer = "Trainer"
	RoleStaff   = "Staff"
	RoleMember  = "Member"
)

var Roles = []string{RoleAdmin, RoleManager, RoleTrainer, RoleStaff, RoleMember}

const (
	PermStaffRead          = "staff.read"
	PermStaffWrite         = "staff.write"
	PermMembersRead        = "members.read"
	PermMembersWrite       = "members.write"
	PermPlansRead          = "plans.read"
	PermPlansWrite         = "plans.write"
	PermPlanRequestsRead   = "plan_requests.read"
	PermPlanRequestsWrite  = "plan_requests.write"
	PermPlanRequestsDecide = "plan_requests.decide"
	PermSessionsRead       = "sessions.read"
	PermSessionsWrite      = "sessions.write"
	PermSessionsDecide     = "sessions.decide"
	PermRosterRead         = "roster.read"
	PermRosterWrite        = "roster.write"
	PermRosterApprove      = "roster.approve"
	PermSalaryRead         = "salary.read"
	PermSalaryWrite        = "salary.write"
	PermSalaryApprove      = "salary.approve"
	PermSalaryPay          = "salary.pay"
	PermCheckinVerify      = "checkin.verify"
	PermAuditRead          = "audit.read"
)

var DefaultPermissions = []string{
	PermStaffRead,
	PermStaffWrite,
	PermMembersRead,
	PermMembersWrite,
	PermPlansRead,
	PermPlansWrite,
	PermPlanRequestsRead,
	PermPlanRequestsWrite,
	PermPlanRequestsDecide,
	PermSessionsRead,
	PermSessionsWrite,
	PermSessionsDecide,
	PermRosterRead,
	PermRosterWrite,
	PermRosterApprove,
	PermSalaryRead,
	PermSalaryWrite,
	PermSalaryApprove,
	PermSalaryPay,
	PermCheckinVerify,
	PermAuditRead,
}

var RolePermissions = map[string][]string{
	RoleAdmin: DefaultPermissions,
	RoleManager: {
		PermStaffRead,
		PermMembersRead,
		PermMembersWrite,
		PermPlansRead,
		PermPlanRequestsRead,
		PermPlanRequestsWrite,
		PermPlanRequestsDecide,
		PermSessionsRead,
		PermSessionsWrite,
		PermSessionsDecide,
		PermRosterRead,
		PermRosterWrite,
		PermRosterApprove,
		PermSalaryRead,
		PermSalaryWrite,
		PermSalaryApprove,
		PermCheckinVerify,
	},
	RoleTrainer: {
		PermMembersRead,
		PermPlansRead,
		PermSessionsRead,
		PermSessionsWrite,
		PermSessionsDecide,
		PermRosterRead,
		PermSalaryRead,
		PermCheckinVerify,
	},
	RoleStaff: {
		PermMembersRead,
		PermPlansRead,
		PermPlanRequestsRead,
		PermRosterRead,
		PermSalaryRead,
		PermCheckinVerify,
	},
	RoleMember: {
		PermPlansRead,
		PermPlanRequestsRead,
		PermPlanRequestsWrite,
		PermSessionsRead,
		PermSessionsWrite,
	},
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct {
	grants map[string]map[string]struct{}
}

func NewStaticPermissions(table map[string][]string) *StaticPermissions {
	grants := make(map[string]map[string]struct{}, len(table))
	for role, perms := range table {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		grants[role] = set
	}
	return &StaticPermissions{grants: grants}
}

func (p *StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	_, ok := p.grants[role][permission]
	return ok, nil
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
