package core

import "gymhub/internal/domain/auth"

type MemberStatus string

const (
	MemberActive   MemberStatus = "active"
	MemberInactive MemberStatus = "inactive"
)

func (s MemberStatus) Valid() bool {
	return s == MemberActive || s == MemberInactive
}

const (
	staffEntity  = "staff"
	memberEntity = "member"
)

// staffRoles are the roles a staff record may carry; members log in with RoleMember.
var staffRoles = map[string]bool{
	auth.RoleAdmin:   true,
	auth.RoleManager: true,
	auth.RoleTrainer: true,
	auth.RoleStaff:   true,
}
