package core

import (
	"gymhub/internal/domain/auth"
	"gymhub/internal/domain/compensation"
)

// FilterStaffFields strips pay details the caller is not entitled to see.
func FilterStaffFields(staff *Staff, user auth.UserContext) {
	if user.Role == auth.RoleAdmin || user.Role == auth.RoleManager {
		return
	}
	if user.SubjectID != "" && user.SubjectID == staff.ID {
		return
	}
	staff.Profile = compensation.Profile{}
}
