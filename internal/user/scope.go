package user

import "github.com/frahmantamala/task-management/internal/core/identity"

// Visible reports whether actor may read or modify target through the user
// management pages. Self-service profile access is handled separately.
func Visible(actor identity.Identity, target *User) bool {
	if target == nil {
		return false
	}
	switch actor.Role {
	case identity.RoleAdmin:
		return target.Role == identity.RoleManager || target.Role == identity.RoleEmployee
	case identity.RoleManager:
		if target.Role != identity.RoleEmployee {
			return false
		}
		return target.CreatedBy == nil || *target.CreatedBy == actor.UserID
	case identity.RoleEmployee:
		return target.ID == actor.UserID
	}
	return false
}

// AssignableRoles is what actor may set on accounts it provisions or edits.
func AssignableRoles(actor identity.Identity) []identity.Role {
	switch actor.Role {
	case identity.RoleAdmin:
		return []identity.Role{identity.RoleManager, identity.RoleEmployee}
	case identity.RoleManager:
		return []identity.Role{identity.RoleEmployee}
	case identity.RoleEmployee:
		return nil
	}
	return nil
}

func canAssign(actor identity.Identity, role identity.Role) bool {
	for _, r := range AssignableRoles(actor) {
		if r == role {
			return true
		}
	}
	return false
}
