package identity

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleManager, RoleEmployee}

// ParseRole accepts the lower-case role name, ignoring surrounding whitespace and case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Home is the landing path for the role after login.
func (r Role) Home() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleManager:
		return "/manager"
	case RoleEmployee:
		return "/employee"
	}
	return "/user/login"
}

// Title is the human label used on pages and flash messages.
func (r Role) Title() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleManager:
		return "Manager"
	case RoleEmployee:
		return "Employee"
	}
	return "Unknown"
}
