// Package identity holds the authenticated caller as resolved by the auth gate.
package identity

// Identity is the immutable request identity. It is built from the stored user
// record, never from token claims alone.
type Identity struct {
	UserID string
	Name   string
	Email  string
	Role   Role
}

func (i Identity) IsZero() bool {
	return i.UserID == ""
}

func (i Identity) Is(r Role) bool {
	return i.Role == r
}

// In reports whether the identity's role is one of roles.
func (i Identity) In(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}
