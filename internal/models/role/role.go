// Package role defines the ordered role enumeration shared by global user
// roles and project membership roles.
package role

import (
	"fmt"

	"taskManager/internal/models/validate"
)

// Role is ordered: Viewer < Member < Manager < Admin. The zero value is
// not a valid role.
type Role int

const (
	Unknown Role = iota
	Viewer
	Member
	Manager
	Admin
)

// names lists roles in the order used by error messages.
var names = []string{"ADMIN", "MANAGER", "MEMBER", "VIEWER"}

var byName = map[string]Role{
	"ADMIN":   Admin,
	"MANAGER": Manager,
	"MEMBER":  Member,
	"VIEWER":  Viewer,
}

func All() []Role {
	return []Role{Admin, Manager, Member, Viewer}
}

func (r Role) String() string {
	switch r {
	case Admin:
		return "ADMIN"
	case Manager:
		return "MANAGER"
	case Member:
		return "MEMBER"
	case Viewer:
		return "VIEWER"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

func (r Role) Valid() bool {
	return r >= Viewer && r <= Admin
}

// Compare returns -1, 0 or +1 as r ranks below, equal to or above other.
func (r Role) Compare(other Role) int {
	switch {
	case r < other:
		return -1
	case r > other:
		return 1
	default:
		return 0
	}
}

func (r Role) AtLeast(min Role) bool {
	return r.Compare(min) >= 0
}

// Parse is case-insensitive.
func Parse(raw string) (Role, error) {
	i, err := validate.Index("role", raw, names)
	if err != nil {
		return Unknown, err
	}
	return byName[names[i]], nil
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshal role: invalid value %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
