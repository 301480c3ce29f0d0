package enums

import "fmt"

// UserRole represents an office-level permissions role.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleFrontDesk UserRole = "front_desk"
	UserRoleNotary    UserRole = "notary"
	UserRoleStaff     UserRole = "staff"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleFrontDesk,
	UserRoleNotary,
	UserRoleStaff,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the role may handle requests and act for other users.
func (r UserRole) IsPrivileged() bool {
	return r == UserRoleAdmin || r == UserRoleFrontDesk
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
