package enums

import "fmt"

// UserRole represents a platform-level account role. Roles are immutable
// after registration.
type UserRole string

const (
	UserRoleCustomer     UserRole = "customer"
	UserRoleOwner        UserRole = "owner"
	UserRoleBroker       UserRole = "broker"
	UserRolePhotographer UserRole = "photographer"
	UserRoleAdmin        UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleOwner,
	UserRoleBroker,
	UserRolePhotographer,
	UserRoleAdmin,
}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
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
