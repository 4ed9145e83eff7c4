package domain

type Role string

const (
	// RoleSuperAdmin is held by exactly one account; it approves staff and
	// manages roles.
	RoleSuperAdmin Role = "super-admin"
	// RoleAdmin manages the image catalog and user accounts.
	RoleAdmin Role = "admin"
	// RoleEditor curates image metadata.
	RoleEditor Role = "editor"
	// RoleReviewer has read-only dashboard access.
	RoleReviewer Role = "reviewer"
	// RoleUser is a self-registered gallery visitor.
	RoleUser Role = "user"
)

func IsValidRole(r string) bool {
	switch Role(r) {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleReviewer, RoleUser:
		return true
	}
	return false
}

// IsElevatedRole reports whether r needs super-admin verification before the
// account may authenticate. Plain users are verified at registration.
func IsElevatedRole(r string) bool {
	return IsValidRole(r) && Role(r) != RoleUser
}

// IsStaffRole reports whether r may be requested through the staff
// registration endpoint. super-admin is excluded: it has its own
// single-holder rule.
func IsStaffRole(r string) bool {
	switch Role(r) {
	case RoleAdmin, RoleEditor, RoleReviewer:
		return true
	}
	return false
}
