package domain

import "time"

// Account is the unified identity record behind both the public gallery users
// and the dashboard staff. Role is the only discriminant.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsVerified   bool

	// VerificationToken is present only while staff approval is pending and
	// is cleared the moment it is consumed.
	VerificationToken string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequiresVerification reports whether the account's role is gated behind
// super-admin approval before it may log in.
func (a Account) RequiresVerification() bool {
	return IsElevatedRole(a.Role)
}
