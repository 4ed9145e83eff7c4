package dto

import "github.com/islamipic/api/internal/domain"

// -------- Registration / login --------

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128,password_strength"`
}

func (r *RegisterRequest) Validate() error { return check(r) }

type RegisterStaffRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128,password_strength"`
	Role     string `json:"role" validate:"required"`
}

func (r *RegisterStaffRequest) Validate() error {
	if err := check(r); err != nil {
		return err
	}
	if !domain.IsValidRole(r.Role) {
		return domain.ErrInvalidRole(r.Role)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error { return check(r) }

// Refresh and logout carry no body: the refresh token travels in the
// HttpOnly cookie.

// -------- Account management --------

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email,max=255"`
}

func (r *UpdateProfileRequest) Validate() error { return check(r) }

type PasswordChangeRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128,password_strength"`
}

func (r *PasswordChangeRequest) Validate() error { return check(r) }

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (r *ChangeRoleRequest) Validate() error {
	if err := check(r); err != nil {
		return err
	}
	if !domain.IsValidRole(r.Role) {
		return domain.ErrInvalidRole(r.Role)
	}
	return nil
}
