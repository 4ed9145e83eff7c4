package auth

import (
	"context"

	"github.com/islamipic/api/internal/domain"
)

func (s *Service) Get(ctx context.Context, id string) (domain.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

func (s *Service) ListByRole(ctx context.Context, role string) ([]domain.Account, error) {
	if !domain.IsValidRole(role) {
		return nil, domain.ErrInvalidRole(role)
	}
	return s.accounts.ListByRole(ctx, role)
}

// ListPending returns unverified staff accounts awaiting approval.
func (s *Service) ListPending(ctx context.Context) ([]domain.Account, error) {
	all, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]domain.Account, 0)
	for _, a := range all {
		if a.RequiresVerification() && !a.IsVerified {
			pending = append(pending, a)
		}
	}
	return pending, nil
}

type UpdateProfileInput struct {
	ID    string
	Name  string
	Email string
}

func (s *Service) UpdateProfile(ctx context.Context, in UpdateProfileInput) (domain.Account, error) {
	email := normalizeEmail(in.Email)

	// Reject a change to an email another account already holds.
	if other, err := s.accounts.GetByEmail(ctx, email); err == nil && other.ID != in.ID {
		return domain.Account{}, domain.ErrEmailAlreadyRegistered()
	} else if err != nil && !domain.Is(err, "account_not_found") {
		return domain.Account{}, err
	}

	updated, err := s.accounts.UpdateProfile(ctx, in.ID, in.Name, email)
	if err != nil {
		return domain.Account{}, err
	}

	s.audit("account.profile_updated", map[string]string{"account_id": in.ID})
	return updated, nil
}

type ChangePasswordInput struct {
	ID          string
	OldPassword string
	NewPassword string
}

func (s *Service) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	acct, err := s.accounts.GetByID(ctx, in.ID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(acct.PasswordHash, in.OldPassword); err != nil {
		return domain.ErrPasswordMismatch()
	}

	hash, err := s.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePasswordHash(ctx, in.ID, hash); err != nil {
		return err
	}

	s.audit("account.password_changed", map[string]string{"account_id": in.ID})
	return nil
}

// ChangeRole reassigns an account's role. The single-holder rule for
// super-admin is enforced in both directions: it can neither be granted while
// one exists nor removed from the last holder.
func (s *Service) ChangeRole(ctx context.Context, id, role string) (domain.Account, error) {
	if !domain.IsValidRole(role) {
		return domain.Account{}, domain.ErrInvalidRole(role)
	}

	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	if acct.Role == role {
		return acct, nil
	}

	if domain.Role(role) == domain.RoleSuperAdmin {
		n, err := s.accounts.CountByRole(ctx, string(domain.RoleSuperAdmin))
		if err != nil {
			return domain.Account{}, err
		}
		if n > 0 {
			return domain.Account{}, domain.ErrSuperAdminExists()
		}
	}
	if domain.Role(acct.Role) == domain.RoleSuperAdmin {
		return domain.Account{}, domain.ErrForbidden()
	}

	if err := s.accounts.SetRole(ctx, id, role); err != nil {
		return domain.Account{}, err
	}

	acct.Role = role
	s.audit("account.role_changed", map[string]string{"account_id": id, "role": role})
	return acct, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if domain.Role(acct.Role) == domain.RoleSuperAdmin {
		return domain.ErrForbidden()
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	s.audit("account.deleted", map[string]string{"account_id": id})
	return nil
}
