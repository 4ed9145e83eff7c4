package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/islamipic/api/internal/domain"
	"github.com/islamipic/api/internal/logger"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a self-service gallery account. The role is always "user"
// and the account is verified immediately; the staff flow is RegisterStaff.
func (s *Service) Register(ctx context.Context, in RegisterInput) (LoginResult, error) {
	email := normalizeEmail(in.Email)

	// Fast path; the unique index closes the race.
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return LoginResult{}, domain.ErrEmailAlreadyRegistered()
	} else if !domain.Is(err, "account_not_found") {
		return LoginResult{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return LoginResult{}, err
	}

	created, err := s.accounts.Create(ctx, domain.Account{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         string(domain.RoleUser),
		IsVerified:   true,
	})
	if err != nil {
		return LoginResult{}, err
	}

	tokens, err := s.issueTokens(created.ID, created.Role)
	if err != nil {
		return LoginResult{}, err
	}

	s.audit("account.registered", map[string]string{"account_id": created.ID, "role": created.Role})
	return LoginResult{Account: created, Tokens: tokens}, nil
}

type RegisterStaffInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// RegisterStaff creates a dashboard account. super-admin is allowed only while
// none exists and comes up verified; admin/editor/reviewer accounts start
// unverified and the super-admin is mailed an approval link.
func (s *Service) RegisterStaff(ctx context.Context, in RegisterStaffInput) (domain.Account, error) {
	email := normalizeEmail(in.Email)

	if !domain.IsValidRole(in.Role) {
		return domain.Account{}, domain.ErrInvalidRole(in.Role)
	}

	switch {
	case domain.Role(in.Role) == domain.RoleSuperAdmin:
		n, err := s.accounts.CountByRole(ctx, string(domain.RoleSuperAdmin))
		if err != nil {
			return domain.Account{}, err
		}
		if n > 0 {
			return domain.Account{}, domain.ErrSuperAdminExists()
		}
	case domain.IsStaffRole(in.Role):
		// ok
	default:
		// "user" belongs on the self-service endpoint.
		return domain.Account{}, domain.ErrRoleNotAllowedHere(in.Role)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return domain.Account{}, domain.ErrEmailAlreadyRegistered()
	} else if !domain.Is(err, "account_not_found") {
		return domain.Account{}, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.Account{}, err
	}

	acct := domain.Account{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	}

	if domain.Role(in.Role) == domain.RoleSuperAdmin {
		acct.IsVerified = true
	} else {
		token, err := newVerificationToken()
		if err != nil {
			return domain.Account{}, domain.ErrRandomFailed(err)
		}
		acct.VerificationToken = token
	}

	created, err := s.accounts.Create(ctx, acct)
	if err != nil {
		return domain.Account{}, err
	}

	if !created.IsVerified {
		evt := StaffVerifyEvent{
			AccountID: created.ID,
			Name:      created.Name,
			Email:     created.Email,
			Role:      created.Role,
			URL:       s.verifyBaseURL + created.VerificationToken,
		}
		if err := s.pub.PublishStaffVerifyRequested(ctx, evt); err != nil {
			// The account row stays; the super-admin can still approve from
			// the dashboard's pending list.
			logger.WithCtx(ctx).Error().Err(err).
				Str("account_id", created.ID).
				Msg("staff verify event publish failed")
			var de *domain.Error
			if errors.As(err, &de) {
				return domain.Account{}, err
			}
			return domain.Account{}, domain.ErrMailDispatchFailed(err)
		}
	}

	s.audit("account.staff_registered", map[string]string{"account_id": created.ID, "role": created.Role})
	return created, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
