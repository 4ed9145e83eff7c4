package auth

import (
	"context"

	"github.com/islamipic/api/internal/domain"
)

// ApproveByToken verifies a pending staff account via the emailed approval
// link. Unknown and already-consumed tokens are indistinguishable.
func (s *Service) ApproveByToken(ctx context.Context, token string) (domain.Account, error) {
	if token == "" {
		return domain.Account{}, domain.ErrVerificationTokenInvalid()
	}

	acct, err := s.accounts.GetByVerificationToken(ctx, token)
	if err != nil {
		if domain.Is(err, "account_not_found") {
			return domain.Account{}, domain.ErrVerificationTokenInvalid()
		}
		return domain.Account{}, err
	}

	if err := s.accounts.SetVerified(ctx, acct.ID); err != nil {
		return domain.Account{}, err
	}

	acct.IsVerified = true
	acct.VerificationToken = ""
	s.audit("account.verified", map[string]string{"account_id": acct.ID, "via": "token"})
	return acct, nil
}

// ApproveByID verifies a pending staff account directly from the dashboard's
// pending list. Only the super-admin route exposes this.
func (s *Service) ApproveByID(ctx context.Context, id string) (domain.Account, error) {
	acct, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	if domain.Role(acct.Role) == domain.RoleSuperAdmin {
		return domain.Account{}, domain.ErrInvalidRole(acct.Role)
	}
	if acct.IsVerified {
		return domain.Account{}, domain.ErrAlreadyVerified()
	}

	if err := s.accounts.SetVerified(ctx, acct.ID); err != nil {
		return domain.Account{}, err
	}

	acct.IsVerified = true
	acct.VerificationToken = ""
	s.audit("account.verified", map[string]string{"account_id": acct.ID, "via": "id"})
	return acct, nil
}
