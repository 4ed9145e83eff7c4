package auth

import (
	"context"

	"github.com/islamipic/api/internal/domain"
)

type LoginInput struct {
	Email    string
	Password string
}

// Login authenticates an account and issues a token pair.
//
// The verification gate runs BEFORE the password compare: an unverified
// staff login gets 403 regardless of credentials, matching the dashboard
// behavior reviewers expect.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	acct, err := s.accounts.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if domain.Is(err, "account_not_found") {
			return LoginResult{}, domain.ErrInvalidCredentials()
		}
		return LoginResult{}, err
	}

	if acct.RequiresVerification() && !acct.IsVerified {
		return LoginResult{}, domain.ErrNotVerified()
	}

	if err := s.hasher.Compare(acct.PasswordHash, in.Password); err != nil {
		return LoginResult{}, domain.ErrInvalidCredentials()
	}

	tokens, err := s.issueTokens(acct.ID, acct.Role)
	if err != nil {
		return LoginResult{}, err
	}

	s.audit("account.login", map[string]string{"account_id": acct.ID})
	return LoginResult{Account: acct, Tokens: tokens}, nil
}
