package auth

import (
	"context"
)

// Logout revokes the presented refresh token by denylisting its jti until the
// token would have expired anyway. Logout is idempotent: a missing, invalid
// or already-revoked cookie still clears the session client-side, so none of
// those are errors.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.signer.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.Exp); err != nil {
		return err
	}

	s.audit("account.logout", map[string]string{"account_id": claims.AccountID})
	return nil
}
