package auth

import (
	"context"

	"github.com/islamipic/api/internal/domain"
)

type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
	TokenType   string
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token itself is not rotated: it keeps minting access tokens until
// it expires or is revoked by logout.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	claims, err := s.signer.VerifyRefreshToken(refreshToken)
	if err != nil {
		if domain.Is(err, "token_expired") {
			return RefreshResult{}, err
		}
		return RefreshResult{}, domain.ErrRefreshTokenInvalid()
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return RefreshResult{}, err
	}
	if revoked {
		return RefreshResult{}, domain.ErrRefreshTokenInvalid()
	}

	// Role is read live so a demotion or deletion takes effect on the next
	// refresh, not only after the refresh token expires.
	acct, err := s.accounts.GetByID(ctx, claims.AccountID)
	if err != nil {
		return RefreshResult{}, err
	}

	access, err := s.signer.SignAccessToken(acct.ID, acct.Role, s.accessTTL)
	if err != nil {
		return RefreshResult{}, err
	}

	return RefreshResult{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.accessTTL.Seconds()),
	}, nil
}
