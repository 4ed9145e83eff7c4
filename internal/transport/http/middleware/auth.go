package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/islamipic/api/internal/application/auth"
	"github.com/islamipic/api/internal/domain"
)

type TokenVerifier interface {
	VerifyAccessToken(token string) (auth.TokenClaims, error)
}

// AccountReader loads the live account behind a token, so deletions and role
// changes take effect immediately instead of at token expiry.
type AccountReader interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
}

type WriteErrFunc func(http.ResponseWriter, *http.Request, error)

// Auth verifies Authorization: Bearer <access_token> and injects the live
// account into the request context.
func Auth(verifier TokenVerifier, accounts AccountReader, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" {
				writeErr(w, r, domain.ErrTokenMissing())
				return
			}

			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			claims, err := verifier.VerifyAccessToken(raw)
			if err != nil {
				writeErr(w, r, err)
				return
			}
			if strings.TrimSpace(claims.AccountID) == "" {
				writeErr(w, r, domain.ErrTokenInvalid())
				return
			}

			// The account behind the token must still exist; a deleted
			// account surfaces as 404, not as a token problem.
			acct, err := accounts.GetByID(r.Context(), claims.AccountID)
			if err != nil {
				writeErr(w, r, err)
				return
			}

			// Staff whose approval was never granted (or data restored from
			// backup) must not pass with an old token.
			if acct.RequiresVerification() && !acct.IsVerified {
				writeErr(w, r, domain.ErrNotVerified())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), acct)))
		})
	}
}
