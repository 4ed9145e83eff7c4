package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/islamipic/api/internal/application/auth"
	"github.com/islamipic/api/internal/domain"
)

// JWTSigner mints and verifies both token kinds with a single HS256 secret.
// The `kind` claim keeps a refresh token from ever passing an access check
// and vice versa.
type JWTSigner struct {
	secret []byte
	issuer string
}

func NewJWTSigner(secret string, issuer string) *JWTSigner {
	return &JWTSigner{
		secret: []byte(secret),
		issuer: issuer,
	}
}

type tokenClaims struct {
	AccountID string `json:"uid"`
	Role      string `json:"role,omitempty"`
	Kind      string `json:"kind"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) SignAccessToken(accountID string, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		AccountID: accountID,
		Role:      role,
		Kind:      string(auth.TokenAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return s.sign(claims)
}

// SignRefreshToken carries the account id only; the jti makes the token
// individually revocable through the denylist.
func (s *JWTSigner) SignRefreshToken(accountID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		AccountID: accountID,
		Kind:      string(auth.TokenRefresh),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   accountID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return s.sign(claims)
}

func (s *JWTSigner) sign(claims tokenClaims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return signed, nil
}

func (s *JWTSigner) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	return s.verify(token, auth.TokenAccess)
}

func (s *JWTSigner) VerifyRefreshToken(token string) (auth.TokenClaims, error) {
	return s.verify(token, auth.TokenRefresh)
}

func (s *JWTSigner) verify(token string, kind auth.TokenKind) (auth.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method != jwt.SigningMethodHS256 {
			return nil, domain.ErrTokenInvalid()
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.TokenClaims{}, domain.ErrTokenExpired()
		}
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}
	if claims.Kind != string(kind) {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}

	exp := time.Time{}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	return auth.TokenClaims{
		AccountID: claims.AccountID,
		Role:      claims.Role,
		Kind:      auth.TokenKind(claims.Kind),
		TokenID:   claims.ID,
		Exp:       exp,
	}, nil
}
