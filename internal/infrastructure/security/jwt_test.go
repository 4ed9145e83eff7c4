package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/islamipic/api/internal/application/auth"
	"github.com/islamipic/api/internal/domain"
)

func TestJWTSigner_SignAndVerifyAccess(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "islamipic-api")
	tok, err := s.SignAccessToken("acct-1", string(domain.RoleAdmin), 2*time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected non-empty token")
	}

	claims, err := s.VerifyAccessToken(tok)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if claims.AccountID != "acct-1" || claims.Role != string(domain.RoleAdmin) {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Kind != auth.TokenAccess {
		t.Fatalf("expected access kind, got %q", claims.Kind)
	}
	if claims.Exp.IsZero() {
		t.Fatalf("expected exp to be set")
	}
}

func TestJWTSigner_RefreshCarriesTokenID(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "islamipic-api")
	tok, err := s.SignRefreshToken("acct-1", time.Hour)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	claims, err := s.VerifyRefreshToken(tok)
	if err != nil {
		t.Fatalf("verify err: %v", err)
	}
	if claims.TokenID == "" {
		t.Fatalf("refresh token must carry a jti for revocation")
	}
	if claims.AccountID != "acct-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTSigner_Expired_ReturnsTokenExpired(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "islamipic-api")
	tok, err := s.SignAccessToken("acct-1", string(domain.RoleUser), -time.Second)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := s.VerifyAccessToken(tok)
	if verr == nil {
		t.Fatalf("expected error, got nil")
	}
	if !domain.Is(verr, "token_expired") {
		t.Fatalf("expected token_expired, got %v", verr)
	}
}

func TestJWTSigner_KindCrossUse_Rejected(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "islamipic-api")

	refresh, err := s.SignRefreshToken("acct-1", time.Hour)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}
	if _, verr := s.VerifyAccessToken(refresh); !domain.Is(verr, "token_invalid") {
		t.Fatalf("refresh token must not pass an access check, got %v", verr)
	}

	access, err := s.SignAccessToken("acct-1", string(domain.RoleUser), time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}
	if _, verr := s.VerifyRefreshToken(access); !domain.Is(verr, "token_invalid") {
		t.Fatalf("access token must not pass a refresh check, got %v", verr)
	}
}

func TestJWTSigner_WrongSecret_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s1 := NewJWTSigner("secret1", "islamipic-api")
	s2 := NewJWTSigner("secret2", "islamipic-api")

	tok, err := s1.SignAccessToken("acct-1", string(domain.RoleUser), time.Minute)
	if err != nil {
		t.Fatalf("sign err: %v", err)
	}

	_, verr := s2.VerifyAccessToken(tok)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_NoneAlg_Rejected(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"uid":  "acct-1",
		"kind": string(auth.TokenAccess),
		"iss":  "islamipic-api",
		"sub":  "acct-1",
		"exp":  time.Now().Add(time.Minute).Unix(),
		"iat":  time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	unsigned, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected signing err: %v", err)
	}

	s := NewJWTSigner("secret", "islamipic-api")
	_, verr := s.VerifyAccessToken(unsigned)
	if !domain.Is(verr, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", verr)
	}
}

func TestJWTSigner_Garbage_ReturnsTokenInvalid(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("secret", "islamipic-api")
	_, err := s.VerifyAccessToken("not.a.jwt")
	if !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}
