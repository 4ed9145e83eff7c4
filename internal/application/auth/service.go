package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/islamipic/api/internal/domain"
)

type Service struct {
	accounts AccountRepo
	hasher   PasswordHasher
	signer   TokenSigner
	denylist TokenDenylist
	pub      EventPublisher

	accessTTL  time.Duration
	refreshTTL time.Duration
	audit      func(action string, fields map[string]string)

	// URL prefix for the approval link mailed to the super-admin,
	// e.g. https://admin.islamipic.com/verify-admin?token=
	verifyBaseURL string
}

type Config struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	VerifyBaseURL string
}

func NewService(
	accounts AccountRepo,
	hasher PasswordHasher,
	signer TokenSigner,
	denylist TokenDenylist,
	pub EventPublisher,
	cfg Config,
) *Service {
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		signer:   signer,
		denylist: denylist,
		pub:      pub,
		audit:    func(string, map[string]string) {},

		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		verifyBaseURL: cfg.VerifyBaseURL,
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// AuthTokens is the common token output for handlers/DTO mapping. The
// refresh token travels in an HttpOnly cookie, never in the JSON body.
type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64  // seconds
	TokenType    string // "Bearer"
}

type LoginResult struct {
	Account domain.Account
	Tokens  AuthTokens
}

// issueTokens issues an access + refresh token pair for an account.
func (s *Service) issueTokens(accountID, role string) (AuthTokens, error) {
	access, err := s.signer.SignAccessToken(accountID, role, s.accessTTL)
	if err != nil {
		return AuthTokens{}, err
	}

	refresh, err := s.signer.SignRefreshToken(accountID, s.refreshTTL)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// newVerificationToken returns a 32-byte hex token, matching the format the
// admin dashboard's approval links already use.
func newVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
