package auth

import (
	"context"
	"time"

	"github.com/islamipic/api/internal/domain"
)

/*
AccountRepo
-----------
Persistence port for accounts. Only describes WHAT the auth service needs,
not HOW it's stored.
*/
type AccountRepo interface {
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByVerificationToken(ctx context.Context, token string) (domain.Account, error)
	Create(ctx context.Context, a domain.Account) (domain.Account, error)

	List(ctx context.Context) ([]domain.Account, error)
	ListByRole(ctx context.Context, role string) ([]domain.Account, error)
	CountByRole(ctx context.Context, role string) (int, error)

	// Updates needed by business flows
	UpdateProfile(ctx context.Context, id, name, email string) (domain.Account, error)
	UpdatePasswordHash(ctx context.Context, id string, newHash string) error
	// SetVerified flips is_verified and clears the verification token in the
	// same statement, so a consumed token can never be replayed.
	SetVerified(ctx context.Context, id string) error
	SetRole(ctx context.Context, id string, role string) error
	Delete(ctx context.Context, id string) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies both token kinds. Used by the service + auth middleware.
*/
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

type TokenClaims struct {
	AccountID string
	Role      string // access tokens only
	Kind      TokenKind
	TokenID   string // refresh tokens only (jti)
	Exp       time.Time
}

type TokenSigner interface {
	SignAccessToken(accountID string, role string, ttl time.Duration) (string, error)
	SignRefreshToken(accountID string, ttl time.Duration) (string, error)
	VerifyAccessToken(token string) (TokenClaims, error)
	VerifyRefreshToken(token string) (TokenClaims, error)
}

/*
TokenDenylist
-------------
Logout support. Refresh tokens are stateless JWTs, so revoking one means
remembering its jti until the token would have expired anyway. Backed by
Redis in prod.
*/
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

/*
EventPublisher
--------------
Publishes events to RabbitMQ. The mail transport consumes these and sends the
actual email; this service never talks SMTP.
*/
type EventPublisher interface {
	PublishStaffVerifyRequested(ctx context.Context, evt StaffVerifyEvent) error
}

// StaffVerifyEvent asks the mail transport to notify the super-admin that a
// new staff account is waiting for approval.
type StaffVerifyEvent struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	URL       string `json:"url"`
}
