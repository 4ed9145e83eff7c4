package dto

import (
	"time"

	"github.com/islamipic/api/internal/application/auth"
	"github.com/islamipic/api/internal/domain"
)

type AccountResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromAccount(a domain.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		Name:       a.Name,
		Email:      a.Email,
		Role:       a.Role,
		IsVerified: a.IsVerified,
		CreatedAt:  a.CreatedAt,
	}
}

func FromAccounts(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, FromAccount(a))
	}
	return out
}

// LoginResponse carries the access token only; the refresh token is set as an
// HttpOnly cookie and never appears in a body.
type LoginResponse struct {
	Account     AccountResponse `json:"account"`
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
}

func FromLoginResult(res auth.LoginResult) LoginResponse {
	return LoginResponse{
		Account:     FromAccount(res.Account),
		AccessToken: res.Tokens.AccessToken,
		TokenType:   res.Tokens.TokenType,
		ExpiresIn:   res.Tokens.ExpiresIn,
	}
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
