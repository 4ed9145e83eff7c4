package middleware

import (
	"context"

	"github.com/islamipic/api/internal/domain"
)

type ctxKey string

const ctxAccount ctxKey = "account"

func WithAccount(ctx context.Context, a domain.Account) context.Context {
	return context.WithValue(ctx, ctxAccount, a)
}

func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(ctxAccount).(domain.Account)
	return a, ok && a.ID != ""
}

func AccountIDFromContext(ctx context.Context) (string, bool) {
	a, ok := AccountFromContext(ctx)
	return a.ID, ok
}

func RoleFromContext(ctx context.Context) (string, bool) {
	a, ok := AccountFromContext(ctx)
	return a.Role, ok
}
