package postgres

import (
	"context"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/islamipic/api/internal/domain"
)

type SeederHasher interface {
	Hash(password string) (string, error)
}

type SeederRepo interface {
	CountByRole(ctx context.Context, role string) (int, error)
	Create(ctx context.Context, a domain.Account) (domain.Account, error)
}

// SeedSuperAdmin creates the single super-admin account from config on first
// boot. Restart safe: if one already exists nothing happens.
func SeedSuperAdmin(ctx context.Context, repo SeederRepo, hasher SeederHasher, name, email, password string) error {
	if email == "" || password == "" {
		zlog.Debug().Msg("super-admin seed skipped: no credentials configured")
		return nil
	}

	n, err := repo.CountByRole(ctx, string(domain.RoleSuperAdmin))
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	created, err := repo.Create(ctx, domain.Account{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         string(domain.RoleSuperAdmin),
		IsVerified:   true,
	})
	if err != nil {
		if domain.Is(err, "email_already_registered") {
			return nil
		}
		return err
	}

	zlog.Info().Str("account_id", created.ID).Msg("super-admin seeded")
	return nil
}
