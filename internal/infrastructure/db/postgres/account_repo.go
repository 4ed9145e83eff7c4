package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/islamipic/api/internal/domain"
)

type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// ---------- helpers ----------

const accountCols = `id, name, email, password_hash, role, is_verified, COALESCE(verification_token, ''), created_at, updated_at`

func scanAccount(row interface{ Scan(dest ...any) error }) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.PasswordHash,
		&a.Role,
		&a.IsVerified,
		&a.VerificationToken,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isDuplicate(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "duplicate")
}

// ---------- auth.AccountRepo ----------

func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.Account{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + accountCols + `
FROM accounts
WHERE email = $1
LIMIT 1;
`
	a, err := scanAccount(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return a, nil
}

func (r *AccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Account{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + accountCols + `
FROM accounts
WHERE id = $1
LIMIT 1;
`
	a, err := scanAccount(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return a, nil
}

func (r *AccountRepo) GetByVerificationToken(ctx context.Context, token string) (domain.Account, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Account{}, domain.ErrMissingField("token")
	}

	const q = `
SELECT ` + accountCols + `
FROM accounts
WHERE verification_token = $1
LIMIT 1;
`
	a, err := scanAccount(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return a, nil
}

func (r *AccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	a.Email = normalizeEmail(a.Email)
	if a.Email == "" {
		return domain.Account{}, domain.ErrMissingField("email")
	}
	if a.PasswordHash == "" {
		return domain.Account{}, domain.ErrMissingField("password_hash")
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = string(domain.RoleUser)
	}

	const q = `
INSERT INTO accounts (id, name, email, password_hash, role, is_verified, verification_token)
VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7, ''))
RETURNING ` + accountCols + `;
`
	created, err := scanAccount(r.db.QueryRowContext(ctx, q,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.IsVerified, a.VerificationToken,
	))
	if err != nil {
		if isDuplicate(err) {
			return domain.Account{}, domain.ErrEmailAlreadyRegistered()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return created, nil
}

func (r *AccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	const q = `
SELECT ` + accountCols + `
FROM accounts
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (r *AccountRepo) ListByRole(ctx context.Context, role string) ([]domain.Account, error) {
	const q = `
SELECT ` + accountCols + `
FROM accounts
WHERE role = $1
ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, role)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	out := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *AccountRepo) CountByRole(ctx context.Context, role string) (int, error) {
	const q = `SELECT COUNT(*) FROM accounts WHERE role = $1;`

	var n int
	if err := r.db.QueryRowContext(ctx, q, role).Scan(&n); err != nil {
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}

func (r *AccountRepo) UpdateProfile(ctx context.Context, id, name, email string) (domain.Account, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Account{}, domain.ErrMissingField("id")
	}

	const q = `
UPDATE accounts
SET name = $2,
    email = $3,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + accountCols + `;
`
	a, err := scanAccount(r.db.QueryRowContext(ctx, q, id, name, normalizeEmail(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, domain.ErrAccountNotFound()
		}
		if isDuplicate(err) {
			return domain.Account{}, domain.ErrEmailAlreadyRegistered()
		}
		return domain.Account{}, domain.ErrDBUnavailable(err)
	}
	return a, nil
}

func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrMissingField("id")
	}
	if newHash == "" {
		return domain.ErrMissingField("password_hash")
	}

	const q = `
UPDATE accounts
SET password_hash = $2,
    updated_at = NOW()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id, newHash)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrAccountNotFound()
	}
	return nil
}

// SetVerified flips the flag and clears the token in one statement, so a
// consumed approval link cannot be replayed.
func (r *AccountRepo) SetVerified(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrMissingField("id")
	}

	const q = `
UPDATE accounts
SET is_verified = TRUE,
    verification_token = NULL,
    updated_at = NOW()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrAccountNotFound()
	}
	return nil
}

func (r *AccountRepo) SetRole(ctx context.Context, id string, role string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrMissingField("id")
	}

	const q = `
UPDATE accounts
SET role = $2,
    updated_at = NOW()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id, role)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrAccountNotFound()
	}
	return nil
}

func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ErrMissingField("id")
	}

	const q = `DELETE FROM accounts WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrAccountNotFound()
	}
	return nil
}
