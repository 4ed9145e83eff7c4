package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/islamipic/api/internal/application/gallery"
	"github.com/islamipic/api/internal/domain"
)

type ImageRepo struct {
	db *sql.DB
}

func NewImageRepo(db *sql.DB) *ImageRepo {
	return &ImageRepo{db: db}
}

const imageCols = `id, title, slug, description, object_key, url, category, tags, likes, shares, views, downloads, created_at, updated_at`

func scanImage(row interface{ Scan(dest ...any) error }) (domain.Image, error) {
	var (
		img   domain.Image
		tags  pgtype.FlatArray[string]
		likes pgtype.FlatArray[string]
	)
	m := pgtype.NewMap()
	err := row.Scan(
		&img.ID,
		&img.Title,
		&img.Slug,
		&img.Description,
		&img.ObjectKey,
		&img.URL,
		&img.Category,
		m.SQLScanner(&tags),
		m.SQLScanner(&likes),
		&img.Shares,
		&img.Views,
		&img.Downloads,
		&img.CreatedAt,
		&img.UpdatedAt,
	)
	img.Tags = tags
	img.Likes = likes
	return img, err
}

// arrayLit renders a text[] literal; pq-style placeholders can't bind slices
// through database/sql without a driver type.
func arrayLit(vals []string) string {
	if len(vals) == 0 {
		return "{}"
	}
	quoted := make([]string, len(vals))
	for i, v := range vals {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		quoted[i] = `"` + v + `"`
	}
	return "{" + strings.Join(quoted, ",") + "}"
}

// ---------- gallery.ImageRepo ----------

func (r *ImageRepo) GetByID(ctx context.Context, id string) (domain.Image, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Image{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT ` + imageCols + `
FROM images
WHERE id = $1
LIMIT 1;
`
	return r.one(r.db.QueryRowContext(ctx, q, id))
}

func (r *ImageRepo) GetBySlug(ctx context.Context, slug string) (domain.Image, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return domain.Image{}, domain.ErrMissingField("slug")
	}

	const q = `
SELECT ` + imageCols + `
FROM images
WHERE slug = $1
LIMIT 1;
`
	return r.one(r.db.QueryRowContext(ctx, q, slug))
}

func (r *ImageRepo) one(row *sql.Row) (domain.Image, error) {
	img, err := scanImage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Image{}, domain.ErrImageNotFound()
		}
		return domain.Image{}, domain.ErrDBUnavailable(err)
	}
	return img, nil
}

func (r *ImageRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM images WHERE slug = $1);`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, slug).Scan(&exists); err != nil {
		return false, domain.ErrDBUnavailable(err)
	}
	return exists, nil
}

func (r *ImageRepo) Create(ctx context.Context, img domain.Image) (domain.Image, error) {
	if img.ID == "" {
		img.ID = uuid.NewString()
	}

	const q = `
INSERT INTO images (id, title, slug, description, object_key, url, category, tags)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8::text[])
RETURNING ` + imageCols + `;
`
	created, err := scanImage(r.db.QueryRowContext(ctx, q,
		img.ID, img.Title, img.Slug, img.Description, img.ObjectKey, img.URL, img.Category, arrayLit(img.Tags),
	))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return domain.Image{}, domain.ErrSlugTaken(img.Slug)
		}
		return domain.Image{}, domain.ErrDBUnavailable(err)
	}
	return created, nil
}

func (r *ImageRepo) UpdateMeta(ctx context.Context, img domain.Image) (domain.Image, error) {
	const q = `
UPDATE images
SET title = $2,
    slug = $3,
    description = $4,
    category = $5,
    tags = $6::text[],
    updated_at = NOW()
WHERE id = $1
RETURNING ` + imageCols + `;
`
	updated, err := scanImage(r.db.QueryRowContext(ctx, q,
		img.ID, img.Title, img.Slug, img.Description, img.Category, arrayLit(img.Tags),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Image{}, domain.ErrImageNotFound()
		}
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return domain.Image{}, domain.ErrSlugTaken(img.Slug)
		}
		return domain.Image{}, domain.ErrDBUnavailable(err)
	}
	return updated, nil
}

func (r *ImageRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM images WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrImageNotFound()
	}
	return nil
}

func (r *ImageRepo) List(ctx context.Context, limit, offset int) ([]domain.Image, error) {
	const q = `
SELECT ` + imageCols + `
FROM images
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;
`
	return r.many(ctx, q, limit, offset)
}

func (r *ImageRepo) ListByCategory(ctx context.Context, category string, limit, offset int) ([]domain.Image, error) {
	const q = `
SELECT ` + imageCols + `
FROM images
WHERE category = $3
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;
`
	return r.many(ctx, q, limit, offset, category)
}

func (r *ImageRepo) ListByTag(ctx context.Context, tag string, limit, offset int) ([]domain.Image, error) {
	const q = `
SELECT ` + imageCols + `
FROM images
WHERE $3 = ANY(tags)
ORDER BY created_at DESC
LIMIT $1 OFFSET $2;
`
	return r.many(ctx, q, limit, offset, tag)
}

// Search matches title and description with websearch syntax, newest first
// within equal rank.
func (r *ImageRepo) Search(ctx context.Context, query string, limit, offset int) ([]domain.Image, error) {
	const q = `
SELECT ` + imageCols + `
FROM images
WHERE to_tsvector('simple', title || ' ' || description) @@ websearch_to_tsquery('simple', $3)
ORDER BY ts_rank(to_tsvector('simple', title || ' ' || description), websearch_to_tsquery('simple', $3)) DESC,
         created_at DESC
LIMIT $1 OFFSET $2;
`
	return r.many(ctx, q, limit, offset, query)
}

func (r *ImageRepo) many(ctx context.Context, q string, limit, offset int, args ...any) ([]domain.Image, error) {
	all := append([]any{limit, offset}, args...)
	rows, err := r.db.QueryContext(ctx, q, all...)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Image{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *ImageRepo) AddLike(ctx context.Context, imageID, accountID string) (domain.Image, error) {
	const q = `
UPDATE images
SET likes = array_append(likes, $2),
    updated_at = NOW()
WHERE id = $1 AND NOT ($2 = ANY(likes))
RETURNING ` + imageCols + `;
`
	img, err := scanImage(r.db.QueryRowContext(ctx, q, imageID, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Already liked, or the image is gone; re-read to tell the two apart.
			return r.GetByID(ctx, imageID)
		}
		return domain.Image{}, domain.ErrDBUnavailable(err)
	}
	return img, nil
}

func (r *ImageRepo) RemoveLike(ctx context.Context, imageID, accountID string) (domain.Image, error) {
	const q = `
UPDATE images
SET likes = array_remove(likes, $2),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + imageCols + `;
`
	img, err := scanImage(r.db.QueryRowContext(ctx, q, imageID, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Image{}, domain.ErrImageNotFound()
		}
		return domain.Image{}, domain.ErrDBUnavailable(err)
	}
	return img, nil
}

func (r *ImageRepo) Increment(ctx context.Context, imageID string, c gallery.Counter) (int64, error) {
	var col string
	switch c {
	case gallery.CounterViews:
		col = "views"
	case gallery.CounterShares:
		col = "shares"
	case gallery.CounterDownloads:
		col = "downloads"
	default:
		return 0, domain.ErrInvalidField("counter", string(c))
	}

	q := `
UPDATE images
SET ` + col + ` = ` + col + ` + 1,
    updated_at = NOW()
WHERE id = $1
RETURNING ` + col + `;
`
	var n int64
	if err := r.db.QueryRowContext(ctx, q, imageID).Scan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrImageNotFound()
		}
		return 0, domain.ErrDBUnavailable(err)
	}
	return n, nil
}
