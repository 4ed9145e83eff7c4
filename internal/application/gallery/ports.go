package gallery

import (
	"context"
	"io"

	"github.com/islamipic/api/internal/domain"
)

// Counter names the image engagement counters the repo can bump atomically.
type Counter string

const (
	CounterViews     Counter = "views"
	CounterShares    Counter = "shares"
	CounterDownloads Counter = "downloads"
)

/*
ImageRepo
---------
Persistence port for the image catalog.
*/
type ImageRepo interface {
	GetByID(ctx context.Context, id string) (domain.Image, error)
	GetBySlug(ctx context.Context, slug string) (domain.Image, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, img domain.Image) (domain.Image, error)
	UpdateMeta(ctx context.Context, img domain.Image) (domain.Image, error)
	Delete(ctx context.Context, id string) error

	List(ctx context.Context, limit, offset int) ([]domain.Image, error)
	ListByCategory(ctx context.Context, category string, limit, offset int) ([]domain.Image, error)
	ListByTag(ctx context.Context, tag string, limit, offset int) ([]domain.Image, error)
	Search(ctx context.Context, query string, limit, offset int) ([]domain.Image, error)

	// AddLike/RemoveLike are set operations: adding an existing like or
	// removing a missing one is a no-op, not an error.
	AddLike(ctx context.Context, imageID, accountID string) (domain.Image, error)
	RemoveLike(ctx context.Context, imageID, accountID string) (domain.Image, error)
	Increment(ctx context.Context, imageID string, c Counter) (int64, error)
}

/*
ObjectStorage
-------------
Image bytes live in S3-compatible storage; Postgres only keeps the key.
*/
type ObjectStorage interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}
