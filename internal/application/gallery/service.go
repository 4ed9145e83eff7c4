package gallery

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/islamipic/api/internal/domain"
	"github.com/islamipic/api/internal/logger"
)

// slugAttempts bounds the "-2", "-3", ... suffix probe for a free slug.
const slugAttempts = 50

type Service struct {
	images  ImageRepo
	storage ObjectStorage
	audit   func(action string, fields map[string]string)
}

func NewService(images ImageRepo, storage ObjectStorage) *Service {
	return &Service{
		images:  images,
		storage: storage,
		audit:   func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

type UploadInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string

	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Upload stores the image bytes and creates the catalog row. The slug comes
// from the title; on collision the suffixes -2, -3, ... are probed in order.
func (s *Service) Upload(ctx context.Context, in UploadInput) (domain.Image, error) {
	if !domain.IsValidCategory(in.Category) {
		return domain.Image{}, domain.ErrInvalidCategory(in.Category)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Image{}, domain.ErrMissingField("title")
	}

	slug, err := s.freeSlug(ctx, domain.Slugify(title), "")
	if err != nil {
		return domain.Image{}, err
	}

	key := objectKey(in.Filename)
	if err := s.storage.Put(ctx, key, in.ContentType, in.Body, in.Size); err != nil {
		return domain.Image{}, domain.ErrStorageUnavailable(err)
	}

	created, err := s.images.Create(ctx, domain.Image{
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		ObjectKey:   key,
		URL:         s.storage.PublicURL(key),
		Category:    in.Category,
		Tags:        normalizeTags(in.Tags),
	})
	if err != nil {
		// Best effort: don't strand the object if the row insert failed.
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.WithCtx(ctx).Warn().Err(delErr).Str("key", key).Msg("orphan object cleanup failed")
		}
		return domain.Image{}, err
	}

	s.audit("image.uploaded", map[string]string{"image_id": created.ID, "slug": created.Slug})
	return created, nil
}

type UpdateInput struct {
	ID          string
	Title       string
	Description string
	Category    string
	Tags        []string
}

// Update rewrites the catalog metadata. A title change recomputes the slug,
// so published links follow the title.
func (s *Service) Update(ctx context.Context, in UpdateInput) (domain.Image, error) {
	img, err := s.images.GetByID(ctx, in.ID)
	if err != nil {
		return domain.Image{}, err
	}

	if !domain.IsValidCategory(in.Category) {
		return domain.Image{}, domain.ErrInvalidCategory(in.Category)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Image{}, domain.ErrMissingField("title")
	}

	if title != img.Title {
		slug, err := s.freeSlug(ctx, domain.Slugify(title), img.Slug)
		if err != nil {
			return domain.Image{}, err
		}
		img.Slug = slug
	}

	img.Title = title
	img.Description = strings.TrimSpace(in.Description)
	img.Category = in.Category
	img.Tags = normalizeTags(in.Tags)

	updated, err := s.images.UpdateMeta(ctx, img)
	if err != nil {
		return domain.Image{}, err
	}

	s.audit("image.updated", map[string]string{"image_id": updated.ID})
	return updated, nil
}

// Delete removes the catalog row first, then the object; a dangling object is
// preferable to a row pointing at nothing.
func (s *Service) Delete(ctx context.Context, id string) error {
	img, err := s.images.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, img.ID); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, img.ObjectKey); err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("key", img.ObjectKey).Msg("object delete failed")
	}

	s.audit("image.deleted", map[string]string{"image_id": img.ID, "slug": img.Slug})
	return nil
}

func (s *Service) DeleteBySlug(ctx context.Context, slug string) error {
	img, err := s.images.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.Delete(ctx, img.ID)
}

func (s *Service) Get(ctx context.Context, id string) (domain.Image, error) {
	return s.images.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (domain.Image, error) {
	return s.images.GetBySlug(ctx, slug)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Image, error) {
	limit, offset = clampPage(limit, offset)
	return s.images.List(ctx, limit, offset)
}

func (s *Service) ListByCategory(ctx context.Context, category string, limit, offset int) ([]domain.Image, error) {
	if !domain.IsValidCategory(category) {
		return nil, domain.ErrInvalidCategory(category)
	}
	limit, offset = clampPage(limit, offset)
	return s.images.ListByCategory(ctx, category, limit, offset)
}

func (s *Service) ListByTag(ctx context.Context, tag string, limit, offset int) ([]domain.Image, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil, domain.ErrMissingField("tag")
	}
	limit, offset = clampPage(limit, offset)
	return s.images.ListByTag(ctx, tag, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]domain.Image, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrMissingField("q")
	}
	limit, offset = clampPage(limit, offset)
	return s.images.Search(ctx, query, limit, offset)
}

func (s *Service) Like(ctx context.Context, imageID, accountID string) (domain.Image, error) {
	return s.images.AddLike(ctx, imageID, accountID)
}

func (s *Service) Unlike(ctx context.Context, imageID, accountID string) (domain.Image, error) {
	return s.images.RemoveLike(ctx, imageID, accountID)
}

// Download bumps the download counter and hands back the public URL.
func (s *Service) Download(ctx context.Context, imageID string) (string, error) {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return "", err
	}
	if _, err := s.images.Increment(ctx, img.ID, CounterDownloads); err != nil {
		return "", err
	}
	return img.URL, nil
}

func (s *Service) RecordView(ctx context.Context, imageID string) (int64, error) {
	return s.images.Increment(ctx, imageID, CounterViews)
}

func (s *Service) RecordShare(ctx context.Context, imageID string) (int64, error) {
	return s.images.Increment(ctx, imageID, CounterShares)
}

// freeSlug returns base or the first base-N not taken. keep is the caller's
// own current slug, which stays available to it.
func (s *Service) freeSlug(ctx context.Context, base, keep string) (string, error) {
	if base == "" {
		return "", domain.ErrInvalidField("title", "produces an empty slug")
	}
	candidate := base
	for i := 1; i <= slugAttempts; i++ {
		if candidate == keep {
			return candidate, nil
		}
		taken, err := s.images.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", domain.ErrSlugTaken(base)
}

func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "images/" + uuid.NewString() + ext
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 12
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
