package gallery

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/islamipic/api/internal/domain"
)

type fakeImageRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]domain.Image

	createErr error
	updateErr error
	slugErr   error
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{byID: map[string]domain.Image{}}
}

func (f *fakeImageRepo) put(img domain.Image) domain.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	if img.ID == "" {
		f.seq++
		img.ID = fmt.Sprintf("img-%d", f.seq)
	}
	f.byID[img.ID] = img
	return img
}

func (f *fakeImageRepo) GetByID(ctx context.Context, id string) (domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.byID[id]
	if !ok {
		return domain.Image{}, domain.ErrImageNotFound()
	}
	return img, nil
}

func (f *fakeImageRepo) GetBySlug(ctx context.Context, slug string) (domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, img := range f.byID {
		if img.Slug == slug {
			return img, nil
		}
	}
	return domain.Image{}, domain.ErrImageNotFound()
}

func (f *fakeImageRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slugErr != nil {
		return false, f.slugErr
	}
	for _, img := range f.byID {
		if img.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeImageRepo) Create(ctx context.Context, img domain.Image) (domain.Image, error) {
	if f.createErr != nil {
		return domain.Image{}, f.createErr
	}
	return f.put(img), nil
}

func (f *fakeImageRepo) UpdateMeta(ctx context.Context, img domain.Image) (domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return domain.Image{}, f.updateErr
	}
	if _, ok := f.byID[img.ID]; !ok {
		return domain.Image{}, domain.ErrImageNotFound()
	}
	f.byID[img.ID] = img
	return img, nil
}

func (f *fakeImageRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrImageNotFound()
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeImageRepo) List(ctx context.Context, limit, offset int) ([]domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Image, 0, len(f.byID))
	for _, img := range f.byID {
		out = append(out, img)
	}
	return out, nil
}

func (f *fakeImageRepo) ListByCategory(ctx context.Context, category string, limit, offset int) ([]domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Image{}
	for _, img := range f.byID {
		if img.Category == category {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) ListByTag(ctx context.Context, tag string, limit, offset int) ([]domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Image{}
	for _, img := range f.byID {
		for _, t := range img.Tags {
			if t == tag {
				out = append(out, img)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeImageRepo) Search(ctx context.Context, query string, limit, offset int) ([]domain.Image, error) {
	return f.List(ctx, limit, offset)
}

func (f *fakeImageRepo) AddLike(ctx context.Context, imageID, accountID string) (domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.byID[imageID]
	if !ok {
		return domain.Image{}, domain.ErrImageNotFound()
	}
	if !img.LikedBy(accountID) {
		img.Likes = append(img.Likes, accountID)
	}
	f.byID[imageID] = img
	return img, nil
}

func (f *fakeImageRepo) RemoveLike(ctx context.Context, imageID, accountID string) (domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.byID[imageID]
	if !ok {
		return domain.Image{}, domain.ErrImageNotFound()
	}
	keep := img.Likes[:0]
	for _, id := range img.Likes {
		if id != accountID {
			keep = append(keep, id)
		}
	}
	img.Likes = keep
	f.byID[imageID] = img
	return img, nil
}

func (f *fakeImageRepo) Increment(ctx context.Context, imageID string, c Counter) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.byID[imageID]
	if !ok {
		return 0, domain.ErrImageNotFound()
	}
	var n int64
	switch c {
	case CounterViews:
		img.Views++
		n = img.Views
	case CounterShares:
		img.Shares++
		n = img.Shares
	case CounterDownloads:
		img.Downloads++
		n = img.Downloads
	}
	f.byID[imageID] = img
	return n, nil
}

type fakeStorage struct {
	mu sync.Mutex

	objects map[string]string // key -> contentType
	deleted []string

	putErr    error
	deleteErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]string{}}
}

func (s *fakeStorage) Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.objects[key] = contentType
	return nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://cdn.islamipic.test/" + key
}

func newGalleryForTest(t *testing.T) (*Service, *fakeImageRepo, *fakeStorage) {
	t.Helper()
	images := newFakeImageRepo()
	storage := newFakeStorage()
	return NewService(images, storage), images, storage
}

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}
