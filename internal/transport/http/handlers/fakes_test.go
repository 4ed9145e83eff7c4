package http_handlers

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/islamipic/api/internal/application/auth"
	"github.com/islamipic/api/internal/application/gallery"
	"github.com/islamipic/api/internal/domain"
)

// ---- auth ports ----

type fakeAccountRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Account
	seq  int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: map[string]domain.Account{}}
}

func (f *fakeAccountRepo) put(a domain.Account) domain.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		f.seq++
		a.ID = fmt.Sprintf("acct-%d", f.seq)
	}
	f.byID[a.ID] = a
	return a
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound()
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

func (f *fakeAccountRepo) GetByVerificationToken(_ context.Context, token string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if token != "" && a.VerificationToken == token {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound()
}

func (f *fakeAccountRepo) Create(_ context.Context, a domain.Account) (domain.Account, error) {
	f.mu.Lock()
	for _, have := range f.byID {
		if have.Email == a.Email {
			f.mu.Unlock()
			return domain.Account{}, domain.ErrEmailAlreadyRegistered()
		}
	}
	f.mu.Unlock()
	a.CreatedAt = time.Now()
	return f.put(a), nil
}

func (f *fakeAccountRepo) List(_ context.Context) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Account, 0, len(f.byID))
	for _, a := range f.byID {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccountRepo) ListByRole(_ context.Context, role string) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Account
	for _, a := range f.byID {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) CountByRole(_ context.Context, role string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.byID {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccountRepo) UpdateProfile(ctx context.Context, id, name, email string) (domain.Account, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}
	a.Name, a.Email = name, email
	return f.put(a), nil
}

func (f *fakeAccountRepo) UpdatePasswordHash(ctx context.Context, id, newHash string) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.PasswordHash = newHash
	f.put(a)
	return nil
}

func (f *fakeAccountRepo) SetVerified(ctx context.Context, id string) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.IsVerified = true
	a.VerificationToken = ""
	f.put(a)
	return nil
}

func (f *fakeAccountRepo) SetRole(ctx context.Context, id, role string) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	a.Role = role
	f.put(a)
	return nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrAccountNotFound()
	}
	delete(f.byID, id)
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(pw string) (string, error) { return "hash:" + pw, nil }
func (fakeHasher) Compare(hash, pw string) error {
	if hash != "hash:"+pw {
		return domain.ErrInvalidCredentials()
	}
	return nil
}

type fakeSigner struct {
	mu      sync.Mutex
	seq     int
	refresh map[string]auth.TokenClaims
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{refresh: map[string]auth.TokenClaims{}}
}

func (f *fakeSigner) SignAccessToken(id, role string, ttl time.Duration) (string, error) {
	return "jwt(" + id + "," + role + ")", nil
}

func (f *fakeSigner) SignRefreshToken(id string, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	tok := fmt.Sprintf("rft-%d", f.seq)
	f.refresh[tok] = auth.TokenClaims{
		AccountID: id,
		Kind:      auth.TokenRefresh,
		TokenID:   fmt.Sprintf("jti-%d", f.seq),
		Exp:       time.Now().Add(ttl),
	}
	return tok, nil
}

func (f *fakeSigner) VerifyAccessToken(tok string) (auth.TokenClaims, error) {
	if !strings.HasPrefix(tok, "jwt(") {
		return auth.TokenClaims{}, domain.ErrTokenInvalid()
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(tok, "jwt("), ")")
	id, role, _ := strings.Cut(inner, ",")
	return auth.TokenClaims{AccountID: id, Role: role, Kind: auth.TokenAccess, Exp: time.Now().Add(time.Minute)}, nil
}

func (f *fakeSigner) VerifyRefreshToken(tok string) (auth.TokenClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.refresh[tok]
	if !ok {
		return auth.TokenClaims{}, domain.ErrRefreshTokenInvalid()
	}
	return c, nil
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func newFakeDenylist() *fakeDenylist { return &fakeDenylist{revoked: map[string]bool{}} }

func (f *fakeDenylist) Revoke(_ context.Context, tokenID string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[tokenID], nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []auth.StaffVerifyEvent
}

func (f *fakePublisher) PublishStaffVerifyRequested(_ context.Context, evt auth.StaffVerifyEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

// ---- gallery ports ----

type fakeImageRepo struct {
	mu   sync.Mutex
	byID map[string]domain.Image
	seq  int
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

func (f *fakeImageRepo) GetByID(_ context.Context, id string) (domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.byID[id]
	if !ok {
		return domain.Image{}, domain.ErrImageNotFound()
	}
	return img, nil
}

func (f *fakeImageRepo) GetBySlug(_ context.Context, slug string) (domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, img := range f.byID {
		if img.Slug == slug {
			return img, nil
		}
	}
	return domain.Image{}, domain.ErrImageNotFound()
}

func (f *fakeImageRepo) SlugExists(_ context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, img := range f.byID {
		if img.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeImageRepo) Create(_ context.Context, img domain.Image) (domain.Image, error) {
	img.CreatedAt = time.Now()
	return f.put(img), nil
}

func (f *fakeImageRepo) UpdateMeta(ctx context.Context, img domain.Image) (domain.Image, error) {
	have, err := f.GetByID(ctx, img.ID)
	if err != nil {
		return domain.Image{}, err
	}
	have.Title, have.Slug, have.Description = img.Title, img.Slug, img.Description
	have.Category, have.Tags = img.Category, img.Tags
	return f.put(have), nil
}

func (f *fakeImageRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrImageNotFound()
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeImageRepo) List(_ context.Context, limit, offset int) ([]domain.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Image, 0, len(f.byID))
	for _, img := range f.byID {
		out = append(out, img)
	}
	return out, nil
}

func (f *fakeImageRepo) ListByCategory(ctx context.Context, category string, limit, offset int) ([]domain.Image, error) {
	all, _ := f.List(ctx, limit, offset)
	var out []domain.Image
	for _, img := range all {
		if img.Category == category {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) ListByTag(ctx context.Context, tag string, limit, offset int) ([]domain.Image, error) {
	all, _ := f.List(ctx, limit, offset)
	var out []domain.Image
	for _, img := range all {
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
	all, _ := f.List(ctx, limit, offset)
	var out []domain.Image
	for _, img := range all {
		if strings.Contains(strings.ToLower(img.Title), strings.ToLower(query)) {
			out = append(out, img)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) AddLike(ctx context.Context, imageID, accountID string) (domain.Image, error) {
	img, err := f.GetByID(ctx, imageID)
	if err != nil {
		return domain.Image{}, err
	}
	for _, id := range img.Likes {
		if id == accountID {
			return img, nil
		}
	}
	img.Likes = append(img.Likes, accountID)
	return f.put(img), nil
}

func (f *fakeImageRepo) RemoveLike(ctx context.Context, imageID, accountID string) (domain.Image, error) {
	img, err := f.GetByID(ctx, imageID)
	if err != nil {
		return domain.Image{}, err
	}
	kept := img.Likes[:0]
	for _, id := range img.Likes {
		if id != accountID {
			kept = append(kept, id)
		}
	}
	img.Likes = kept
	return f.put(img), nil
}

func (f *fakeImageRepo) Increment(ctx context.Context, imageID string, c gallery.Counter) (int64, error) {
	img, err := f.GetByID(ctx, imageID)
	if err != nil {
		return 0, err
	}
	var n int64
	switch c {
	case gallery.CounterViews:
		img.Views++
		n = img.Views
	case gallery.CounterShares:
		img.Shares++
		n = img.Shares
	case gallery.CounterDownloads:
		img.Downloads++
		n = img.Downloads
	}
	f.put(img)
	return n, nil
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objects: map[string][]byte{}} }

func (f *fakeStorage) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) PublicURL(key string) string { return "https://cdn.test/" + key }
