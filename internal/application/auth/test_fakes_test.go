package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/islamipic/api/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

type fakeAccountRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]domain.Account

	// injected errors (if set, method returns error)
	getByIDErr     error
	getByEmailErr  error
	createErr      error
	setRoleErr     error
	updatePwdErr   error
	setVerifiedErr error
	countByRoleErr error
	deleteErr      error

	// record calls
	setRoles   []struct{ id, role string }
	updatedPwd []struct{ id, hash string }
	deletedIDs []string
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

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByEmailErr != nil {
		return domain.Account{}, f.getByEmailErr
	}
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound()
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getByIDErr != nil {
		return domain.Account{}, f.getByIDErr
	}
	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

func (f *fakeAccountRepo) GetByVerificationToken(ctx context.Context, token string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, a := range f.byID {
		if a.VerificationToken != "" && a.VerificationToken == token {
			return a, nil
		}
	}
	return domain.Account{}, domain.ErrAccountNotFound()
}

func (f *fakeAccountRepo) Create(ctx context.Context, a domain.Account) (domain.Account, error) {
	if f.createErr != nil {
		return domain.Account{}, f.createErr
	}
	return f.put(a), nil
}

func (f *fakeAccountRepo) List(ctx context.Context) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Account, 0, len(f.byID))
	for _, a := range f.byID {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAccountRepo) ListByRole(ctx context.Context, role string) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []domain.Account{}
	for _, a := range f.byID {
		if a.Role == role {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) CountByRole(ctx context.Context, role string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.countByRoleErr != nil {
		return 0, f.countByRoleErr
	}
	n := 0
	for _, a := range f.byID {
		if a.Role == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeAccountRepo) UpdateProfile(ctx context.Context, id, name, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	a.Name = name
	a.Email = email
	f.byID[id] = a
	return a, nil
}

func (f *fakeAccountRepo) UpdatePasswordHash(ctx context.Context, id string, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updatePwdErr != nil {
		return f.updatePwdErr
	}
	a, ok := f.byID[id]
	if !ok {
		return domain.ErrAccountNotFound()
	}
	a.PasswordHash = newHash
	f.byID[id] = a
	f.updatedPwd = append(f.updatedPwd, struct{ id, hash string }{id, newHash})
	return nil
}

func (f *fakeAccountRepo) SetVerified(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setVerifiedErr != nil {
		return f.setVerifiedErr
	}
	a, ok := f.byID[id]
	if !ok {
		return domain.ErrAccountNotFound()
	}
	a.IsVerified = true
	a.VerificationToken = ""
	f.byID[id] = a
	return nil
}

func (f *fakeAccountRepo) SetRole(ctx context.Context, id string, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.setRoleErr != nil {
		return f.setRoleErr
	}
	a, ok := f.byID[id]
	if !ok {
		return domain.ErrAccountNotFound()
	}
	a.Role = role
	f.byID[id] = a
	f.setRoles = append(f.setRoles, struct{ id, role string }{id, role})
	return nil
}

func (f *fakeAccountRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrAccountNotFound()
	}
	delete(f.byID, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeHasher struct {
	hashFn    func(pw string) (string, error)
	compareFn func(hash, pw string) error
	compares  int
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash string, password string) error {
	h.compares++
	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	if hash == "hash:"+password {
		return nil
	}
	return errors.New("mismatch")
}

// fakeSigner mints decodable fake tokens so Verify* can round-trip them.
type fakeSigner struct {
	mu      sync.Mutex
	seq     int
	refresh map[string]TokenClaims // token -> claims

	signAccessErr  error
	signRefreshErr error
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{refresh: map[string]TokenClaims{}}
}

func (s *fakeSigner) SignAccessToken(accountID string, role string, ttl time.Duration) (string, error) {
	if s.signAccessErr != nil {
		return "", s.signAccessErr
	}
	return fmt.Sprintf("jwt(%s,%s)", accountID, role), nil
}

func (s *fakeSigner) SignRefreshToken(accountID string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.signRefreshErr != nil {
		return "", s.signRefreshErr
	}
	s.seq++
	tok := fmt.Sprintf("rft-%d", s.seq)
	s.refresh[tok] = TokenClaims{
		AccountID: accountID,
		Kind:      TokenRefresh,
		TokenID:   fmt.Sprintf("jti-%d", s.seq),
		Exp:       time.Now().Add(ttl),
	}
	return tok, nil
}

func (s *fakeSigner) VerifyAccessToken(token string) (TokenClaims, error) {
	return TokenClaims{}, domain.ErrTokenInvalid()
}

func (s *fakeSigner) VerifyRefreshToken(token string) (TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.refresh[token]
	if !ok {
		return TokenClaims{}, domain.ErrRefreshTokenInvalid()
	}
	if time.Now().After(c.Exp) {
		return TokenClaims{}, domain.ErrTokenExpired()
	}
	return c, nil
}

type fakeDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	revokeErr error
	checkErr  error
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{revoked: map[string]time.Time{}}
}

func (d *fakeDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.revokeErr != nil {
		return d.revokeErr
	}
	d.revoked[tokenID] = until
	return nil
}

func (d *fakeDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.checkErr != nil {
		return false, d.checkErr
	}
	_, ok := d.revoked[tokenID]
	return ok, nil
}

type fakePublisher struct {
	publishErr error
	events     []StaffVerifyEvent
}

func (p *fakePublisher) PublishStaffVerifyRequested(ctx context.Context, evt StaffVerifyEvent) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.events = append(p.events, evt)
	return nil
}

/*
Service factory for tests
*/

func newSvcForTest(t *testing.T) (*Service, *fakeAccountRepo, *fakeHasher, *fakeSigner, *fakeDenylist, *fakePublisher, *[]auditEntry) {
	t.Helper()

	accounts := newFakeAccountRepo()
	hasher := &fakeHasher{}
	signer := newFakeSigner()
	denylist := newFakeDenylist()
	pub := &fakePublisher{}

	audits := &[]auditEntry{}
	cfg := Config{
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		VerifyBaseURL: "https://admin.islamipic.test/verify-admin?token=",
	}

	svc := NewService(accounts, hasher, signer, denylist, pub, cfg).
		WithAudit(func(action string, fields map[string]string) {
			cp := map[string]string{}
			for k, v := range fields {
				cp[k] = v
			}
			*audits = append(*audits, auditEntry{action: action, fields: cp})
		})

	return svc, accounts, hasher, signer, denylist, pub, audits
}

/*
Small assertions
*/

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if !domain.Is(err, code) {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func requireAuditAction(t *testing.T, audits *[]auditEntry, wantAction string) auditEntry {
	t.Helper()
	if audits == nil || len(*audits) == 0 {
		t.Fatalf("expected audit entry, got none")
	}
	e := (*audits)[len(*audits)-1]
	if e.action != wantAction {
		t.Fatalf("expected audit action %q, got %q", wantAction, e.action)
	}
	return e
}
