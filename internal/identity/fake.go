package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// FakeProvider is an in-memory Provider. Id tokens are accepted verbatim as
// uids and session cookies are "session:<uid>". Minted cookies expire after
// the requested lifetime, measured on the provider's clock.
type FakeProvider struct {
	mu      sync.Mutex
	emails  map[string]string
	revoked map[string]bool
	expires map[string]time.Time
	now     func() time.Time
	Err     error
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		emails:  map[string]string{},
		revoked: map[string]bool{},
		expires: map[string]time.Time{},
		now:     time.Now,
	}
}

// SetClock replaces the clock used for cookie expiry.
func (f *FakeProvider) SetClock(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// Register adds an email → uid mapping.
func (f *FakeProvider) Register(email, uid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emails[strings.ToLower(email)] = uid
}

// Revoke invalidates every cookie minted for uid.
func (f *FakeProvider) Revoke(uid string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[uid] = true
}

func (f *FakeProvider) UserIDByEmail(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	uid, ok := f.emails[strings.ToLower(email)]
	if !ok {
		return "", ErrUserNotFound
	}
	return uid, nil
}

func (f *FakeProvider) CreateSessionCookie(_ context.Context, idToken string, expiresIn time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	if strings.TrimSpace(idToken) == "" {
		return "", ErrInvalidSession
	}
	cookie := "session:" + idToken
	if expiresIn > 0 {
		f.expires[cookie] = f.now().Add(expiresIn)
	}
	return cookie, nil
}

func (f *FakeProvider) VerifySessionCookie(_ context.Context, cookie string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	uid, ok := strings.CutPrefix(cookie, "session:")
	if !ok || uid == "" || f.revoked[uid] {
		return "", ErrInvalidSession
	}
	if exp, ok := f.expires[cookie]; ok && !f.now().Before(exp) {
		return "", ErrInvalidSession
	}
	return uid, nil
}
