package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeProviderRoundTrip(t *testing.T) {
	ctx := context.Background()
	p := NewFakeProvider()
	p.Register("Ann@Example.com", "u1")

	uid, err := p.UserIDByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	_, err = p.UserIDByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	cookie, err := p.CreateSessionCookie(ctx, "u1", 7*24*time.Hour)
	require.NoError(t, err)
	uid, err = p.VerifySessionCookie(ctx, cookie)
	require.NoError(t, err)
	assert.Equal(t, "u1", uid)

	p.Revoke("u1")
	_, err = p.VerifySessionCookie(ctx, cookie)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = p.VerifySessionCookie(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestFakeProviderCookieExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	p := NewFakeProvider()
	p.SetClock(func() time.Time { return now })

	cookie, err := p.CreateSessionCookie(ctx, "u1", time.Hour)
	if err != nil {
		t.Fatalf("create cookie: %v", err)
	}
	now = now.Add(59 * time.Minute)
	if _, err := p.VerifySessionCookie(ctx, cookie); err != nil {
		t.Fatalf("cookie rejected before expiry: %v", err)
	}
	now = now.Add(time.Minute)
	if _, err := p.VerifySessionCookie(ctx, cookie); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expired cookie error = %v, want ErrInvalidSession", err)
	}
}
