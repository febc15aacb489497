package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"prepwise/internal/logging"
)

type FirebaseConfig struct {
	ProjectID       string
	CredentialsFile string
}

// FirebaseProvider implements Provider with the Firebase Admin SDK.
type FirebaseProvider struct {
	app  *firebase.App
	auth *auth.Client
}

func NewFirebaseProvider(ctx context.Context, cfg FirebaseConfig) (*FirebaseProvider, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, fmt.Errorf("firebase project id is required")
	}
	var opts []option.ClientOption
	if f := strings.TrimSpace(cfg.CredentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	ac, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &FirebaseProvider{app: app, auth: ac}, nil
}

// Firestore opens a Firestore client sharing the app credentials.
func (p *FirebaseProvider) Firestore(ctx context.Context) (*firestore.Client, error) {
	return p.app.Firestore(ctx)
}

func (p *FirebaseProvider) UserIDByEmail(ctx context.Context, email string) (string, error) {
	rec, err := p.auth.GetUserByEmail(ctx, email)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return rec.UID, nil
}

func (p *FirebaseProvider) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	return p.auth.SessionCookie(ctx, idToken, expiresIn)
}

func (p *FirebaseProvider) VerifySessionCookie(ctx context.Context, cookie string) (string, error) {
	tok, err := p.auth.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		logging.Logger(ctx).Debug("session cookie rejected", zap.Error(err))
		return "", ErrInvalidSession
	}
	return tok.UID, nil
}
