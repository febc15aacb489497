package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"prepwise/internal/gateway/entity"
	userrepo "prepwise/internal/gateway/repository/user"
	"prepwise/internal/identity"
	"prepwise/internal/logging"
)

// SessionDuration is the lifetime of a session cookie.
const SessionDuration = 7 * 24 * time.Hour

const (
	MsgUserExists     = "User already exists. Please sign in."
	MsgAccountCreated = "Account created successfully. Please sign in."
	MsgEmailInUse     = "This email is already in use"
	MsgSignUpFailed   = "Failed to create account. Please try again."
	MsgUnknownUser    = "User does not exist. Create an account."
	MsgSignInFailed   = "Failed to log into account. Please try again."
	MsgSignedIn       = "Signed in successfully."
)

// Result is the user-facing outcome of an auth action. Failures are values,
// not errors.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SignUpParams struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SignInParams struct {
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type Service struct {
	idp   identity.Provider
	users userrepo.Store
}

func New(idp identity.Provider, users userrepo.Store) *Service {
	return &Service{idp: idp, users: users}
}

// SignUp mirrors a freshly created credential into a profile document.
// An existing profile is never overwritten.
func (s *Service) SignUp(ctx context.Context, p SignUpParams) Result {
	log := logging.Logger(ctx)
	u := entity.NewUser(p.UID, p.Name, p.Email)
	if u.ID.IsZero() {
		return Result{Message: MsgSignUpFailed}
	}
	if u.Email != "" {
		owner, err := s.idp.UserIDByEmail(ctx, u.Email)
		switch {
		case err == nil && owner != u.ID.String():
			return Result{Message: MsgEmailInUse}
		case err != nil && !errors.Is(err, identity.ErrUserNotFound):
			log.Error("sign-up email lookup failed", zap.Error(err))
			return Result{Message: MsgSignUpFailed}
		}
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrAlreadyExists) {
			return Result{Message: MsgUserExists}
		}
		log.Error("creating user failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		return Result{Message: MsgSignUpFailed}
	}
	log.Info("user signed up", zap.String("user_id", u.ID.String()))
	return Result{Success: true, Message: MsgAccountCreated}
}

// SignIn returns the session cookie value on success.
func (s *Service) SignIn(ctx context.Context, p SignInParams) (Result, string) {
	log := logging.Logger(ctx)
	email := strings.TrimSpace(p.Email)
	if _, err := s.idp.UserIDByEmail(ctx, email); err != nil {
		if errors.Is(err, identity.ErrUserNotFound) {
			return Result{Message: MsgUnknownUser}, ""
		}
		log.Error("sign-in lookup failed", zap.Error(err))
		return Result{Message: MsgSignInFailed}, ""
	}
	cookie, err := s.idp.CreateSessionCookie(ctx, p.IDToken, SessionDuration)
	if err != nil {
		log.Error("creating session cookie failed", zap.Error(err))
		return Result{Message: MsgSignInFailed}, ""
	}
	return Result{Success: true, Message: MsgSignedIn}, cookie
}

// CurrentUser resolves a session cookie to a profile. Any failure yields nil.
func (s *Service) CurrentUser(ctx context.Context, cookie string) *entity.User {
	if strings.TrimSpace(cookie) == "" {
		return nil
	}
	uid, err := s.idp.VerifySessionCookie(ctx, cookie)
	if err != nil {
		logging.Logger(ctx).Debug("session rejected", zap.Error(err))
		return nil
	}
	u, err := s.users.Get(ctx, entity.NormalizeUserID(uid))
	if err != nil {
		if !errors.Is(err, userrepo.ErrNotFound) {
			logging.Logger(ctx).Warn("loading session user failed", zap.String("user_id", uid), zap.Error(err))
		}
		return nil
	}
	return &u
}

func (s *Service) IsAuthenticated(ctx context.Context, cookie string) bool {
	return s.CurrentUser(ctx, cookie) != nil
}
