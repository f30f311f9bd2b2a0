package service

import (
	"context"

	"courseforge/internal/client"
	"courseforge/internal/models"
	"courseforge/internal/store"
	"courseforge/pkg/logger"
	"courseforge/pkg/validator"
)

// AuthService drives the backend auth flows and owns the in-process session.
type AuthService struct {
	backend AuthBackend
	session *client.Session
	store   *store.CourseStore
}

func NewAuthService(authBackend AuthBackend, session *client.Session, courseStore *store.CourseStore) *AuthService {
	s := &AuthService{
		backend: authBackend,
		session: session,
		store:   courseStore,
	}

	// A failed token refresh invalidates everything derived from the session.
	session.OnExpired(func() {
		logger.Info("Session expired, dropping local state", nil)
		courseStore.Reset()
	})

	return s
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if !validator.ValidateEmail(req.Email) {
		return nil, newValidationError("a valid email is required")
	}

	result, err := s.backend.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	s.session.SetTokens(result.AccessToken, result.RefreshToken)
	return &result.User, nil
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) error {
	if !validator.ValidateEmail(req.Email) {
		return newValidationError("a valid email is required")
	}
	if ok, msg := validator.ValidatePassword(req.Password); !ok {
		return newValidationError("%s", msg)
	}
	return s.backend.Register(ctx, req)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return newValidationError("verification token is required")
	}
	return s.backend.VerifyEmail(ctx, token)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if !validator.ValidateEmail(email) {
		return newValidationError("a valid email is required")
	}
	return s.backend.ForgotPassword(ctx, email)
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if req.Token == "" {
		return newValidationError("reset token is required")
	}
	if req.Password != req.ConfirmPassword {
		return newValidationError("passwords do not match")
	}
	if ok, msg := validator.ValidatePassword(req.Password); !ok {
		return newValidationError("%s", msg)
	}
	return s.backend.ResetPassword(ctx, req)
}

func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	return s.backend.Profile(ctx)
}

// Logout clears local state first, then tells the backend; a failed remote
// logout does not resurrect the session.
func (s *AuthService) Logout(ctx context.Context) error {
	s.session.Clear()
	s.store.Reset()

	if err := s.backend.Logout(ctx); err != nil {
		logger.Warn("Remote logout failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}
