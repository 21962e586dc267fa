package auth

import (
	"context"

	"veil/internal/model"

	"go.uber.org/zap"
)

// Provider is the external identity capability: sign-in, sign-out, and the
// current-user observation. No other contract is assumed.
type Provider interface {
	SignIn(ctx context.Context) (*model.AuthUser, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (*model.AuthUser, error)
}

// Session wraps the identity provider. Provider failures are logged and then
// propagated wrapped in AuthProviderError; they are never swallowed here.
//
// The wallet session has no awareness of auth state. Gating wallet access on
// authentication is the router's job, which keeps the wallet session testable
// on its own.
type Session struct {
	provider Provider
	logger   *zap.Logger
}

// NewSession creates an auth session over the given provider.
func NewSession(provider Provider, logger *zap.Logger) *Session {
	return &Session{provider: provider, logger: logger}
}

// SignIn delegates to the provider and returns the signed-in user.
func (s *Session) SignIn(ctx context.Context) (*model.AuthUser, error) {
	user, err := s.provider.SignIn(ctx)
	if err != nil {
		s.logger.Error("sign-in failed", zap.Error(err))
		return nil, &model.AuthProviderError{Op: "sign-in", Err: err}
	}
	s.logger.Info("signed in", zap.String("user", user.ID))
	return user, nil
}

// SignOut delegates to the provider.
func (s *Session) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Error("sign-out failed", zap.Error(err))
		return &model.AuthProviderError{Op: "sign-out", Err: err}
	}
	s.logger.Info("signed out")
	return nil
}

// CurrentUser reflects the provider's current-user state. A nil user with a
// nil error means no one is signed in.
func (s *Session) CurrentUser(ctx context.Context) (*model.AuthUser, error) {
	user, err := s.provider.CurrentUser(ctx)
	if err != nil {
		s.logger.Error("current-user lookup failed", zap.Error(err))
		return nil, &model.AuthProviderError{Op: "current-user", Err: err}
	}
	return user, nil
}

// IsAuthenticated reports whether the provider has a current user. Provider
// failures count as not authenticated.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	user, err := s.CurrentUser(ctx)
	return err == nil && user != nil
}
