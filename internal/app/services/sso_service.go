package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	"github.com/yigit/collegeerp/internal/pkg/oidc"
)

// SSOService turns identity provider claims into a local user
type SSOService interface {
	SignIn(ctx context.Context, claims *oidc.Claims) (*models.User, error)
}

type ssoServiceImpl struct {
	users   repositories.UserRepository
	mapping oidc.RoleMapping
	logger  zerolog.Logger
}

// NewSSOService creates a new SSOService
func NewSSOService(users repositories.UserRepository, mapping oidc.RoleMapping, logger zerolog.Logger) SSOService {
	return &ssoServiceImpl{
		users:   users,
		mapping: mapping,
		logger:  logger,
	}
}

// SignIn provisions the user on first login and refreshes its profile and
// privilege flags on every login. Provisioned users get no usable password.
func (s *ssoServiceImpl) SignIn(ctx context.Context, claims *oidc.Claims) (*models.User, error) {
	if claims == nil {
		return nil, apperrors.ErrUnauthorized
	}
	username := claims.Username()
	if username == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrUnauthorized, "identity provider sent no preferred_username")
	}

	user, err := s.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		user = &models.User{Username: username, IsActive: true}
		applyClaims(user, claims, s.mapping)
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("error provisioning user: %w", err)
		}
		s.logger.Info().Int64("userID", user.ID).Str("username", username).Msg("User provisioned from SSO")
	case err != nil:
		return nil, fmt.Errorf("error loading user: %w", err)
	default:
		applyClaims(user, claims, s.mapping)
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("error updating user: %w", err)
		}
	}

	if !user.IsActive {
		s.logger.Warn().Int64("userID", user.ID).Msg("SSO login refused for inactive user")
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Could not record last login")
	}
	return user, nil
}

// applyClaims copies non-empty profile claims and the mapped privilege flags onto user.
// Providers omit unset attributes, so an empty claim keeps the stored value.
func applyClaims(user *models.User, claims *oidc.Claims, mapping oidc.RoleMapping) {
	if v := strings.TrimSpace(claims.Email); v != "" {
		user.Email = v
	}
	if v := strings.TrimSpace(claims.GivenName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(claims.FamilyName); v != "" {
		user.LastName = v
	}
	if priv, ok := oidc.MapPrivileges(*claims, mapping); ok {
		user.IsStaff = priv.IsStaff
		user.IsSuperuser = priv.IsSuperuser
	}
}
