package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/auth"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	pkgauth "github.com/yigit/collegeerp/internal/pkg/auth"
)

// MinPasswordLength is the shortest password accepted for a local account
const MinPasswordLength = 8

// LoginResult is what a successful API login hands back
type LoginResult struct {
	Token     string
	Principal *models.Principal
}

// AuthService handles password login, API tokens and principal resolution
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Authenticate checks credentials for a page login without issuing a token
	Authenticate(ctx context.Context, username, password string) (*models.Principal, error)
	Logout(ctx context.Context, userID int64) error
	PrincipalForToken(ctx context.Context, key string) (*models.Principal, error)
	PrincipalForUser(ctx context.Context, userID int64) (*models.Principal, error)
	CreateSuperuser(ctx context.Context, username, email, password string) (*models.User, error)
	ChangePassword(ctx context.Context, username, password string) error
}

type authServiceImpl struct {
	users    repositories.UserRepository
	tokens   repositories.TokenRepository
	teachers repositories.TeacherRepository
	students repositories.StudentRepository
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(repos *repositories.Repositories, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:    repos.Users,
		tokens:   repos.Tokens,
		teachers: repos.Teachers,
		students: repos.Students,
		logger:   logger,
	}
}

// ValidatePassword enforces the local password policy
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperrors.NewValidationError("password", fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}
	return nil
}

func (s *authServiceImpl) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, p, err := s.verify(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GetOrCreate(ctx, user.ID, pkgauth.NewTokenKey())
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(p.Role)).Msg("API login")
	return &LoginResult{Token: token.Key, Principal: p}, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, username, password string) (*models.Principal, error) {
	_, p, err := s.verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("userID", p.UserID).Str("role", string(p.Role)).Msg("Page login")
	return p, nil
}

// verify checks the credentials, resolves the role and records the login
func (s *authServiceImpl) verify(ctx context.Context, username, password string) (*models.User, *models.Principal, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		vErr := &apperrors.ValidationError{}
		if username == "" {
			vErr.Add("username", "username is a required field")
		}
		if password == "" {
			vErr.Add("password", "password is a required field")
		}
		return nil, nil, vErr
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}
	if !user.HasUsablePassword() || !pkgauth.CheckPassword(user.Password, password) {
		s.logger.Warn().Str("username", username).Msg("Failed login attempt")
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	p, err := s.resolve(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Could not record last login")
	}
	return user, p, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, userID int64) error {
	if err := s.tokens.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	s.logger.Info().Int64("userID", userID).Msg("Token revoked")
	return nil
}

func (s *authServiceImpl) PrincipalForToken(ctx context.Context, key string) (*models.Principal, error) {
	if key == "" {
		return nil, apperrors.ErrTokenNotFound
	}
	token, err := s.tokens.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, fmt.Errorf("error loading token: %w", err)
	}
	return s.PrincipalForUser(ctx, token.UserID)
}

func (s *authServiceImpl) PrincipalForUser(ctx context.Context, userID int64) (*models.Principal, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return s.resolve(ctx, user)
}

// resolve looks up the optional profiles of user and maps them to one role
func (s *authServiceImpl) resolve(ctx context.Context, user *models.User) (*models.Principal, error) {
	teacher, err := s.teachers.GetByUserID(ctx, user.ID)
	if teacher, err = optionalProfile(teacher, err, apperrors.ErrTeacherNotFound); err != nil {
		return nil, fmt.Errorf("error loading teacher profile: %w", err)
	}

	student, err := s.students.GetByUserID(ctx, user.ID)
	if student, err = optionalProfile(student, err, apperrors.ErrStudentNotFound); err != nil {
		return nil, fmt.Errorf("error loading student profile: %w", err)
	}

	p, err := auth.ResolvePrincipal(user, teacher, student)
	if err != nil {
		if errors.Is(err, apperrors.ErrAmbiguousRole) {
			s.logger.Error().Int64("userID", user.ID).Msg("User owns both a teacher and a student profile")
		}
		return nil, err
	}
	return p, nil
}

func (s *authServiceImpl) CreateSuperuser(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.NewValidationError("username", "username is a required field")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    username,
		Email:       strings.TrimSpace(email),
		Password:    hash,
		IsStaff:     true,
		IsSuperuser: true,
		IsActive:    true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("username", username).Msg("Superuser created")
	return user, nil
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, username, password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}

	hash, err := pkgauth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("error saving password: %w", err)
	}
	// existing API keys stop working once the password changes
	if err := s.tokens.DeleteByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Password changed")
	return nil
}
