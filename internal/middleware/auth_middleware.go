package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/auth"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	pkgauth "github.com/yigit/collegeerp/internal/pkg/auth"
)

// Context and session keys shared by the API and the pages
const (
	PrincipalKey      = "principal"
	SessionUserKey    = "user_id"
	SessionIDTokenKey = "id_token"
)

// PrincipalResolver resolves credentials to a principal
type PrincipalResolver interface {
	PrincipalForToken(ctx context.Context, key string) (*models.Principal, error)
	PrincipalForUser(ctx context.Context, userID int64) (*models.Principal, error)
}

// AuthMiddleware authenticates API and page requests
type AuthMiddleware struct {
	resolver PrincipalResolver
	logger   zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver PrincipalResolver, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// GetPrincipal returns the principal stored by one of the auth middlewares, or nil
func GetPrincipal(c *gin.Context) *models.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Principal)
	return p
}

// TokenAuth authenticates "Authorization: Token <key>" requests
func (m *AuthMiddleware) TokenAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := pkgauth.ExtractToken(c.GetHeader("Authorization"))
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required").
				WithDetails("Authorization header missing or malformed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		p, err := m.resolver.PrincipalForToken(c.Request.Context(), key)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrUnauthorized) {
				m.logger.Warn().Err(err).Msg("Token authentication failed")
			}
			AbortWithAPIError(c, err)
			return
		}

		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// RoleRequired rejects principals acting under any other role with 400
func RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireRole(GetPrincipal(c), roles...); err != nil {
			AbortWithAPIError(c, err)
			return
		}
		c.Next()
	}
}

// AdminRequired rejects non-admin principals with 403
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireAdmin(GetPrincipal(c)); err != nil {
			AbortWithAPIError(c, err)
			return
		}
		c.Next()
	}
}

// SessionAuth authenticates page requests from the session cookie and
// redirects to the login page when that fails
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserKey).(int64)
		if !ok || userID <= 0 {
			redirectToLogin(c)
			return
		}

		p, err := m.resolver.PrincipalForUser(c.Request.Context(), userID)
		if err != nil {
			m.logger.Info().Err(err).Int64("userID", userID).Msg("Dropping session that no longer resolves to a role")
			session.Clear()
			if err := session.Save(); err != nil {
				m.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to clear stale session")
			}
			redirectToLogin(c)
			return
		}

		c.Set(PrincipalKey, p)
		c.Next()
	}
}

// PageRoleRequired sends principals acting under any other role back home
func PageRoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireRole(GetPrincipal(c), roles...); err != nil {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	target := "/login"
	if c.Request.Method == http.MethodGet && c.Request.URL.Path != "/" {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusFound, target)
	c.Abort()
}
