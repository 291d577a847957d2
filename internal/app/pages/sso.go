package pages

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/middleware"
	pkgauth "github.com/yigit/collegeerp/internal/pkg/auth"
	"github.com/yigit/collegeerp/internal/pkg/oidc"
)

// SSOHandler runs the OpenID Connect authorization code flow
type SSOHandler struct {
	provider oidc.Authenticator
	states   *pkgauth.StateService
	sso      services.SSOService
	auth     services.AuthService
	logger   zerolog.Logger
}

// NewSSOHandler creates a new SSOHandler
func NewSSOHandler(provider oidc.Authenticator, states *pkgauth.StateService, svc *services.Services, logger zerolog.Logger) *SSOHandler {
	return &SSOHandler{
		provider: provider,
		states:   states,
		sso:      svc.SSO,
		auth:     svc.Auth,
		logger:   logger,
	}
}

// Login redirects the browser to the provider
func (h *SSOHandler) Login(c *gin.Context) {
	state, nonce, err := h.states.Issue(safeNext(c.Query("next")))
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to issue SSO state")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state, nonce))
}

// Callback completes the flow and starts a page session for the signed-in user
func (h *SSOHandler) Callback(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		h.logger.Info().Str("error", errParam).Str("description", c.Query("error_description")).Msg("Provider refused SSO login")
		h.reject(c, "Single sign-on was cancelled")
		return
	}

	state, err := h.states.Verify(c.Query("state"))
	if err != nil {
		h.logger.Warn().Err(err).Msg("Rejected SSO callback with invalid state")
		h.reject(c, "Single sign-on expired, please try again")
		return
	}

	claims, rawIDToken, err := h.provider.Exchange(c.Request.Context(), c.Query("code"), state.Nonce)
	if err != nil {
		h.logger.Warn().Err(err).Msg("SSO code exchange failed")
		h.reject(c, "Single sign-on failed")
		return
	}

	user, err := h.sso.SignIn(c.Request.Context(), claims)
	if err != nil {
		h.logger.Info().Err(err).Str("username", claims.Username()).Msg("SSO sign-in rejected")
		h.reject(c, "This account cannot sign in")
		return
	}
	// Provisioned users may not own a profile yet; they still need a role
	if _, err := h.auth.PrincipalForUser(c.Request.Context(), user.ID); err != nil {
		h.logger.Info().Err(err).Int64("userID", user.ID).Msg("SSO user has no role")
		h.reject(c, "This account has no role in the college")
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserKey, user.ID)
	session.Set(middleware.SessionIDTokenKey, rawIDToken)
	if err := session.Save(); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save SSO session")
		h.reject(c, "Single sign-on failed")
		return
	}
	h.logger.Info().Int64("userID", user.ID).Str("username", user.Username).Msg("SSO login")
	c.Redirect(http.StatusSeeOther, safeNext(state.Next))
}

func (h *SSOHandler) reject(c *gin.Context, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg)
	if err := session.Save(); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to save SSO rejection flash")
	}
	c.Redirect(http.StatusSeeOther, "/login")
}
