package pages

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/middleware"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

// safeNext keeps post-login redirects on this site
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/login") {
		return "/"
	}
	return next
}

// LoginForm shows the username/password form
func (h *Handler) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Next": safeNext(c.Query("next")), "Username": ""})
}

// Login starts a page session from a username and password
func (h *Handler) Login(c *gin.Context) {
	next := safeNext(c.PostForm("next"))
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "login.html", gin.H{
			"Next":     next,
			"Username": req.Username,
			"Error":    "Please enter a username and password",
		})
		return
	}

	p, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status, msg := http.StatusUnauthorized, "Invalid username or password"
		switch {
		case apperrors.Is(err, apperrors.ErrNoRole, apperrors.ErrAmbiguousRole):
			msg = "This account has no role in the college"
		case !apperrors.Is(err, apperrors.ErrInvalidCredentials, apperrors.ErrUnauthorized, apperrors.ErrAccountDisabled):
			h.fail(c, err)
			return
		}
		h.logger.Info().Err(err).Str("username", req.Username).Msg("Page login rejected")
		h.render(c, status, "login.html", gin.H{"Next": next, "Username": req.Username, "Error": msg})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserKey, p.UserID)
	if err := session.Save(); err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info().Int64("userID", p.UserID).Str("role", string(p.Role)).Msg("Page login")
	c.Redirect(http.StatusSeeOther, next)
}

// Logout ends the page session, and the provider session for SSO logins
func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	idToken, _ := session.Get(middleware.SessionIDTokenKey).(string)
	session.Clear()
	if err := session.Save(); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to clear session")
	}

	if idToken != "" && h.provider != nil {
		if target := h.provider.EndSessionURL(idToken); target != "" {
			c.Redirect(http.StatusFound, target)
			return
		}
	}
	c.Redirect(http.StatusFound, "/login")
}

// Home dispatches to the landing page of the caller's role
func (h *Handler) Home(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	switch p.Role {
	case models.RoleAdmin:
		c.Redirect(http.StatusFound, "/admin")
	case models.RoleTeacher:
		c.Redirect(http.StatusFound, "/teacher")
	default:
		c.Redirect(http.StatusFound, "/attendance")
	}
}
