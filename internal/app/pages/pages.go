// Package pages serves the server-rendered HTML interface. Pages share the
// services of the JSON API and authenticate through the session cookie.
package pages

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/middleware"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	"github.com/yigit/collegeerp/internal/pkg/oidc"
	"github.com/yigit/collegeerp/internal/pkg/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
		"marks": func(m *float64) string {
			if m == nil {
				return "-"
			}
			return strconv.FormatFloat(*m, 'f', -1, 64)
		},
		"date": func(d interface{ Format(string) string }) string {
			return d.Format(models.DateLayout)
		},
		"periodLabel": func(i int) string {
			if i < 0 || i >= len(models.PeriodLabels) {
				return ""
			}
			return models.PeriodLabels[i]
		},
		// Both lookups tolerate a missing map in the page data
		"fieldError": func(errs map[string]string, name string) string {
			return errs[name]
		},
		"value": func(values map[string]string, name string) string {
			return values[name]
		},
	}).ParseFS(templateFS, "templates/*.html")
}

// Handler renders every session-authenticated page
type Handler struct {
	auth       services.AuthService
	catalog    services.CatalogService
	attendance services.AttendanceService
	marks      services.MarksService
	timetable  services.TimetableService
	provider   oidc.Authenticator
	resources  map[string]*adminResource
	logger     zerolog.Logger
}

// NewHandler creates the page handler. provider may be nil when single
// sign-on is disabled.
func NewHandler(svc *services.Services, provider oidc.Authenticator, logger zerolog.Logger) *Handler {
	h := &Handler{
		auth:       svc.Auth,
		catalog:    svc.Catalog,
		attendance: svc.Attendance,
		marks:      svc.Marks,
		timetable:  svc.Timetable,
		provider:   provider,
		logger:     logger,
	}
	h.resources = h.adminResources()
	return h
}

// render adds the caller and pending flash messages to data
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Principal"] = middleware.GetPrincipal(c)
	data["SSOEnabled"] = h.provider != nil

	session := sessions.Default(c)
	if flashes := session.Flashes(); len(flashes) > 0 {
		data["Flashes"] = flashes
		if err := session.Save(); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to save session after reading flashes")
		}
	}
	c.HTML(status, name, data)
}

// redirect stores an optional flash message and sends the browser to target
func (h *Handler) redirect(c *gin.Context, target, flash string) {
	if flash != "" {
		session := sessions.Default(c)
		session.AddFlash(flash)
		if err := session.Save(); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to save flash message")
		}
	}
	c.Redirect(http.StatusSeeOther, target)
}

// fail maps a service error onto the page flow: unauthenticated callers go
// to the login page, wrong-role and not-owned requests go home, unknown
// records get the 404 page.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrUnauthorized, apperrors.ErrNoRole, apperrors.ErrAmbiguousRole, apperrors.ErrAccountDisabled):
		c.Redirect(http.StatusFound, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
	case apperrors.Is(err, apperrors.ErrRoleMismatch, apperrors.ErrNotOwner, apperrors.ErrPermissionDenied):
		h.redirect(c, "/", errorText(err))
	case apperrors.Is(err, apperrors.ErrNotEnrolled, apperrors.ErrBadRequest):
		h.render(c, http.StatusBadRequest, "error.html", gin.H{"Title": "Bad request", "Message": errorText(err)})
	case apperrors.IsNotFound(err):
		h.render(c, http.StatusNotFound, "error.html", gin.H{"Title": "Not found", "Message": errorText(err)})
	default:
		h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Page request failed")
		h.render(c, http.StatusInternalServerError, "error.html", gin.H{"Title": "Server error", "Message": "Something went wrong"})
	}
}

// formErrors extracts per-field messages from binding and service errors
func formErrors(err error) (map[string]string, bool) {
	if fields, ok := validation.Translate(err); ok {
		return fields, true
	}
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) && vErr.HasErrors() {
		return vErr.Fields, true
	}
	if apperrors.IsValidation(err) || errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrSlotTaken) {
		return map[string]string{"": errorText(err)}, true
	}
	return nil, false
}

func errorText(err error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) && custom.Message != "" {
		return custom.Message
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewResourceNotFoundError(fmt.Sprintf("No such %s", strings.ReplaceAll(name, "_", " ")))
	}
	return id, nil
}
