package pages

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories/memory"
	"github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/middleware"
	pkgauth "github.com/yigit/collegeerp/internal/pkg/auth"
	"github.com/yigit/collegeerp/internal/pkg/logger"
	"github.com/yigit/collegeerp/internal/pkg/oidc"
	"github.com/yigit/collegeerp/internal/pkg/validation"
	"github.com/yigit/collegeerp/internal/seed"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	pkgauth.SetBcryptCost(bcrypt.MinCost)
	if err := validation.Setup(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeProvider hands out fixed claims for the code "good"
type fakeProvider struct {
	claims *oidc.Claims
}

func (f *fakeProvider) AuthCodeURL(state, nonce string) string {
	return "https://sso.example.edu/auth?state=" + url.QueryEscape(state) + "&nonce=" + url.QueryEscape(nonce)
}

func (f *fakeProvider) Exchange(_ context.Context, code, _ string) (*oidc.Claims, string, error) {
	if code != "good" {
		return nil, "", errors.New("invalid_grant")
	}
	return f.claims, "raw-id-token", nil
}

func (f *fakeProvider) EndSessionURL(idTokenHint string) string {
	return "https://sso.example.edu/logout?id_token_hint=" + idTokenHint
}

func newTestRouter(t *testing.T, provider *fakeProvider) *gin.Engine {
	t.Helper()
	repos := memory.NewRepositories(memory.Open())
	require.NoError(t, seed.CreateDefaultData(context.Background(), repos, seed.DefaultOptions, logger.Nop()))

	svc := services.NewServices(repos, oidc.DefaultRoleMapping, logger.Nop())
	h := NewHandler(svc, provider, logger.Nop())
	sso := NewSSOHandler(provider, pkgauth.NewStateService(pkgauth.StateConfig{
		SecretKey: "state-secret",
		TTL:       time.Minute,
		Issuer:    "http://localhost:8080",
	}), svc, logger.Nop())
	authMiddleware := middleware.NewAuthMiddleware(svc.Auth, logger.Nop())

	tmpl, err := Templates()
	require.NoError(t, err)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("session-secret"))))
	r.SetHTMLTemplate(tmpl)

	r.GET("/login", h.LoginForm)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)
	r.GET("/oidc/login", sso.Login)
	r.GET("/oidc/callback", sso.Callback)

	site := r.Group("", authMiddleware.SessionAuth())
	site.GET("/", h.Home)
	site.GET("/attendance", middleware.PageRoleRequired(models.RoleStudent), h.StudentAttendance)

	admin := site.Group("/admin", middleware.PageRoleRequired(models.RoleAdmin))
	admin.GET("/depts", h.AdminList("depts"))
	admin.POST("/depts/new", h.AdminCreate("depts"))
	return r
}

func do(r http.Handler, method, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginAs(t *testing.T, r http.Handler, username, password string) []*http.Cookie {
	t.Helper()
	w := do(r, http.MethodPost, "/login", url.Values{"username": {username}, "password": {password}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	return w.Result().Cookies()
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/marks", safeNext("/marks"))
	assert.Equal(t, "/", safeNext(""))
	assert.Equal(t, "/", safeNext("https://evil.example.com"))
	assert.Equal(t, "/", safeNext("//evil.example.com"))
	assert.Equal(t, "/", safeNext("/login?next=/marks"))
}

func TestHomeDispatchesByRole(t *testing.T) {
	r := newTestRouter(t, &fakeProvider{})

	tests := []struct {
		username, password, location string
	}{
		{"admin", "Admin123!", "/admin"},
		{"t001", "Password123!", "/teacher"},
		{"1cs001", "Password123!", "/attendance"},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			cookies := loginAs(t, r, tt.username, tt.password)
			w := do(r, http.MethodGet, "/", nil, cookies)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}
}

func TestAdminCreateForm(t *testing.T) {
	r := newTestRouter(t, &fakeProvider{})
	cookies := loginAs(t, r, "admin", "Admin123!")

	w := do(r, http.MethodPost, "/admin/depts/new", url.Values{"id": {"ME"}}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `value="ME"`, "rejected forms keep what was typed")

	w = do(r, http.MethodPost, "/admin/depts/new", url.Values{"id": {"ME"}, "name": {"Mechanical"}}, cookies)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/depts", w.Header().Get("Location"))

	w = do(r, http.MethodPost, "/admin/depts/new", url.Values{"id": {"ME"}, "name": {"Mechanical"}}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code, "duplicate id")

	w = do(r, http.MethodGet, "/admin/depts", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mechanical")
	assert.Contains(t, w.Body.String(), "Computer Science")

	student := loginAs(t, r, "1cs001", "Password123!")
	w = do(r, http.MethodGet, "/admin/depts", nil, student)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func startSSO(t *testing.T, r http.Handler, next string) string {
	t.Helper()
	w := do(r, http.MethodGet, "/oidc/login?next="+url.QueryEscape(next), nil, nil)
	require.Equal(t, http.StatusFound, w.Code)
	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "sso.example.edu", loc.Host)
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestSSOCallback(t *testing.T) {
	provider := &fakeProvider{claims: &oidc.Claims{Subject: "abc", PreferredUsername: "1cs001", Email: "asha@college.edu"}}
	r := newTestRouter(t, provider)

	state := startSSO(t, r, "/attendance")
	w := do(r, http.MethodGet, "/oidc/callback?code=good&state="+url.QueryEscape(state), nil, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/attendance", w.Header().Get("Location"))
	cookies := w.Result().Cookies()

	w = do(r, http.MethodGet, "/attendance", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Compilers")

	w = do(r, http.MethodGet, "/logout", nil, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://sso.example.edu/logout?id_token_hint=raw-id-token", w.Header().Get("Location"))
}

func TestSSOCallbackRejects(t *testing.T) {
	provider := &fakeProvider{claims: &oidc.Claims{Subject: "xyz", PreferredUsername: "outsider"}}
	r := newTestRouter(t, provider)

	tests := []struct {
		name  string
		query string
	}{
		{"provider error", "error=access_denied"},
		{"forged state", "code=good&state=not-a-state"},
		{"bad code", "code=bad&state=" + url.QueryEscape(startSSO(t, r, "/"))},
		{"no role", "code=good&state=" + url.QueryEscape(startSSO(t, r, "/"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/oidc/callback?"+tt.query, nil, nil)
			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/login", w.Header().Get("Location"))
		})
	}
}
