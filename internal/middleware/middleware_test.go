package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	"github.com/yigit/collegeerp/internal/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"bad credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"no role", apperrors.ErrNoRole, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"disabled", apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"role mismatch", apperrors.ErrRoleMismatch, http.StatusBadRequest, dto.ErrorCodeRoleMismatch},
		{"not owner", apperrors.ErrNotOwner, http.StatusBadRequest, dto.ErrorCodeRoleMismatch},
		{"not enrolled", apperrors.ErrNotEnrolled, http.StatusBadRequest, dto.ErrorCodeResourceInvalid},
		{"admin only", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"not found", fmt.Errorf("loading: %w", apperrors.ErrCourseNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"slot taken", apperrors.NewCustomError(apperrors.ErrSlotTaken, "Monday period 1 is taken"), http.StatusConflict, dto.ErrorCodeConflict},
		{"duplicate id", apperrors.ErrDuplicateID, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"field errors", apperrors.NewValidationError("sem", "too big"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"unknown", assert.AnError, http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := ClassifyError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, detail.Code)
		})
	}

	_, detail := ClassifyError(apperrors.NewValidationError("sem", "too big"))
	assert.Equal(t, "sem", detail.Field)
	_, detail = ClassifyError(apperrors.NewCustomError(apperrors.ErrSlotTaken, "Monday period 1 is taken"))
	assert.Equal(t, "Monday period 1 is taken", detail.Message)
}

type fakeResolver struct {
	tokens map[string]*models.Principal
}

func (f fakeResolver) PrincipalForToken(_ context.Context, key string) (*models.Principal, error) {
	if p, ok := f.tokens[key]; ok {
		return p, nil
	}
	return nil, apperrors.ErrTokenInvalid
}

func (f fakeResolver) PrincipalForUser(context.Context, int64) (*models.Principal, error) {
	return nil, apperrors.ErrUnauthorized
}

func newTestRouter() *gin.Engine {
	resolver := fakeResolver{tokens: map[string]*models.Principal{
		"student-key": {UserID: 1, Role: models.RoleStudent, USN: "1CS001"},
		"teacher-key": {UserID: 2, Role: models.RoleTeacher, TeacherID: "T1"},
	}}
	m := NewAuthMiddleware(resolver, logger.Nop())

	r := gin.New()
	api := r.Group("/api", m.TokenAuth())
	api.GET("/me", RoleRequired(models.RoleStudent), func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewAPIResponse(GetPrincipal(c)))
	})
	api.GET("/admin", AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestTokenAuth(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name   string
		header string
		path   string
		status int
	}{
		{"no header", "", "/api/me", http.StatusUnauthorized},
		{"bad scheme", "Basic abc", "/api/me", http.StatusUnauthorized},
		{"unknown key", "Token nope", "/api/me", http.StatusUnauthorized},
		{"student", "Token student-key", "/api/me", http.StatusOK},
		{"bearer accepted", "Bearer student-key", "/api/me", http.StatusOK},
		{"wrong role", "Token teacher-key", "/api/me", http.StatusBadRequest},
		{"admin only", "Token teacher-key", "/api/admin", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestTokenAuthSetsPrincipal(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Token student-key")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data models.Principal `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "1CS001", body.Data.USN)
}
