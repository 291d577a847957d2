package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/pkg/auth"
	"github.com/yigit/collegeerp/internal/pkg/logger"
)

// newTestApp wires the full application on the memory driver with the demo data
func newTestApp(t *testing.T) (*gin.Engine, *Dependencies) {
	t.Helper()
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("SESSION_SECRET", "test-session-secret-0123456789abcdef")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("SERVER_MODE", "production")
	t.Setenv("LOG_LEVEL", "error")

	cfg, lgr, err := LoadConfigAndSetupLogger("testdata/missing.yaml")
	require.NoError(t, err)
	lgr = logger.Nop()

	ctx := context.Background()
	database, repos, err := SetupDatabase(ctx, cfg, lgr)
	require.NoError(t, err)
	require.Nil(t, database)

	deps, err := BuildDependencies(ctx, cfg, repos, lgr)
	require.NoError(t, err)
	SeedIfEnabled(ctx, cfg, repos, lgr)

	router, err := SetupRouter(cfg, deps, lgr)
	require.NoError(t, err)
	return router, deps
}

type apiEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func call(t *testing.T, r http.Handler, method, path, token string, body interface{}) (int, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func login(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	status, env := call(t, r, http.MethodPost, "/api/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status)
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func TestAPILogin(t *testing.T) {
	r, _ := newTestApp(t)

	status, env := call(t, r, http.MethodPost, "/api/login", "", map[string]string{"username": "1cs001", "password": "Password123!"})
	require.Equal(t, http.StatusOK, status)
	var res struct {
		Token    string `json:"token"`
		UserType string `json:"user_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, "student", res.UserType)
	assert.NotEmpty(t, res.Token)

	status, _ = call(t, r, http.MethodPost, "/api/login", "", map[string]string{"username": "1cs001", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = call(t, r, http.MethodPost, "/api/login", "", map[string]string{"username": "1cs001"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)

	status, _ = call(t, r, http.MethodGet, "/api/attendance", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = call(t, r, http.MethodPost, "/api/logout", res.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, r, http.MethodGet, "/api/attendance", res.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAPIAttendanceFlow(t *testing.T) {
	r, _ := newTestApp(t)
	teacher := login(t, r, "t001", "Password123!")
	student := login(t, r, "1cs001", "Password123!")

	status, _ := call(t, r, http.MethodGet, "/api/teacher/attendance", student, nil)
	assert.Equal(t, http.StatusBadRequest, status, "students may not use teacher endpoints")

	status, env := call(t, r, http.MethodGet, "/api/teacher/attendance", teacher, nil)
	require.Equal(t, http.StatusOK, status)
	var assigns []struct {
		AssignID int64  `json:"assign_id"`
		CourseID string `json:"course_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &assigns))
	require.Len(t, assigns, 1)
	assert.Equal(t, "CS510", assigns[0].CourseID)

	sessionsPath := fmt.Sprintf("/api/teacher/assigns/%d/sessions", assigns[0].AssignID)
	status, env = call(t, r, http.MethodPost, sessionsPath, teacher, map[string]string{"date": "2025-01-01"})
	require.Equal(t, http.StatusCreated, status)
	var session struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))

	status, _ = call(t, r, http.MethodPost, sessionsPath, teacher, map[string]string{"date": "2025-01-01"})
	assert.Equal(t, http.StatusOK, status, "reopening a date returns the existing session")

	markPath := fmt.Sprintf("/api/teacher/sessions/%d/attendance", session.ID)
	status, _ = call(t, r, http.MethodPost, markPath, teacher, map[string]interface{}{
		"records": []map[string]string{{"usn": "1CS001", "status": "Present"}},
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, r, http.MethodPost, markPath, teacher, map[string]interface{}{
		"records": []map[string]string{{"usn": "1CS001", "status": "Late"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = call(t, r, http.MethodGet, "/api/attendance", student, nil)
	require.Equal(t, http.StatusOK, status)
	var summary []struct {
		CourseID string  `json:"course_id"`
		Attended int     `json:"attended"`
		Total    int     `json:"total"`
		Percent  float64 `json:"attendance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	require.Len(t, summary, 1)
	assert.Equal(t, 1, summary[0].Attended)
	assert.Equal(t, 1, summary[0].Total)
	assert.InDelta(t, 100, summary[0].Percent, 0.001)

	status, env = call(t, r, http.MethodGet, "/api/attendance_detail/CS510", student, nil)
	require.Equal(t, http.StatusOK, status)
	var records []struct {
		CourseID string `json:"course_id"`
		Date     string `json:"date"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "CS510", records[0].CourseID)
	assert.Equal(t, "2025-01-01", records[0].Date)
	assert.Equal(t, "Present", records[0].Status)

	status, _ = call(t, r, http.MethodGet, "/api/attendance/NOPE", student, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestAPIMarksFlow(t *testing.T) {
	r, _ := newTestApp(t)
	teacher := login(t, r, "t001", "Password123!")
	student := login(t, r, "1cs001", "Password123!")

	status, env := call(t, r, http.MethodGet, "/api/teacher/marks", teacher, nil)
	require.Equal(t, http.StatusOK, status)
	var assigns []struct {
		AssignID int64 `json:"assign_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &assigns))
	require.Len(t, assigns, 1)

	status, env = call(t, r, http.MethodPost, fmt.Sprintf("/api/teacher/assigns/%d/components", assigns[0].AssignID), teacher,
		map[string]interface{}{"name": "Internal test 1", "status": true})
	require.Equal(t, http.StatusCreated, status)
	var component struct {
		ID         int64 `json:"id"`
		TotalMarks int   `json:"total_marks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &component))
	assert.Equal(t, 20, component.TotalMarks)

	marksPath := fmt.Sprintf("/api/teacher/components/%d/marks", component.ID)
	status, _ = call(t, r, http.MethodPost, marksPath, teacher, map[string]interface{}{
		"records": []map[string]interface{}{{"usn": "1CS001", "marks": 21}},
	})
	assert.Equal(t, http.StatusBadRequest, status, "above the component total")

	status, _ = call(t, r, http.MethodPost, marksPath, teacher, map[string]interface{}{
		"records": []map[string]interface{}{{"usn": "1CS001", "marks": 18}},
	})
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, r, http.MethodGet, "/api/marks_detail/CS510", student, nil)
	require.Equal(t, http.StatusOK, status)
	var detail []struct {
		Name       string   `json:"name"`
		Marks      *float64 `json:"marks"`
		TotalMarks int      `json:"total_marks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.Len(t, detail, 1)
	assert.Equal(t, "Internal test 1", detail[0].Name)
	require.NotNil(t, detail[0].Marks)
	assert.Equal(t, 18.0, *detail[0].Marks)
	assert.Equal(t, 20, detail[0].TotalMarks)
}

func TestAPIRoutesRequireToken(t *testing.T) {
	r, _ := newTestApp(t)

	routes := []struct {
		method, path string
	}{
		{http.MethodPost, "/api/logout"},
		{http.MethodGet, "/api/detail"},
		{http.MethodGet, "/api/attendance"},
		{http.MethodGet, "/api/attendance/CS510"},
		{http.MethodGet, "/api/attendance_detail/CS510"},
		{http.MethodPost, "/api/attendance/report"},
		{http.MethodGet, "/api/marks"},
		{http.MethodGet, "/api/marks/CS510"},
		{http.MethodGet, "/api/marks_detail/CS510"},
		{http.MethodGet, "/api/student/timetable"},
		{http.MethodGet, "/api/teacher/detail"},
		{http.MethodGet, "/api/teacher/attendance"},
		{http.MethodGet, "/api/teacher/attendance/CS510"},
		{http.MethodGet, "/api/teacher/marks"},
		{http.MethodGet, "/api/teacher/marks/CS510"},
		{http.MethodGet, "/api/teacher/timetable"},
		{http.MethodGet, "/api/teacher/assigns/1/sessions"},
		{http.MethodPost, "/api/teacher/assigns/1/sessions"},
		{http.MethodPut, "/api/teacher/sessions/1"},
		{http.MethodGet, "/api/teacher/sessions/1/attendance"},
		{http.MethodPost, "/api/teacher/sessions/1/attendance"},
		{http.MethodPost, "/api/teacher/assigns/1/components"},
		{http.MethodPut, "/api/teacher/components/1"},
		{http.MethodGet, "/api/teacher/components/1/marks"},
		{http.MethodPost, "/api/teacher/components/1/marks"},
		{http.MethodPost, "/api/teacher/assigns/1/times"},
		{http.MethodDelete, "/api/teacher/times/1"},
		{http.MethodGet, "/api/admin/depts"},
		{http.MethodGet, "/api/admin/depts/CS"},
		{http.MethodPost, "/api/admin/depts"},
		{http.MethodPut, "/api/admin/depts/CS"},
		{http.MethodGet, "/api/admin/classes"},
		{http.MethodGet, "/api/admin/classes/CS5A"},
		{http.MethodGet, "/api/admin/classes/CS5A/timetable"},
		{http.MethodPost, "/api/admin/classes"},
		{http.MethodPut, "/api/admin/classes/CS5A"},
		{http.MethodGet, "/api/admin/courses"},
		{http.MethodGet, "/api/admin/courses/CS510"},
		{http.MethodPost, "/api/admin/courses"},
		{http.MethodPut, "/api/admin/courses/CS510"},
		{http.MethodGet, "/api/admin/teachers"},
		{http.MethodGet, "/api/admin/teachers/T001"},
		{http.MethodPost, "/api/admin/teachers"},
		{http.MethodPut, "/api/admin/teachers/T001"},
		{http.MethodGet, "/api/admin/students"},
		{http.MethodGet, "/api/admin/students/1CS001"},
		{http.MethodPost, "/api/admin/students"},
		{http.MethodPut, "/api/admin/students/1CS001"},
		{http.MethodGet, "/api/admin/assigns"},
		{http.MethodGet, "/api/admin/assigns/1"},
		{http.MethodPost, "/api/admin/assigns"},
		{http.MethodPut, "/api/admin/assigns/1"},
		{http.MethodPost, "/api/admin/enrollments"},
		{http.MethodDelete, "/api/admin/enrollments"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			status, env := call(t, r, rt.method, rt.path, "", nil)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.NotNil(t, env.Error)

			status, _ = call(t, r, rt.method, rt.path, "not-a-real-token", nil)
			assert.Equal(t, http.StatusUnauthorized, status)
		})
	}
}

func TestAPIAdminWriteAccess(t *testing.T) {
	r, deps := newTestApp(t)

	hash, err := auth.HashPassword("Viewer123!")
	require.NoError(t, err)
	require.NoError(t, deps.Repos.Users.Create(context.Background(), &models.User{
		Username: "viewer", Password: hash, IsStaff: true, IsActive: true,
	}))

	admin := login(t, r, "admin", "Admin123!")
	viewer := login(t, r, "viewer", "Viewer123!")
	dept := map[string]string{"id": "EC", "name": "Electronics"}

	status, _ := call(t, r, http.MethodGet, "/api/admin/depts", viewer, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = call(t, r, http.MethodPost, "/api/admin/depts", viewer, dept)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = call(t, r, http.MethodPost, "/api/admin/depts", admin, dept)
	assert.Equal(t, http.StatusCreated, status)
	status, _ = call(t, r, http.MethodPost, "/api/admin/depts", admin, dept)
	assert.Equal(t, http.StatusBadRequest, status, "duplicate id")

	status, env := call(t, r, http.MethodGet, "/api/admin/students?page=1&size=10", viewer, nil)
	require.Equal(t, http.StatusOK, status)
	var students struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Pagination struct {
			TotalItems int `json:"total_items"`
			PageSize   int `json:"page_size"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &students))
	assert.Len(t, students.Items, 1)
	assert.Equal(t, 1, students.Pagination.TotalItems)
	assert.Equal(t, 10, students.Pagination.PageSize)
}

func pageRequest(r http.Handler, method, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPageSession(t *testing.T) {
	r, _ := newTestApp(t)

	w := pageRequest(r, http.MethodGet, "/attendance", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?next=%2Fattendance", w.Header().Get("Location"))

	w = pageRequest(r, http.MethodGet, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="password"`)

	w = pageRequest(r, http.MethodPost, "/login", url.Values{"username": {"1cs001"}, "password": {"nope-nope"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid username or password")

	w = pageRequest(r, http.MethodPost, "/login", url.Values{
		"username": {"1cs001"}, "password": {"Password123!"}, "next": {"/attendance"},
	}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/attendance", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = pageRequest(r, http.MethodGet, "/attendance", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Compilers")

	w = pageRequest(r, http.MethodGet, "/", nil, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/attendance", w.Header().Get("Location"))

	w = pageRequest(r, http.MethodGet, "/teacher", nil, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = pageRequest(r, http.MethodGet, "/logout", nil, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
