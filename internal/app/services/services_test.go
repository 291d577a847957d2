package services

import (
	"context"
	"math"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeerp/internal/app/auth"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/app/repositories/memory"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	pkgauth "github.com/yigit/collegeerp/internal/pkg/auth"
	"github.com/yigit/collegeerp/internal/pkg/logger"
	"github.com/yigit/collegeerp/internal/pkg/oidc"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	pkgauth.SetBcryptCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

var admin = &models.Principal{UserID: 1, Role: models.RoleAdmin, CanWrite: true}

type fixture struct {
	repos    *repositories.Repositories
	svc      *Services
	teacher  *models.Principal
	student  *models.Principal
	student2 *models.Principal
	assign   *models.Assign
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositories(memory.Open())
	authz := auth.NewAuthorizer(repos)
	log := logger.Nop()

	svc := &Services{
		Auth:       NewAuthService(repos, log),
		SSO:        NewSSOService(repos.Users, oidc.DefaultRoleMapping, log),
		Catalog:    NewCatalogService(repos, log),
		Attendance: NewAttendanceService(repos, authz, log),
		Marks:      NewMarksService(repos, authz, log),
		Timetable:  NewTimetableService(repos, authz, log),
	}

	cat := svc.Catalog
	require.NoError(t, cat.CreateDept(ctx, admin, &models.Dept{ID: "CS", Name: "Computer Science"}))
	require.NoError(t, cat.CreateClass(ctx, admin, &models.Class{ID: "CS5A", DeptID: "CS", Sem: 5, Section: "A"}))
	require.NoError(t, cat.CreateCourse(ctx, admin, &models.Course{ID: "CS510", DeptID: "CS", Name: "Compilers", Shortname: "CD"}))
	require.NoError(t, cat.CreateTeacher(ctx, admin,
		&models.Teacher{ID: "T1", DeptID: "CS", Name: "Meera Iyer", Sex: models.SexFemale},
		&models.User{Username: "t1", Password: "teacherpass"}))
	require.NoError(t, cat.CreateStudent(ctx, admin,
		&models.Student{USN: "1CS001", ClassID: "CS5A", Name: "Asha Rao", Sex: models.SexFemale},
		&models.User{Username: "1cs001", Password: "studentpass"}))
	require.NoError(t, cat.CreateStudent(ctx, admin,
		&models.Student{USN: "1CS002", ClassID: "CS5A", Name: "Ravi Kumar", Sex: models.SexMale},
		&models.User{Username: "1cs002", Password: "studentpass"}))

	assign := &models.Assign{ClassID: "CS5A", CourseID: "CS510", TeacherID: "T1"}
	require.NoError(t, cat.CreateAssign(ctx, admin, assign))

	f := &fixture{repos: repos, svc: svc, assign: assign}
	f.teacher = f.login(t, "t1", "teacherpass")
	f.student = f.login(t, "1cs001", "studentpass")
	f.student2 = f.login(t, "1cs002", "studentpass")
	return f
}

func (f *fixture) login(t *testing.T, username, password string) *models.Principal {
	t.Helper()
	res, err := f.svc.Auth.Login(context.Background(), username, password)
	require.NoError(t, err)
	return res.Principal
}

func jan(day int) time.Time {
	return time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Auth.Login(ctx, "1cs001", "studentpass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, res.Principal.Role)
	assert.Equal(t, "1CS001", res.Principal.USN)
	assert.Len(t, res.Token, 32)

	again, err := f.svc.Auth.Login(ctx, "1cs001", "studentpass")
	require.NoError(t, err)
	assert.Equal(t, res.Token, again.Token, "one key per user")

	p, err := f.svc.Auth.PrincipalForToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "1CS001", p.USN)

	_, err = f.svc.Auth.Login(ctx, "1cs001", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.svc.Auth.Login(ctx, "nobody", "whatever1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.svc.Auth.Login(ctx, "1cs001", "")
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, f.svc.Auth.Logout(ctx, p.UserID))
	_, err = f.svc.Auth.PrincipalForToken(ctx, res.Token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestLoginWithoutRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.repos.Users.Create(ctx, &models.User{Username: "orphan", Password: mustHash(t, "orphanpass"), IsActive: true}))
	_, err := f.svc.Auth.Login(ctx, "orphan", "orphanpass")
	assert.ErrorIs(t, err, apperrors.ErrNoRole)

	require.NoError(t, f.repos.Users.Create(ctx, &models.User{Username: "gone", Password: mustHash(t, "gonepass1"), IsActive: false, IsSuperuser: true}))
	_, err = f.svc.Auth.Login(ctx, "gone", "gonepass1")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := pkgauth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

func TestCreateSuperuserAndChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Auth.CreateSuperuser(ctx, "root", "root@college.edu", "short")
	assert.True(t, apperrors.IsValidation(err))

	user, err := f.svc.Auth.CreateSuperuser(ctx, "root", "root@college.edu", "rootpassword")
	require.NoError(t, err)
	assert.True(t, user.IsSuperuser)

	res, err := f.svc.Auth.Login(ctx, "root", "rootpassword")
	require.NoError(t, err)
	assert.True(t, res.Principal.CanWrite)

	require.NoError(t, f.svc.Auth.ChangePassword(ctx, "root", "anotherpassword"))
	_, err = f.svc.Auth.Login(ctx, "root", "rootpassword")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.svc.Auth.PrincipalForToken(ctx, res.Token)
	assert.Error(t, err)
}

func TestAttendanceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	att := f.svc.Attendance

	session, created, err := att.OpenSession(ctx, f.teacher, f.assign.ID, jan(1))
	require.NoError(t, err)
	assert.True(t, created)

	reopened, created, err := att.OpenSession(ctx, f.teacher, f.assign.ID, jan(1))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, session.ID, reopened.ID)

	require.NoError(t, att.Mark(ctx, f.teacher, session.ID, []models.AttendanceMark{
		{USN: "1CS001", Status: models.StatusPresent},
		{USN: "1CS002", Status: models.StatusAbsent},
	}))

	summary, err := att.Summary(ctx, f.student, "1CS001")
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, "CS510", summary[0].Course.ID)
	assert.Equal(t, 1, summary[0].Total.Attended)
	assert.Equal(t, 1, summary[0].Total.Total)
	assert.Equal(t, 100.0, summary[0].Total.Percentage())

	detail, err := att.Detail(ctx, f.student, "1CS001", "CS510")
	require.NoError(t, err)
	require.Len(t, detail, 1)
	assert.Equal(t, "2025-01-01", detail[0].Date.Format(models.DateLayout))
	assert.Equal(t, models.StatusPresent, detail[0].Status)

	// remarking the same date updates rather than duplicates
	require.NoError(t, att.Mark(ctx, f.teacher, session.ID, []models.AttendanceMark{{USN: "1CS001", Status: models.StatusAbsent}}))
	summary, err = att.Summary(ctx, f.student, "1CS001")
	require.NoError(t, err)
	assert.Equal(t, 0, summary[0].Total.Attended)
	assert.Equal(t, 1, summary[0].Total.Total)
	assert.Equal(t, 3, summary[0].Total.ClassesToAttend())

	rosters, err := att.TeacherCourseDetail(ctx, f.teacher, "CS510")
	require.NoError(t, err)
	require.Len(t, rosters, 1)
	assert.Len(t, rosters[0].Students, 2)

	overview, err := att.TeacherOverview(ctx, f.teacher)
	require.NoError(t, err)
	require.Len(t, overview, 1)
	assert.Equal(t, 1, overview[0].Held)
}

func TestAttendanceAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	att := f.svc.Attendance

	_, err := att.Summary(ctx, f.student2, "1CS001")
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	_, err = att.Detail(ctx, f.student2, "1CS001", "CS510")
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	_, err = att.Summary(ctx, f.teacher, "1CS001")
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)
	_, err = att.Summary(ctx, nil, "1CS001")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = att.Detail(ctx, f.student, "1CS001", "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)

	require.NoError(t, f.svc.Catalog.Unenroll(ctx, admin, "1CS001", "CS510"))
	_, err = att.Detail(ctx, f.student, "1CS001", "CS510")
	assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)

	summary, err := att.Summary(ctx, f.student, "1CS001")
	require.NoError(t, err)
	assert.NotNil(t, summary)
	assert.Empty(t, summary)

	session, _, err := att.OpenSession(ctx, f.teacher, f.assign.ID, jan(2))
	require.NoError(t, err)
	err = att.Mark(ctx, f.teacher, session.ID, []models.AttendanceMark{{USN: "1CS001", Status: models.StatusPresent}})
	assert.True(t, apperrors.IsValidation(err), "unenrolled students cannot be marked")

	_, err = att.TeacherCourseDetail(ctx, f.teacher, "NOPE")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestCancelSessionRecomputesTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	att := f.svc.Attendance

	first, _, err := att.OpenSession(ctx, f.teacher, f.assign.ID, jan(1))
	require.NoError(t, err)
	second, _, err := att.OpenSession(ctx, f.teacher, f.assign.ID, jan(2))
	require.NoError(t, err)
	for _, s := range []*models.AttendanceClass{first, second} {
		require.NoError(t, att.Mark(ctx, f.teacher, s.ID, []models.AttendanceMark{{USN: "1CS001", Status: models.StatusPresent}}))
	}

	cancelled, err := att.SetSessionStatus(ctx, f.teacher, second.ID, false)
	require.NoError(t, err)
	assert.False(t, cancelled.Held)

	summary, err := att.Summary(ctx, f.student, "1CS001")
	require.NoError(t, err)
	assert.Equal(t, 1, summary[0].Total.Total)

	err = att.Mark(ctx, f.teacher, second.ID, []models.AttendanceMark{{USN: "1CS001", Status: models.StatusPresent}})
	assert.ErrorIs(t, err, apperrors.ErrSessionNotHeld)

	roster, err := att.Roster(ctx, f.teacher, first.ID)
	require.NoError(t, err)
	require.Len(t, roster.Entries, 2)
	require.NotNil(t, roster.Entries[0].Status)
	assert.Equal(t, models.StatusPresent, *roster.Entries[0].Status)
	assert.Nil(t, roster.Entries[1].Status)
}

func TestRangeReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	att := f.svc.Attendance

	for _, d := range []int{1, 5, 10} {
		s, _, err := att.OpenSession(ctx, f.teacher, f.assign.ID, jan(d))
		require.NoError(t, err)
		require.NoError(t, att.Mark(ctx, f.teacher, s.ID, []models.AttendanceMark{{USN: "1CS001", Status: models.StatusPresent}}))
	}

	rows, err := att.RangeReport(ctx, f.student, "1CS001", jan(1), jan(5))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Date.Before(rows[1].Date))

	_, err = att.RangeReport(ctx, f.student, "1CS001", jan(5), jan(1))
	assert.True(t, apperrors.IsValidation(err))
}

func TestTeacherOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Catalog.CreateTeacher(ctx, admin,
		&models.Teacher{ID: "T2", DeptID: "CS", Name: "Other Teacher", Sex: models.SexMale},
		&models.User{Username: "t2", Password: "teacherpass"}))
	other := f.login(t, "t2", "teacherpass")

	_, _, err := f.svc.Attendance.OpenSession(ctx, other, f.assign.ID, jan(1))
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	_, err = f.svc.Attendance.TeacherCourseDetail(ctx, other, "CS510")
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	_, err = f.svc.Marks.CreateComponent(ctx, other, f.assign.ID, ComponentInput{Name: "Event 1"})
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)
	_, err = f.svc.Attendance.TeacherOverview(ctx, f.student)
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)
}

func TestMarks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	marks := f.svc.Marks

	component, err := marks.CreateComponent(ctx, f.teacher, f.assign.ID, ComponentInput{Name: "Internal test 1"})
	require.NoError(t, err)
	assert.Equal(t, 20, component.TotalMarks)
	assert.False(t, component.Published)

	_, err = marks.CreateComponent(ctx, f.teacher, f.assign.ID, ComponentInput{Name: "Internal test 1"})
	assert.True(t, apperrors.IsValidation(err))

	for _, bad := range []float64{25, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		err = marks.Enter(ctx, f.teacher, component.ID, []models.MarksEntry{{USN: "1CS001", Marks: bad}})
		assert.ErrorIs(t, err, apperrors.ErrMarksOutOfRange, "marks %v", bad)
	}
	sheet, err := marks.Roster(ctx, f.teacher, component.ID)
	require.NoError(t, err)
	assert.Nil(t, sheet.Scores[0].Marks, "rejected entries are not stored")
	require.NoError(t, marks.Enter(ctx, f.teacher, component.ID, []models.MarksEntry{{USN: "1CS001", Marks: 18}}))

	summary, err := marks.Summary(ctx, f.student, "1CS001")
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Empty(t, summary[0].Components, "unpublished components stay hidden")

	ten := 10
	_, err = marks.UpdateComponent(ctx, f.teacher, component.ID, ComponentInput{Name: "Internal test 1", TotalMarks: &ten, Published: true})
	assert.True(t, apperrors.IsValidation(err), "total below an entered score")

	_, err = marks.UpdateComponent(ctx, f.teacher, component.ID, ComponentInput{Name: "Internal test 1", Published: true})
	require.NoError(t, err)

	detail, err := marks.Detail(ctx, f.student, "1CS001", "CS510")
	require.NoError(t, err)
	require.Len(t, detail, 1)
	require.NotNil(t, detail[0].Marks)
	assert.Equal(t, 18.0, *detail[0].Marks)

	_, err = marks.Detail(ctx, f.student2, "1CS001", "CS510")
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	sheet, err = marks.Roster(ctx, f.teacher, component.ID)
	require.NoError(t, err)
	require.Len(t, sheet.Scores, 2)
	assert.Nil(t, sheet.Scores[1].Marks)

	sheets, err := marks.TeacherCourseDetail(ctx, f.teacher, "CS510")
	require.NoError(t, err)
	assert.Len(t, sheets, 1)
}

func TestTimetable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tt := f.svc.Timetable

	slot, created, err := tt.AddSlot(ctx, f.teacher, f.assign.ID, "monday", 1)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.Monday, slot.Day)

	_, created, err = tt.AddSlot(ctx, f.teacher, f.assign.ID, "Monday", 1)
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = tt.AddSlot(ctx, f.teacher, f.assign.ID, "Sunday", 9)
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, f.svc.Catalog.CreateCourse(ctx, admin, &models.Course{ID: "CS520", DeptID: "CS", Name: "Networks", Shortname: "CN"}))
	second := &models.Assign{ClassID: "CS5A", CourseID: "CS520", TeacherID: "T1"}
	require.NoError(t, f.svc.Catalog.CreateAssign(ctx, admin, second))
	_, _, err = tt.AddSlot(ctx, f.teacher, second.ID, "Monday", 1)
	assert.ErrorIs(t, err, apperrors.ErrSlotTaken)

	grid, err := tt.ForStudent(ctx, f.student)
	require.NoError(t, err)
	cell := grid.Row(models.Monday).Periods[0]
	require.NotNil(t, cell)
	assert.Equal(t, "CS510", cell.CourseID)
	assert.Nil(t, grid.Row(models.Tuesday).Periods[0])

	_, err = tt.ForClass(ctx, f.teacher, "CS5A")
	assert.NoError(t, err)
	_, err = tt.ForTeacher(ctx, f.student, "T1")
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)

	require.NoError(t, tt.RemoveSlot(ctx, f.teacher, slot.ID))
	grid, err = tt.ForCurrentTeacher(ctx, f.teacher)
	require.NoError(t, err)
	assert.Nil(t, grid.Row(models.Monday).Periods[0])
}

func TestReassignTeacherKeepsTeacherSlotsFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.svc.Catalog

	require.NoError(t, cat.CreateClass(ctx, admin, &models.Class{ID: "CS5B", DeptID: "CS", Sem: 5, Section: "B"}))
	require.NoError(t, cat.CreateTeacher(ctx, admin,
		&models.Teacher{ID: "T2", DeptID: "CS", Name: "Arjun Nair", Sex: models.SexMale},
		&models.User{Username: "t2", Password: "teacherpass"}))
	require.NoError(t, cat.CreateTeacher(ctx, admin,
		&models.Teacher{ID: "T3", DeptID: "CS", Name: "Divya Shetty", Sex: models.SexFemale},
		&models.User{Username: "t3", Password: "teacherpass"}))
	other := &models.Assign{ClassID: "CS5B", CourseID: "CS510", TeacherID: "T2"}
	require.NoError(t, cat.CreateAssign(ctx, admin, other))

	_, _, err := f.svc.Timetable.AddSlot(ctx, f.teacher, f.assign.ID, "Monday", 1)
	require.NoError(t, err)
	created, err := f.repos.Timetable.AddSlot(ctx,
		&models.AssignTime{AssignID: other.ID, ClassID: "CS5B", Day: models.Monday, Period: 1}, "T2")
	require.NoError(t, err)
	require.True(t, created)

	_, err = cat.ReassignTeacher(ctx, admin, other.ID, "T1")
	assert.ErrorIs(t, err, apperrors.ErrSlotTaken)
	_, err = cat.ReassignTeacher(ctx, admin, f.assign.ID, "T2")
	assert.ErrorIs(t, err, apperrors.ErrSlotTaken)

	stored, err := f.repos.Assigns.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "T2", stored.TeacherID)

	moved, err := cat.ReassignTeacher(ctx, admin, other.ID, "T3")
	require.NoError(t, err)
	assert.Equal(t, "T3", moved.TeacherID)

	moved, err = cat.ReassignTeacher(ctx, admin, f.assign.ID, "T1")
	require.NoError(t, err, "keeping the current teacher is not a clash")
	assert.Equal(t, "T1", moved.TeacherID)
}

func TestSSOSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	claims := &oidc.Claims{
		PreferredUsername: "kc-admin",
		Email:             "admin@college.edu",
		GivenName:         "Kavya",
		RealmAccess:       &oidc.RealmAccess{Roles: []string{"app-admin"}},
	}
	user, err := f.svc.SSO.SignIn(ctx, claims)
	require.NoError(t, err)
	assert.True(t, user.IsSuperuser)
	assert.False(t, user.HasUsablePassword())

	claims.RealmAccess = &oidc.RealmAccess{Roles: []string{"app-view"}}
	again, err := f.svc.SSO.SignIn(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.True(t, again.IsStaff)
	assert.False(t, again.IsSuperuser)

	claims.RealmAccess = nil
	unchanged, err := f.svc.SSO.SignIn(ctx, claims)
	require.NoError(t, err)
	assert.True(t, unchanged.IsStaff, "flags survive a token without realm roles")

	claims.Email = ""
	claims.GivenName = "  "
	kept, err := f.svc.SSO.SignIn(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "admin@college.edu", kept.Email, "empty claims keep the stored profile")
	assert.Equal(t, "Kavya", kept.FirstName)

	p, err := f.svc.Auth.PrincipalForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, p.Role)
	assert.False(t, p.CanWrite)

	_, err = f.svc.SSO.SignIn(ctx, &oidc.Claims{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCatalogValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cat := f.svc.Catalog
	viewer := &models.Principal{Role: models.RoleAdmin}

	err := cat.CreateDept(ctx, admin, &models.Dept{ID: "CS", Name: "Again"})
	assert.True(t, apperrors.IsValidation(err))

	err = cat.CreateDept(ctx, viewer, &models.Dept{ID: "EE", Name: "Electrical"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	depts, err := cat.ListDepts(ctx, viewer)
	require.NoError(t, err)
	assert.Len(t, depts, 1)

	_, err = cat.ListDepts(ctx, f.teacher)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = cat.CreateClass(ctx, admin, &models.Class{ID: "EE1A", DeptID: "EE", Sem: 1, Section: "A"})
	assert.True(t, apperrors.IsValidation(err), "unknown department")

	err = cat.CreateTeacher(ctx, admin, &models.Teacher{ID: "T9", DeptID: "CS", Name: "X", Sex: models.SexMale},
		&models.User{Username: "t9", Password: "short"})
	assert.True(t, apperrors.IsValidation(err))

	// a teacher's account cannot also own a student profile
	err = cat.CreateStudent(ctx, admin, &models.Student{USN: "1CS009", ClassID: "CS5A", Name: "Y", Sex: models.SexMale, UserID: f.teacher.UserID}, nil)
	assert.True(t, apperrors.IsValidation(err))

	err = cat.CreateAssign(ctx, admin, &models.Assign{ClassID: "CS5A", CourseID: "CS510", TeacherID: "T1"})
	assert.True(t, apperrors.IsValidation(err), "class and course already assigned")

	profile, err := cat.StudentProfile(ctx, f.student)
	require.NoError(t, err)
	assert.Equal(t, "Computer Science : 5 A", profile.Class.DisplayName())
	assert.Equal(t, "1cs001", profile.User.Username)

	tp, err := cat.TeacherProfile(ctx, f.teacher)
	require.NoError(t, err)
	assert.Equal(t, "CS", tp.Dept.ID)
}
