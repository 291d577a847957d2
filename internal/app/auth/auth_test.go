package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories/memory"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

func TestResolvePrincipal(t *testing.T) {
	active := &models.User{ID: 1, Username: "u", IsActive: true}
	teacher := &models.Teacher{ID: "T1", Name: "Meera"}
	student := &models.Student{USN: "S1", Name: "Asha"}

	tests := []struct {
		name    string
		user    *models.User
		teacher *models.Teacher
		student *models.Student
		role    models.Role
		write   bool
		err     error
	}{
		{"no user", nil, nil, nil, "", false, apperrors.ErrUnauthorized},
		{"inactive", &models.User{ID: 2, IsActive: false, IsSuperuser: true}, nil, nil, "", false, apperrors.ErrAccountDisabled},
		{"superuser", &models.User{ID: 3, IsActive: true, IsSuperuser: true}, nil, nil, models.RoleAdmin, true, nil},
		{"staff is read-only admin", &models.User{ID: 4, IsActive: true, IsStaff: true}, teacher, nil, models.RoleAdmin, false, nil},
		{"teacher", active, teacher, nil, models.RoleTeacher, false, nil},
		{"student", active, nil, student, models.RoleStudent, false, nil},
		{"both profiles", active, teacher, student, "", false, apperrors.ErrAmbiguousRole},
		{"no profile", active, nil, nil, "", false, apperrors.ErrNoRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ResolvePrincipal(tt.user, tt.teacher, tt.student)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, p.Role)
			assert.Equal(t, tt.write, p.CanWrite)
		})
	}

	p, err := ResolvePrincipal(active, teacher, nil)
	require.NoError(t, err)
	assert.Equal(t, "T1", p.TeacherID)
	assert.Empty(t, p.USN)
}

func TestGuards(t *testing.T) {
	admin := &models.Principal{Role: models.RoleAdmin, CanWrite: true}
	viewer := &models.Principal{Role: models.RoleAdmin}
	teacher := &models.Principal{Role: models.RoleTeacher, TeacherID: "T1"}
	student := &models.Principal{Role: models.RoleStudent, USN: "S1"}

	assert.ErrorIs(t, RequireAdmin(nil), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, RequireAdmin(teacher), apperrors.ErrPermissionDenied)
	assert.NoError(t, RequireAdmin(viewer))
	assert.ErrorIs(t, RequireAdminWrite(viewer), apperrors.ErrPermissionDenied)
	assert.NoError(t, RequireAdminWrite(admin))

	assert.NoError(t, RequireStudentAccess(student, "S1"))
	assert.ErrorIs(t, RequireStudentAccess(student, "S2"), apperrors.ErrNotOwner)
	assert.ErrorIs(t, RequireStudentAccess(teacher, "S1"), apperrors.ErrRoleMismatch)
	assert.NoError(t, RequireStudentAccess(viewer, "S1"))
	assert.ErrorIs(t, RequireStudentAccess(nil, "S1"), apperrors.ErrUnauthorized)

	own := &models.Assign{TeacherID: "T1"}
	other := &models.Assign{TeacherID: "T2"}
	assert.NoError(t, RequireAssignOwner(teacher, own))
	assert.ErrorIs(t, RequireAssignOwner(teacher, other), apperrors.ErrNotOwner)
	assert.ErrorIs(t, RequireAssignOwner(student, own), apperrors.ErrRoleMismatch)
	assert.NoError(t, RequireAssignManager(admin, other))
	assert.ErrorIs(t, RequireAssignManager(viewer, other), apperrors.ErrPermissionDenied)
}

func TestAuthorizerOwnership(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositories(memory.Open())

	require.NoError(t, repos.Depts.Create(ctx, &models.Dept{ID: "CS", Name: "Computer Science"}))
	require.NoError(t, repos.Classes.Create(ctx, &models.Class{ID: "CS5A", DeptID: "CS", Sem: 5, Section: "A"}))
	require.NoError(t, repos.Courses.Create(ctx, &models.Course{ID: "CS510", DeptID: "CS", Name: "Compilers"}))
	require.NoError(t, repos.Teachers.Create(ctx, &models.Teacher{ID: "T1", DeptID: "CS"}, &models.User{Username: "t1", IsActive: true}))
	require.NoError(t, repos.Teachers.Create(ctx, &models.Teacher{ID: "T2", DeptID: "CS"}, &models.User{Username: "t2", IsActive: true}))
	assign := &models.Assign{ClassID: "CS5A", CourseID: "CS510", TeacherID: "T1"}
	require.NoError(t, repos.Assigns.Create(ctx, assign))

	session, _, err := repos.Attendance.OpenSession(ctx, assign.ID, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	component := &models.MarksClass{AssignID: assign.ID, Name: "Internal test 1", TotalMarks: 20}
	require.NoError(t, repos.Marks.CreateComponent(ctx, component))

	authz := NewAuthorizer(repos)
	t1 := &models.Principal{Role: models.RoleTeacher, TeacherID: "T1"}
	t2 := &models.Principal{Role: models.RoleTeacher, TeacherID: "T2"}

	got, err := authz.OwnedAssign(ctx, t1, assign.ID)
	require.NoError(t, err)
	assert.Equal(t, "CS510", got.CourseID)

	_, err = authz.OwnedAssign(ctx, t2, assign.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	_, err = authz.OwnedAssign(ctx, t1, 999)
	assert.True(t, apperrors.IsNotFound(err))

	_, _, err = authz.OwnedSession(ctx, t1, session.ID)
	assert.NoError(t, err)
	_, _, err = authz.OwnedSession(ctx, t2, session.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	_, _, err = authz.OwnedComponent(ctx, t2, component.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotOwner)

	student := &models.Principal{Role: models.RoleStudent, USN: "S1"}
	_, err = authz.OwnedAssign(ctx, student, assign.ID)
	assert.ErrorIs(t, err, apperrors.ErrRoleMismatch)

	_, err = authz.ManagedAssign(ctx, &models.Principal{Role: models.RoleAdmin, CanWrite: true}, assign.ID)
	assert.NoError(t, err)
}
