package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

func seeded(t *testing.T) (*repositories.Repositories, *models.Assign) {
	t.Helper()
	ctx := context.Background()
	repos := NewRepositories(Open())

	require.NoError(t, repos.Depts.Create(ctx, &models.Dept{ID: "CS", Name: "Computer Science"}))
	require.NoError(t, repos.Classes.Create(ctx, &models.Class{ID: "CS5A", DeptID: "CS", Sem: 5, Section: "A"}))
	require.NoError(t, repos.Courses.Create(ctx, &models.Course{ID: "CS510", DeptID: "CS", Name: "Compilers", Shortname: "CD"}))
	require.NoError(t, repos.Teachers.Create(ctx,
		&models.Teacher{ID: "T1", DeptID: "CS", Name: "Meera"},
		&models.User{Username: "t1", IsActive: true}))
	require.NoError(t, repos.Students.Create(ctx,
		&models.Student{USN: "S1", ClassID: "CS5A", Name: "Asha"},
		&models.User{Username: "s1", IsActive: true}))

	assign := &models.Assign{ClassID: "CS5A", CourseID: "CS510", TeacherID: "T1"}
	require.NoError(t, repos.Assigns.Create(ctx, assign))
	return repos, assign
}

func TestAssignEnrollsClassStudents(t *testing.T) {
	ctx := context.Background()
	repos, _ := seeded(t)

	enrolled, err := repos.Enrollments.IsEnrolled(ctx, "S1", "CS510")
	require.NoError(t, err)
	assert.True(t, enrolled)

	// a student created after the assignment is enrolled too
	require.NoError(t, repos.Students.Create(ctx,
		&models.Student{USN: "S2", ClassID: "CS5A", Name: "Ravi"},
		&models.User{Username: "s2", IsActive: true}))
	courses, err := repos.Enrollments.ListCourses(ctx, "S2")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS510", courses[0].ID)

	total, err := repos.Attendance.GetTotal(ctx, "S2", "CS510")
	require.NoError(t, err)
	assert.Equal(t, 0, total.Total)
}

func TestDuplicatesAndProfileClash(t *testing.T) {
	ctx := context.Background()
	repos, _ := seeded(t)

	assert.ErrorIs(t, repos.Depts.Create(ctx, &models.Dept{ID: "CS", Name: "Again"}), apperrors.ErrDuplicateID)
	err := repos.Assigns.Create(ctx, &models.Assign{ClassID: "CS5A", CourseID: "CS510", TeacherID: "T1"})
	assert.True(t, apperrors.IsValidation(err))

	teacherUser, err := repos.Users.GetByUsername(ctx, "t1")
	require.NoError(t, err)
	err = repos.Students.Create(ctx, &models.Student{USN: "S9", ClassID: "CS5A", UserID: teacherUser.ID}, nil)
	assert.ErrorIs(t, err, apperrors.ErrProfileKindClash)

	err = repos.Students.Create(ctx, &models.Student{USN: "S8", ClassID: "CS5A"}, &models.User{Username: "s1"})
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestMarkRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	repos, assign := seeded(t)
	day1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	s1, created, err := repos.Attendance.OpenSession(ctx, assign.ID, day1)
	require.NoError(t, err)
	assert.True(t, created)
	again, created, err := repos.Attendance.OpenSession(ctx, assign.ID, day1)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, s1.ID, again.ID)

	require.NoError(t, repos.Attendance.Mark(ctx, s1, "CS510", []models.AttendanceMark{{USN: "S1", Status: models.StatusPresent}}))
	// re-marking the same date updates instead of duplicating
	require.NoError(t, repos.Attendance.Mark(ctx, s1, "CS510", []models.AttendanceMark{{USN: "S1", Status: models.StatusAbsent}}))
	require.NoError(t, repos.Attendance.Mark(ctx, s1, "CS510", []models.AttendanceMark{{USN: "S1", Status: models.StatusPresent}}))

	s2, _, err := repos.Attendance.OpenSession(ctx, assign.ID, day2)
	require.NoError(t, err)
	require.NoError(t, repos.Attendance.Mark(ctx, s2, "CS510", []models.AttendanceMark{{USN: "S1", Status: models.StatusAbsent}}))

	total, err := repos.Attendance.GetTotal(ctx, "S1", "CS510")
	require.NoError(t, err)
	assert.Equal(t, 1, total.Attended)
	assert.Equal(t, 2, total.Total)

	rows, err := repos.Attendance.ListByStudentCourse(ctx, "S1", "CS510")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Date.Equal(day1))

	require.NoError(t, repos.Attendance.SetSessionHeld(ctx, s2, "CS510", false))
	total, err = repos.Attendance.GetTotal(ctx, "S1", "CS510")
	require.NoError(t, err)
	assert.Equal(t, 1, total.Attended)
	assert.Equal(t, 1, total.Total)
}

func TestTimetableSlots(t *testing.T) {
	ctx := context.Background()
	repos, assign := seeded(t)
	require.NoError(t, repos.Courses.Create(ctx, &models.Course{ID: "CS520", DeptID: "CS", Name: "Networks"}))
	other := &models.Assign{ClassID: "CS5A", CourseID: "CS520", TeacherID: "T1"}
	require.NoError(t, repos.Assigns.Create(ctx, other))

	slot := &models.AssignTime{AssignID: assign.ID, Day: models.Monday, Period: 1}
	created, err := repos.Timetable.AddSlot(ctx, slot, "T1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "CS5A", slot.ClassID)

	created, err = repos.Timetable.AddSlot(ctx, &models.AssignTime{AssignID: assign.ID, Day: models.Monday, Period: 1}, "T1")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = repos.Timetable.AddSlot(ctx, &models.AssignTime{AssignID: other.ID, Day: models.Monday, Period: 1}, "T1")
	assert.ErrorIs(t, err, apperrors.ErrSlotTaken)

	slots, err := repos.Timetable.ListByClass(ctx, "CS5A")
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "Compilers", slots[0].CourseName)
	assert.Equal(t, "Meera", slots[0].TeacherName)

	require.NoError(t, repos.Timetable.RemoveSlot(ctx, slot.ID))
	assert.ErrorIs(t, repos.Timetable.RemoveSlot(ctx, slot.ID), apperrors.ErrSlotNotFound)
}

func TestStudentScoresHonourPublication(t *testing.T) {
	ctx := context.Background()
	repos, assign := seeded(t)

	published := &models.MarksClass{AssignID: assign.ID, Name: "Internal test 1", TotalMarks: 20, Published: true}
	hidden := &models.MarksClass{AssignID: assign.ID, Name: "Internal test 2", TotalMarks: 20}
	require.NoError(t, repos.Marks.CreateComponent(ctx, published))
	require.NoError(t, repos.Marks.CreateComponent(ctx, hidden))
	require.NoError(t, repos.Marks.Enter(ctx, published.ID, []models.MarksEntry{{USN: "S1", Marks: 18}}))

	scores, err := repos.Marks.ListStudentScores(ctx, "S1", "CS510", true)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.NotNil(t, scores[0].Marks)
	assert.Equal(t, 18.0, *scores[0].Marks)

	scores, err = repos.Marks.ListStudentScores(ctx, "S1", "", false)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Nil(t, scores[1].Marks)
}
