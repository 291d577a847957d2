// Package memory is an in-process implementation of the repositories,
// used by tests and by the "memory" database driver.
package memory

import (
	"sync"

	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
)

type (
	enrollmentKey struct {
		usn      string
		courseID string
	}

	attendanceKey struct {
		usn      string
		courseID string
		date     string
	}

	marksKey struct {
		usn         string
		componentID int64
	}

	// DB holds every table behind one lock so multi-table writes stay atomic
	DB struct {
		sync.RWMutex

		seq int64

		users       map[int64]*models.User
		tokens      map[string]*models.AuthToken
		depts       map[string]*models.Dept
		classes     map[string]*models.Class
		courses     map[string]*models.Course
		teachers    map[string]*models.Teacher
		students    map[string]*models.Student
		enrollments map[enrollmentKey]struct{}
		assigns     map[int64]*models.Assign
		times       map[int64]*models.AssignTime
		sessions    map[int64]*models.AttendanceClass
		attendance  map[attendanceKey]*models.Attendance
		totals      map[enrollmentKey]*models.AttendanceTotal
		ranges      []*models.AttendanceRange
		components  map[int64]*models.MarksClass
		marks       map[marksKey]*models.Marks
	}
)

// Open returns an empty database
func Open() *DB {
	return &DB{
		users:       make(map[int64]*models.User),
		tokens:      make(map[string]*models.AuthToken),
		depts:       make(map[string]*models.Dept),
		classes:     make(map[string]*models.Class),
		courses:     make(map[string]*models.Course),
		teachers:    make(map[string]*models.Teacher),
		students:    make(map[string]*models.Student),
		enrollments: make(map[enrollmentKey]struct{}),
		assigns:     make(map[int64]*models.Assign),
		times:       make(map[int64]*models.AssignTime),
		sessions:    make(map[int64]*models.AttendanceClass),
		attendance:  make(map[attendanceKey]*models.Attendance),
		totals:      make(map[enrollmentKey]*models.AttendanceTotal),
		components:  make(map[int64]*models.MarksClass),
		marks:       make(map[marksKey]*models.Marks),
	}
}

// nextID hands out ids shared by every serial table; callers hold the write lock
func (db *DB) nextID() int64 {
	db.seq++
	return db.seq
}

// NewRepositories wires every repository to db
func NewRepositories(db *DB) *repositories.Repositories {
	return &repositories.Repositories{
		Users:       &userRepository{db: db},
		Tokens:      &tokenRepository{db: db},
		Depts:       &deptRepository{db: db},
		Classes:     &classRepository{db: db},
		Courses:     &courseRepository{db: db},
		Teachers:    &teacherRepository{db: db},
		Students:    &studentRepository{db: db},
		Enrollments: &enrollmentRepository{db: db},
		Assigns:     &assignRepository{db: db},
		Timetable:   &timetableRepository{db: db},
		Attendance:  &attendanceRepository{db: db},
		Marks:       &marksRepository{db: db},
	}
}

// enroll adds the enrollment and its zero total; callers hold the write lock
func (db *DB) enroll(usn, courseID string) {
	k := enrollmentKey{usn: usn, courseID: courseID}
	db.enrollments[k] = struct{}{}
	if _, ok := db.totals[k]; !ok {
		db.totals[k] = &models.AttendanceTotal{USN: usn, CourseID: courseID}
	}
}

// recompute rebuilds the total of (usn, courseID) from the attendance rows; callers hold the write lock
func (db *DB) recompute(usn, courseID string) {
	var rows []*models.Attendance
	for k, a := range db.attendance {
		if k.usn == usn && k.courseID == courseID {
			rows = append(rows, a)
		}
	}
	t := models.NewAttendanceTotal(usn, courseID, rows)
	t.UpdatedAt = now()
	db.totals[enrollmentKey{usn: usn, courseID: courseID}] = &t
}

func (db *DB) classWithDept(c *models.Class) *models.Class {
	cp := *c
	if d, ok := db.depts[c.DeptID]; ok {
		dept := *d
		cp.Dept = &dept
	}
	return &cp
}

func (db *DB) populateAssign(a *models.Assign) *models.Assign {
	cp := *a
	if c, ok := db.classes[a.ClassID]; ok {
		cp.Class = db.classWithDept(c)
	}
	if c, ok := db.courses[a.CourseID]; ok {
		course := *c
		cp.Course = &course
	}
	if t, ok := db.teachers[a.TeacherID]; ok {
		teacher := *t
		cp.Teacher = &teacher
	}
	return &cp
}
