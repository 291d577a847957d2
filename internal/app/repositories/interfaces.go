package repositories

import (
	"context"
	"time"

	"github.com/yigit/collegeerp/internal/app/models"
)

// UserRepository stores platform principals
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Update saves username, email, names and flags; the password is left untouched
	Update(ctx context.Context, user *models.User) error
	SetPassword(ctx context.Context, id int64, hash string) error
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	List(ctx context.Context) ([]*models.User, error)
}

// TokenRepository stores one API key per user
type TokenRepository interface {
	// GetOrCreate returns the existing key of the user or stores newKey
	GetOrCreate(ctx context.Context, userID int64, newKey string) (*models.AuthToken, error)
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
	DeleteByUserID(ctx context.Context, userID int64) error
}

// DeptRepository stores departments
type DeptRepository interface {
	Create(ctx context.Context, dept *models.Dept) error
	GetByID(ctx context.Context, id string) (*models.Dept, error)
	List(ctx context.Context) ([]*models.Dept, error)
	Update(ctx context.Context, dept *models.Dept) error
}

// ClassRepository stores classes; reads populate Class.Dept
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id string) (*models.Class, error)
	List(ctx context.Context) ([]*models.Class, error)
	Update(ctx context.Context, class *models.Class) error
}

// CourseRepository stores courses
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
}

// TeacherRepository stores teacher profiles
type TeacherRepository interface {
	// Create inserts newUser first when it is not nil and links it to the teacher
	Create(ctx context.Context, teacher *models.Teacher, newUser *models.User) error
	GetByID(ctx context.Context, id string) (*models.Teacher, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
	List(ctx context.Context) ([]*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) error
}

// StudentRepository stores student profiles
type StudentRepository interface {
	// Create inserts newUser first when it is not nil, links it, and enrolls
	// the student in every course already assigned to the class
	Create(ctx context.Context, student *models.Student, newUser *models.User) error
	GetByUSN(ctx context.Context, usn string) (*models.Student, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	List(ctx context.Context) ([]*models.Student, error)
	ListByClass(ctx context.Context, classID string) ([]*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
}

// EnrollmentRepository stores StudentCourse rows
type EnrollmentRepository interface {
	// Enroll is idempotent and initialises an empty AttendanceTotal
	Enroll(ctx context.Context, usn, courseID string) error
	Unenroll(ctx context.Context, usn, courseID string) error
	IsEnrolled(ctx context.Context, usn, courseID string) (bool, error)
	ListCourses(ctx context.Context, usn string) ([]*models.Course, error)
	// ListStudents returns students of classID enrolled in courseID, ordered by USN
	ListStudents(ctx context.Context, classID, courseID string) ([]*models.Student, error)
}

// AssignRepository stores teaching assignments; reads populate Class, Course and Teacher
type AssignRepository interface {
	// Create enrolls every student of the class in the course
	Create(ctx context.Context, assign *models.Assign) error
	GetByID(ctx context.Context, id int64) (*models.Assign, error)
	List(ctx context.Context) ([]*models.Assign, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*models.Assign, error)
	ListByClass(ctx context.Context, classID string) ([]*models.Assign, error)
	UpdateTeacher(ctx context.Context, id int64, teacherID string) error
}

// TimetableRepository stores AssignTime slots
type TimetableRepository interface {
	// AddSlot returns created=false when the identical slot already exists and
	// ErrSlotTaken when the class or the teacher is already busy in that slot
	AddSlot(ctx context.Context, slot *models.AssignTime, teacherID string) (created bool, err error)
	GetSlot(ctx context.Context, id int64) (*models.AssignTime, error)
	RemoveSlot(ctx context.Context, id int64) error
	ListByClass(ctx context.Context, classID string) ([]*models.ScheduledSlot, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]*models.ScheduledSlot, error)
}

// AttendanceRepository stores sessions, records and the derived totals.
// Every method that changes Attendance rows recomputes the affected
// AttendanceTotal rows in the same transaction.
type AttendanceRepository interface {
	OpenSession(ctx context.Context, assignID int64, date time.Time) (*models.AttendanceClass, bool, error)
	GetSession(ctx context.Context, id int64) (*models.AttendanceClass, error)
	ListSessions(ctx context.Context, assignID int64) ([]*models.AttendanceClass, error)
	SetSessionHeld(ctx context.Context, session *models.AttendanceClass, courseID string, held bool) error
	Mark(ctx context.Context, session *models.AttendanceClass, courseID string, marks []models.AttendanceMark) error

	ListByStudentCourse(ctx context.Context, usn, courseID string) ([]*models.Attendance, error)
	ListByStudentRange(ctx context.Context, usn string, start, end time.Time) ([]*models.Attendance, error)
	ListBySession(ctx context.Context, sessionID int64) ([]*models.Attendance, error)

	GetTotal(ctx context.Context, usn, courseID string) (*models.AttendanceTotal, error)
	// ListCourseTotals returns every enrolled course of usn with its total, ordered by course id
	ListCourseTotals(ctx context.Context, usn string) ([]*models.CourseAttendance, error)
	// ListStudentTotals returns enrolled students of classID for courseID with their totals
	ListStudentTotals(ctx context.Context, classID, courseID string) ([]*models.StudentAttendance, error)

	SaveRange(ctx context.Context, r *models.AttendanceRange) error
}

// MarksRepository stores graded components and scores
type MarksRepository interface {
	CreateComponent(ctx context.Context, component *models.MarksClass) error
	GetComponent(ctx context.Context, id int64) (*models.MarksClass, error)
	UpdateComponent(ctx context.Context, component *models.MarksClass) error
	ListComponents(ctx context.Context, assignID int64) ([]*models.MarksClass, error)

	Enter(ctx context.Context, componentID int64, entries []models.MarksEntry) error
	ListByComponent(ctx context.Context, componentID int64) ([]*models.Marks, error)
	// ListStudentScores returns components of the student's class for courseID
	// (all enrolled courses when courseID is empty) with the student's score
	ListStudentScores(ctx context.Context, usn, courseID string, publishedOnly bool) ([]*models.ComponentScore, error)
}
