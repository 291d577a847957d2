package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/collegeerp/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	Users       UserRepository
	Tokens      TokenRepository
	Depts       DeptRepository
	Classes     ClassRepository
	Courses     CourseRepository
	Teachers    TeacherRepository
	Students    StudentRepository
	Enrollments EnrollmentRepository
	Assigns     AssignRepository
	Timetable   TimetableRepository
	Attendance  AttendanceRepository
	Marks       MarksRepository
}

// NewRepositories initializes the Postgres-backed repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		Tokens:      NewTokenRepository(database),
		Depts:       NewDeptRepository(database),
		Classes:     NewClassRepository(database),
		Courses:     NewCourseRepository(database),
		Teachers:    NewTeacherRepository(database),
		Students:    NewStudentRepository(database),
		Enrollments: NewEnrollmentRepository(database),
		Assigns:     NewAssignRepository(database),
		Timetable:   NewTimetableRepository(database),
		Attendance:  NewAttendanceRepository(database),
		Marks:       NewMarksRepository(database),
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// statementBuilder returns a squirrel builder using Postgres placeholders
func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
