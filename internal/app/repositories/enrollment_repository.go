package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/db"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	"github.com/yigit/collegeerp/internal/pkg/dberrors"
)

type enrollmentRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(database *db.PostgresDB) EnrollmentRepository {
	return &enrollmentRepository{database: database, sb: statementBuilder()}
}

func (r *enrollmentRepository) Enroll(ctx context.Context, usn, courseID string) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO student_courses (usn, course_id) VALUES ($1, $2)
			ON CONFLICT (usn, course_id) DO NOTHING`, usn, courseID)
		if err != nil {
			switch dberrors.ConstraintName(err) {
			case "student_courses_usn_fkey":
				return apperrors.ErrStudentNotFound
			case "student_courses_course_id_fkey":
				return apperrors.ErrCourseNotFound
			}
			return fmt.Errorf("error enrolling student: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO attendance_totals (usn, course_id, attended, total, updated_at)
			VALUES ($1, $2, 0, 0, NOW())
			ON CONFLICT (usn, course_id) DO NOTHING`, usn, courseID)
		if err != nil {
			return fmt.Errorf("error initialising attendance total: %w", err)
		}
		return nil
	})
}

func (r *enrollmentRepository) Unenroll(ctx context.Context, usn, courseID string) error {
	tag, err := r.database.Pool.Exec(ctx,
		`DELETE FROM student_courses WHERE usn = $1 AND course_id = $2`, usn, courseID)
	if err != nil {
		return fmt.Errorf("error removing enrollment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotEnrolled
	}
	return nil
}

func (r *enrollmentRepository) IsEnrolled(ctx context.Context, usn, courseID string) (bool, error) {
	var exists bool
	err := r.database.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_courses WHERE usn = $1 AND course_id = $2)`,
		usn, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

func (r *enrollmentRepository) ListCourses(ctx context.Context, usn string) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("c.id", "c.dept_id", "c.name", "c.shortname").
		From("student_courses sc").
		Join("courses c ON c.id = sc.course_id").
		Where(squirrel.Eq{"sc.usn": usn}).
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrolled courses query: %w", err)
	}
	return queryCourses(ctx, r.database.Pool, sql, args...)
}

func (r *enrollmentRepository) ListStudents(ctx context.Context, classID, courseID string) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Join("student_courses sc ON sc.usn = s.usn").
		Where(squirrel.Eq{"s.class_id": classID, "sc.course_id": courseID}).
		OrderBy("s.usn").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrolled students query: %w", err)
	}
	return queryStudents(ctx, r.database.Pool, sql, args...)
}
