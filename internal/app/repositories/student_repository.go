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

var studentColumns = []string{"s.usn", "s.user_id", "s.class_id", "s.name", "s.sex", "s.dob"}

type studentRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(database *db.PostgresDB) StudentRepository {
	return &studentRepository{database: database, sb: statementBuilder()}
}

func scanStudent(row interface{ Scan(dest ...any) error }) (*models.Student, error) {
	s := &models.Student{}
	if err := row.Scan(&s.USN, &s.UserID, &s.ClassID, &s.Name, &s.Sex, &s.DOB); err != nil {
		return nil, err
	}
	return s, nil
}

func queryStudents(ctx context.Context, q querier, sql string, args ...any) ([]*models.Student, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// enrollInClassCourses enrolls usn in every course assigned to classID
func enrollInClassCourses(ctx context.Context, q querier, usn, classID string) error {
	if _, err := q.Exec(ctx, `
		INSERT INTO student_courses (usn, course_id)
		SELECT $1, course_id FROM assigns WHERE class_id = $2
		ON CONFLICT (usn, course_id) DO NOTHING`, usn, classID); err != nil {
		return fmt.Errorf("error enrolling student in class courses: %w", err)
	}
	if _, err := q.Exec(ctx, `
		INSERT INTO attendance_totals (usn, course_id, attended, total, updated_at)
		SELECT $1, course_id, 0, 0, NOW() FROM assigns WHERE class_id = $2
		ON CONFLICT (usn, course_id) DO NOTHING`, usn, classID); err != nil {
		return fmt.Errorf("error initialising attendance totals: %w", err)
	}
	return nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student, newUser *models.User) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if newUser != nil {
			if err := insertUser(ctx, tx, newUser); err != nil {
				return err
			}
			student.UserID = newUser.ID
		}

		var clash bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM teachers WHERE user_id = $1)`, student.UserID,
		).Scan(&clash); err != nil {
			return fmt.Errorf("error checking profile kind: %w", err)
		}
		if clash {
			return apperrors.ErrProfileKindClash
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO students (usn, user_id, class_id, name, sex, dob)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			student.USN, student.UserID, student.ClassID, student.Name, student.Sex, student.DOB)
		if err != nil {
			switch dberrors.ConstraintName(err) {
			case "students_pkey":
				return apperrors.ErrDuplicateID
			case "students_user_id_key":
				return apperrors.NewValidationError("user_id", "already linked to a student")
			case "students_user_id_fkey":
				return apperrors.ErrUserNotFound
			case "students_class_id_fkey":
				return apperrors.ErrClassNotFound
			}
			return fmt.Errorf("error creating student: %w", err)
		}

		return enrollInClassCourses(ctx, tx, student.USN, student.ClassID)
	})
}

func (r *studentRepository) get(ctx context.Context, where squirrel.Eq) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students s").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	s, err := scanStudent(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return s, nil
}

func (r *studentRepository) GetByUSN(ctx context.Context, usn string) (*models.Student, error) {
	return r.get(ctx, squirrel.Eq{"s.usn": usn})
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return r.get(ctx, squirrel.Eq{"s.user_id": userID})
}

func (r *studentRepository) List(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From("students s").OrderBy("s.usn").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}
	return queryStudents(ctx, r.database.Pool, sql, args...)
}

func (r *studentRepository) ListByClass(ctx context.Context, classID string) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		Where(squirrel.Eq{"s.class_id": classID}).
		OrderBy("s.usn").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list class students query: %w", err)
	}
	return queryStudents(ctx, r.database.Pool, sql, args...)
}

// Update saves the profile; moving to another class also enrolls the student in that class's courses
func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE students SET class_id = $1, name = $2, sex = $3, dob = $4 WHERE usn = $5`,
			student.ClassID, student.Name, student.Sex, student.DOB, student.USN)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrClassNotFound
			}
			return fmt.Errorf("error updating student: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}
		return enrollInClassCourses(ctx, tx, student.USN, student.ClassID)
	})
}
