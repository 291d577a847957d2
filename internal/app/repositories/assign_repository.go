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

type assignRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewAssignRepository creates a new teaching assignment repository
func NewAssignRepository(database *db.PostgresDB) AssignRepository {
	return &assignRepository{database: database, sb: statementBuilder()}
}

func (r *assignRepository) selectAssigns() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.class_id", "a.course_id", "a.teacher_id",
		"cl.dept_id", "cl.sem", "cl.section", "d.name",
		"c.dept_id", "c.name", "c.shortname",
		"t.user_id", "t.dept_id", "t.name", "t.sex", "t.dob",
	).
		From("assigns a").
		Join("classes cl ON cl.id = a.class_id").
		Join("depts d ON d.id = cl.dept_id").
		Join("courses c ON c.id = a.course_id").
		Join("teachers t ON t.id = a.teacher_id")
}

func scanAssign(row interface{ Scan(dest ...any) error }) (*models.Assign, error) {
	a := &models.Assign{
		Class:   &models.Class{Dept: &models.Dept{}},
		Course:  &models.Course{},
		Teacher: &models.Teacher{},
	}
	err := row.Scan(
		&a.ID, &a.ClassID, &a.CourseID, &a.TeacherID,
		&a.Class.DeptID, &a.Class.Sem, &a.Class.Section, &a.Class.Dept.Name,
		&a.Course.DeptID, &a.Course.Name, &a.Course.Shortname,
		&a.Teacher.UserID, &a.Teacher.DeptID, &a.Teacher.Name, &a.Teacher.Sex, &a.Teacher.DOB,
	)
	if err != nil {
		return nil, err
	}
	a.Class.ID = a.ClassID
	a.Class.Dept.ID = a.Class.DeptID
	a.Course.ID = a.CourseID
	a.Teacher.ID = a.TeacherID
	return a, nil
}

func (r *assignRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Assign, error) {
	q := r.selectAssigns().OrderBy("a.id")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list assigns query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing assigns: %w", err)
	}
	defer rows.Close()

	var assigns []*models.Assign
	for rows.Next() {
		a, err := scanAssign(rows)
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, a)
	}
	return assigns, rows.Err()
}

func (r *assignRepository) Create(ctx context.Context, assign *models.Assign) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO assigns (class_id, course_id, teacher_id)
			VALUES ($1, $2, $3)
			RETURNING id`,
			assign.ClassID, assign.CourseID, assign.TeacherID,
		).Scan(&assign.ID)
		if err != nil {
			switch dberrors.ConstraintName(err) {
			case "assigns_class_course_key":
				return apperrors.NewValidationError("course_id", "course is already assigned for this class")
			case "assigns_class_id_fkey":
				return apperrors.ErrClassNotFound
			case "assigns_course_id_fkey":
				return apperrors.ErrCourseNotFound
			case "assigns_teacher_id_fkey":
				return apperrors.ErrTeacherNotFound
			}
			return fmt.Errorf("error creating assign: %w", err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO student_courses (usn, course_id)
			SELECT usn, $2 FROM students WHERE class_id = $1
			ON CONFLICT (usn, course_id) DO NOTHING`,
			assign.ClassID, assign.CourseID); err != nil {
			return fmt.Errorf("error enrolling class students: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO attendance_totals (usn, course_id, attended, total, updated_at)
			SELECT usn, $2, 0, 0, NOW() FROM students WHERE class_id = $1
			ON CONFLICT (usn, course_id) DO NOTHING`,
			assign.ClassID, assign.CourseID); err != nil {
			return fmt.Errorf("error initialising attendance totals: %w", err)
		}
		return nil
	})
}

func (r *assignRepository) GetByID(ctx context.Context, id int64) (*models.Assign, error) {
	sql, args, err := r.selectAssigns().Where(squirrel.Eq{"a.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get assign query: %w", err)
	}

	a, err := scanAssign(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrAssignNotFound
		}
		return nil, fmt.Errorf("error retrieving assign: %w", err)
	}
	return a, nil
}

func (r *assignRepository) List(ctx context.Context) ([]*models.Assign, error) {
	return r.list(ctx, nil)
}

func (r *assignRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*models.Assign, error) {
	return r.list(ctx, squirrel.Eq{"a.teacher_id": teacherID})
}

func (r *assignRepository) ListByClass(ctx context.Context, classID string) ([]*models.Assign, error) {
	return r.list(ctx, squirrel.Eq{"a.class_id": classID})
}

// UpdateTeacher moves the assignment to teacherID. The move is refused with
// ErrSlotTaken when the new teacher already teaches in one of its slots.
func (r *assignRepository) UpdateTeacher(ctx context.Context, id int64, teacherID string) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var busy bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM assign_times mine
				JOIN assign_times t ON t.day = mine.day AND t.period = mine.period AND t.assign_id <> mine.assign_id
				JOIN assigns a ON a.id = t.assign_id
				WHERE mine.assign_id = $1 AND a.teacher_id = $2
			)`, id, teacherID,
		).Scan(&busy); err != nil {
			return fmt.Errorf("error checking teacher availability: %w", err)
		}
		if busy {
			return apperrors.ErrSlotTaken
		}

		tag, err := tx.Exec(ctx, `UPDATE assigns SET teacher_id = $1 WHERE id = $2`, teacherID, id)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrTeacherNotFound
			}
			return fmt.Errorf("error updating assign: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrAssignNotFound
		}
		return nil
	})
}
