package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/db"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	"github.com/yigit/collegeerp/internal/pkg/dberrors"
)

type courseRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(database *db.PostgresDB) CourseRepository {
	return &courseRepository{database: database, sb: statementBuilder()}
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	_, err := r.database.Pool.Exec(ctx,
		`INSERT INTO courses (id, dept_id, name, shortname) VALUES ($1, $2, $3, $4)`,
		course.ID, course.DeptID, course.Name, course.Shortname)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_pkey") {
			return apperrors.ErrDuplicateID
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDeptNotFound
		}
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	var c models.Course
	err := r.database.Pool.QueryRow(ctx,
		`SELECT id, dept_id, name, shortname FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.DeptID, &c.Name, &c.Shortname)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return &c, nil
}

func (r *courseRepository) List(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.sb.Select("id", "dept_id", "name", "shortname").From("courses").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}
	return queryCourses(ctx, r.database.Pool, sql, args...)
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	tag, err := r.database.Pool.Exec(ctx,
		`UPDATE courses SET dept_id = $1, name = $2, shortname = $3 WHERE id = $4`,
		course.DeptID, course.Name, course.Shortname, course.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDeptNotFound
		}
		return fmt.Errorf("error updating course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}
	return nil
}

// queryCourses scans rows of (id, dept_id, name, shortname)
func queryCourses(ctx context.Context, q querier, sql string, args ...any) ([]*models.Course, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.DeptID, &c.Name, &c.Shortname); err != nil {
			return nil, err
		}
		courses = append(courses, &c)
	}
	return courses, rows.Err()
}
