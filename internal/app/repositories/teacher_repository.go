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

type teacherRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(database *db.PostgresDB) TeacherRepository {
	return &teacherRepository{database: database, sb: statementBuilder()}
}

func scanTeacher(row interface{ Scan(dest ...any) error }) (*models.Teacher, error) {
	t := &models.Teacher{}
	if err := row.Scan(&t.ID, &t.UserID, &t.DeptID, &t.Name, &t.Sex, &t.DOB); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher, newUser *models.User) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if newUser != nil {
			if err := insertUser(ctx, tx, newUser); err != nil {
				return err
			}
			teacher.UserID = newUser.ID
		}

		var clash bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM students WHERE user_id = $1)`, teacher.UserID,
		).Scan(&clash); err != nil {
			return fmt.Errorf("error checking profile kind: %w", err)
		}
		if clash {
			return apperrors.ErrProfileKindClash
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO teachers (id, user_id, dept_id, name, sex, dob)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			teacher.ID, teacher.UserID, teacher.DeptID, teacher.Name, teacher.Sex, teacher.DOB)
		if err != nil {
			switch dberrors.ConstraintName(err) {
			case "teachers_pkey":
				return apperrors.ErrDuplicateID
			case "teachers_user_id_key":
				return apperrors.NewValidationError("user_id", "already linked to a teacher")
			case "teachers_user_id_fkey":
				return apperrors.ErrUserNotFound
			case "teachers_dept_id_fkey":
				return apperrors.ErrDeptNotFound
			}
			return fmt.Errorf("error creating teacher: %w", err)
		}
		return nil
	})
}

func (r *teacherRepository) get(ctx context.Context, where squirrel.Eq) (*models.Teacher, error) {
	sql, args, err := r.sb.Select("id", "user_id", "dept_id", "name", "sex", "dob").
		From("teachers").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get teacher query: %w", err)
	}

	t, err := scanTeacher(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}
	return t, nil
}

func (r *teacherRepository) GetByID(ctx context.Context, id string) (*models.Teacher, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *teacherRepository) GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	return r.get(ctx, squirrel.Eq{"user_id": userID})
}

func (r *teacherRepository) List(ctx context.Context) ([]*models.Teacher, error) {
	rows, err := r.database.Pool.Query(ctx,
		`SELECT id, user_id, dept_id, name, sex, dob FROM teachers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*models.Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

func (r *teacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	tag, err := r.database.Pool.Exec(ctx,
		`UPDATE teachers SET dept_id = $1, name = $2, sex = $3, dob = $4 WHERE id = $5`,
		teacher.DeptID, teacher.Name, teacher.Sex, teacher.DOB, teacher.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDeptNotFound
		}
		return fmt.Errorf("error updating teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTeacherNotFound
	}
	return nil
}
