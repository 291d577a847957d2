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

type classRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewClassRepository creates a new class repository
func NewClassRepository(database *db.PostgresDB) ClassRepository {
	return &classRepository{database: database, sb: statementBuilder()}
}

func (r *classRepository) selectClasses() squirrel.SelectBuilder {
	return r.sb.Select("c.id", "c.dept_id", "c.sem", "c.section", "d.id", "d.name").
		From("classes c").
		Join("depts d ON d.id = c.dept_id")
}

func scanClass(row interface{ Scan(dest ...any) error }) (*models.Class, error) {
	c := &models.Class{Dept: &models.Dept{}}
	if err := row.Scan(&c.ID, &c.DeptID, &c.Sem, &c.Section, &c.Dept.ID, &c.Dept.Name); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	_, err := r.database.Pool.Exec(ctx,
		`INSERT INTO classes (id, dept_id, sem, section) VALUES ($1, $2, $3, $4)`,
		class.ID, class.DeptID, class.Sem, class.Section)
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "classes_pkey"):
			return apperrors.ErrDuplicateID
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrDeptNotFound
		case dberrors.IsCheckViolation(err):
			return apperrors.NewValidationError("sem", "must be between 1 and 10")
		}
		return fmt.Errorf("error creating class: %w", err)
	}
	return nil
}

func (r *classRepository) GetByID(ctx context.Context, id string) (*models.Class, error) {
	sql, args, err := r.selectClasses().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get class query: %w", err)
	}

	c, err := scanClass(r.database.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrClassNotFound
		}
		return nil, fmt.Errorf("error retrieving class: %w", err)
	}
	return c, nil
}

func (r *classRepository) List(ctx context.Context) ([]*models.Class, error) {
	sql, args, err := r.selectClasses().OrderBy("c.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list classes query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing classes: %w", err)
	}
	defer rows.Close()

	var classes []*models.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

func (r *classRepository) Update(ctx context.Context, class *models.Class) error {
	tag, err := r.database.Pool.Exec(ctx,
		`UPDATE classes SET dept_id = $1, sem = $2, section = $3 WHERE id = $4`,
		class.DeptID, class.Sem, class.Section, class.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrDeptNotFound
		}
		return fmt.Errorf("error updating class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrClassNotFound
	}
	return nil
}
