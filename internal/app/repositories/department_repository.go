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

// deptRepository handles database operations for departments
type deptRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewDeptRepository creates a new department repository
func NewDeptRepository(database *db.PostgresDB) DeptRepository {
	return &deptRepository{database: database, sb: statementBuilder()}
}

// Create creates a new department
func (r *deptRepository) Create(ctx context.Context, dept *models.Dept) error {
	_, err := r.database.Pool.Exec(ctx, `INSERT INTO depts (id, name) VALUES ($1, $2)`, dept.ID, dept.Name)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "depts_pkey") {
			return apperrors.ErrDuplicateID
		}
		return fmt.Errorf("error creating department: %w", err)
	}
	return nil
}

// GetByID retrieves a department by ID
func (r *deptRepository) GetByID(ctx context.Context, id string) (*models.Dept, error) {
	var dept models.Dept
	err := r.database.Pool.QueryRow(ctx, `SELECT id, name FROM depts WHERE id = $1`, id).Scan(&dept.ID, &dept.Name)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrDeptNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	return &dept, nil
}

// List retrieves all departments ordered by id
func (r *deptRepository) List(ctx context.Context) ([]*models.Dept, error) {
	sql, args, err := r.sb.Select("id", "name").From("depts").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list departments query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var depts []*models.Dept
	for rows.Next() {
		var dept models.Dept
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, err
		}
		depts = append(depts, &dept)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return depts, nil
}

// Update renames a department
func (r *deptRepository) Update(ctx context.Context, dept *models.Dept) error {
	tag, err := r.database.Pool.Exec(ctx, `UPDATE depts SET name = $1 WHERE id = $2`, dept.Name, dept.ID)
	if err != nil {
		return fmt.Errorf("error updating department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrDeptNotFound
	}
	return nil
}
