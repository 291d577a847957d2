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

type marksRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewMarksRepository creates a new marks repository
func NewMarksRepository(database *db.PostgresDB) MarksRepository {
	return &marksRepository{database: database, sb: statementBuilder()}
}

func componentNameTaken() error {
	return apperrors.NewValidationError("name", "a component with this name already exists for the assignment")
}

func (r *marksRepository) CreateComponent(ctx context.Context, component *models.MarksClass) error {
	err := r.database.Pool.QueryRow(ctx, `
		INSERT INTO marks_classes (assign_id, name, total_marks, published)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		component.AssignID, component.Name, component.TotalMarks, component.Published,
	).Scan(&component.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "marks_classes_assign_name_key") {
			return componentNameTaken()
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrAssignNotFound
		}
		return fmt.Errorf("error creating marks component: %w", err)
	}
	return nil
}

func (r *marksRepository) GetComponent(ctx context.Context, id int64) (*models.MarksClass, error) {
	c := &models.MarksClass{}
	err := r.database.Pool.QueryRow(ctx,
		`SELECT id, assign_id, name, total_marks, published FROM marks_classes WHERE id = $1`, id,
	).Scan(&c.ID, &c.AssignID, &c.Name, &c.TotalMarks, &c.Published)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrComponentNotFound
		}
		return nil, fmt.Errorf("error retrieving marks component: %w", err)
	}
	return c, nil
}

func (r *marksRepository) UpdateComponent(ctx context.Context, component *models.MarksClass) error {
	sql, args, err := r.sb.Update("marks_classes").
		Set("name", component.Name).
		Set("total_marks", component.TotalMarks).
		Set("published", component.Published).
		Where(squirrel.Eq{"id": component.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update component query: %w", err)
	}

	tag, err := r.database.Pool.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "marks_classes_assign_name_key") {
			return componentNameTaken()
		}
		return fmt.Errorf("error updating marks component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrComponentNotFound
	}
	return nil
}

func (r *marksRepository) ListComponents(ctx context.Context, assignID int64) ([]*models.MarksClass, error) {
	rows, err := r.database.Pool.Query(ctx, `
		SELECT id, assign_id, name, total_marks, published FROM marks_classes
		WHERE assign_id = $1 ORDER BY id`, assignID)
	if err != nil {
		return nil, fmt.Errorf("error listing marks components: %w", err)
	}
	defer rows.Close()

	var components []*models.MarksClass
	for rows.Next() {
		c := &models.MarksClass{}
		if err := rows.Scan(&c.ID, &c.AssignID, &c.Name, &c.TotalMarks, &c.Published); err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

func (r *marksRepository) Enter(ctx context.Context, componentID int64, entries []models.MarksEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, e := range entries {
			batch.Queue(`
				INSERT INTO marks (usn, marks_class_id, marks) VALUES ($1, $2, $3)
				ON CONFLICT (usn, marks_class_id) DO UPDATE SET marks = EXCLUDED.marks`,
				e.USN, componentID, e.Marks)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			switch dberrors.ConstraintName(err) {
			case "marks_usn_fkey":
				return apperrors.ErrStudentNotFound
			case "marks_marks_class_id_fkey":
				return apperrors.ErrComponentNotFound
			}
			return fmt.Errorf("error saving marks: %w", err)
		}
		return nil
	})
}

func (r *marksRepository) ListByComponent(ctx context.Context, componentID int64) ([]*models.Marks, error) {
	rows, err := r.database.Pool.Query(ctx,
		`SELECT id, usn, marks_class_id, marks FROM marks WHERE marks_class_id = $1 ORDER BY usn`, componentID)
	if err != nil {
		return nil, fmt.Errorf("error listing marks: %w", err)
	}
	defer rows.Close()

	var marks []*models.Marks
	for rows.Next() {
		m := &models.Marks{}
		if err := rows.Scan(&m.ID, &m.USN, &m.MarksClassID, &m.Marks); err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return marks, rows.Err()
}

func (r *marksRepository) ListStudentScores(ctx context.Context, usn, courseID string, publishedOnly bool) ([]*models.ComponentScore, error) {
	q := r.sb.Select("mc.id", "mc.assign_id", "mc.name", "mc.total_marks", "mc.published", "a.course_id", "m.marks").
		From("students s").
		Join("assigns a ON a.class_id = s.class_id").
		Join("student_courses sc ON sc.usn = s.usn AND sc.course_id = a.course_id").
		Join("marks_classes mc ON mc.assign_id = a.id").
		LeftJoin("marks m ON m.marks_class_id = mc.id AND m.usn = s.usn").
		Where(squirrel.Eq{"s.usn": usn}).
		OrderBy("a.course_id", "mc.id")
	if courseID != "" {
		q = q.Where(squirrel.Eq{"a.course_id": courseID})
	}
	if publishedOnly {
		q = q.Where(squirrel.Eq{"mc.published": true})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student scores query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing student scores: %w", err)
	}
	defer rows.Close()

	scores := []*models.ComponentScore{}
	for rows.Next() {
		s := &models.ComponentScore{}
		c := &s.Component
		if err := rows.Scan(&c.ID, &c.AssignID, &c.Name, &c.TotalMarks, &c.Published, &s.CourseID, &s.Marks); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
