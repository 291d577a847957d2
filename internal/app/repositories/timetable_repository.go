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

type timetableRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewTimetableRepository creates a new AssignTime repository
func NewTimetableRepository(database *db.PostgresDB) TimetableRepository {
	return &timetableRepository{database: database, sb: statementBuilder()}
}

func (r *timetableRepository) AddSlot(ctx context.Context, slot *models.AssignTime, teacherID string) (bool, error) {
	created := false
	err := r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT id, class_id FROM assign_times
			WHERE assign_id = $1 AND day = $2 AND period = $3`,
			slot.AssignID, slot.Day, slot.Period,
		).Scan(&slot.ID, &slot.ClassID)
		if err == nil {
			return nil
		}
		if !dberrors.IsNoRows(err) {
			return fmt.Errorf("error checking slot: %w", err)
		}

		var busy bool
		if err := tx.QueryRow(ctx, `
			SELECT EXISTS(
				SELECT 1 FROM assign_times t
				JOIN assigns a ON a.id = t.assign_id
				WHERE a.teacher_id = $1 AND t.day = $2 AND t.period = $3
			)`, teacherID, slot.Day, slot.Period,
		).Scan(&busy); err != nil {
			return fmt.Errorf("error checking teacher availability: %w", err)
		}
		if busy {
			return apperrors.ErrSlotTaken
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO assign_times (assign_id, class_id, day, period)
			SELECT id, class_id, $2, $3 FROM assigns WHERE id = $1
			RETURNING id, class_id`,
			slot.AssignID, slot.Day, slot.Period,
		).Scan(&slot.ID, &slot.ClassID)
		if err != nil {
			switch {
			case dberrors.IsNoRows(err):
				return apperrors.ErrAssignNotFound
			case dberrors.IsDuplicateConstraintError(err, "assign_times_class_slot_key"):
				return apperrors.ErrSlotTaken
			case dberrors.IsCheckViolation(err):
				return apperrors.ErrInvalidSlot
			}
			return fmt.Errorf("error creating slot: %w", err)
		}
		created = true
		return nil
	})
	return created, err
}

func (r *timetableRepository) GetSlot(ctx context.Context, id int64) (*models.AssignTime, error) {
	s := &models.AssignTime{}
	err := r.database.Pool.QueryRow(ctx,
		`SELECT id, assign_id, class_id, day, period FROM assign_times WHERE id = $1`, id,
	).Scan(&s.ID, &s.AssignID, &s.ClassID, &s.Day, &s.Period)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSlotNotFound
		}
		return nil, fmt.Errorf("error retrieving slot: %w", err)
	}
	return s, nil
}

func (r *timetableRepository) RemoveSlot(ctx context.Context, id int64) error {
	tag, err := r.database.Pool.Exec(ctx, `DELETE FROM assign_times WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error removing slot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSlotNotFound
	}
	return nil
}

func (r *timetableRepository) listSlots(ctx context.Context, where squirrel.Eq) ([]*models.ScheduledSlot, error) {
	sql, args, err := r.sb.Select(
		"t.id", "t.assign_id", "t.day", "t.period",
		"a.class_id", "a.course_id", "c.name", "c.shortname", "a.teacher_id", "te.name",
	).
		From("assign_times t").
		Join("assigns a ON a.id = t.assign_id").
		Join("courses c ON c.id = a.course_id").
		Join("teachers te ON te.id = a.teacher_id").
		Where(where).
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list slots query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing slots: %w", err)
	}
	defer rows.Close()

	var slots []*models.ScheduledSlot
	for rows.Next() {
		s := &models.ScheduledSlot{}
		if err := rows.Scan(
			&s.AssignTimeID, &s.AssignID, &s.Day, &s.Period,
			&s.ClassID, &s.CourseID, &s.CourseName, &s.CourseShortname, &s.TeacherID, &s.TeacherName,
		); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *timetableRepository) ListByClass(ctx context.Context, classID string) ([]*models.ScheduledSlot, error) {
	return r.listSlots(ctx, squirrel.Eq{"a.class_id": classID})
}

func (r *timetableRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*models.ScheduledSlot, error) {
	return r.listSlots(ctx, squirrel.Eq{"a.teacher_id": teacherID})
}
