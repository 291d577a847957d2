package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/db"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	"github.com/yigit/collegeerp/internal/pkg/dberrors"
	"github.com/yigit/collegeerp/internal/pkg/logger"
)

// recomputeTotalsSQL rebuilds attendance_totals for ($1 usns, $2 course) from the attendance rows
const recomputeTotalsSQL = `
	INSERT INTO attendance_totals (usn, course_id, attended, total, updated_at)
	SELECT u.usn, $2,
		COUNT(a.id) FILTER (WHERE a.status = 'Present'),
		COUNT(a.id),
		NOW()
	FROM unnest($1::text[]) AS u(usn)
	LEFT JOIN attendances a ON a.usn = u.usn AND a.course_id = $2
	GROUP BY u.usn
	ON CONFLICT (usn, course_id) DO UPDATE
	SET attended = EXCLUDED.attended, total = EXCLUDED.total, updated_at = EXCLUDED.updated_at`

type attendanceRepository struct {
	database *db.PostgresDB
	sb       squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(database *db.PostgresDB) AttendanceRepository {
	return &attendanceRepository{database: database, sb: statementBuilder()}
}

func recomputeTotals(ctx context.Context, q querier, courseID string, usns []string) error {
	if len(usns) == 0 {
		return nil
	}
	if _, err := q.Exec(ctx, recomputeTotalsSQL, usns, courseID); err != nil {
		return fmt.Errorf("error recomputing attendance totals: %w", err)
	}
	return nil
}

func (r *attendanceRepository) OpenSession(ctx context.Context, assignID int64, date time.Time) (*models.AttendanceClass, bool, error) {
	s := &models.AttendanceClass{}
	err := r.database.Pool.QueryRow(ctx, `
		INSERT INTO attendance_classes (assign_id, date, held)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (assign_id, date) DO NOTHING
		RETURNING id, assign_id, date, held`,
		assignID, models.TruncateDate(date),
	).Scan(&s.ID, &s.AssignID, &s.Date, &s.Held)
	if err == nil {
		return s, true, nil
	}
	if dberrors.IsForeignKeyViolation(err) {
		return nil, false, apperrors.ErrAssignNotFound
	}
	if !dberrors.IsNoRows(err) {
		return nil, false, fmt.Errorf("error opening attendance session: %w", err)
	}

	err = r.database.Pool.QueryRow(ctx, `
		SELECT id, assign_id, date, held FROM attendance_classes
		WHERE assign_id = $1 AND date = $2`,
		assignID, models.TruncateDate(date),
	).Scan(&s.ID, &s.AssignID, &s.Date, &s.Held)
	if err != nil {
		return nil, false, fmt.Errorf("error retrieving attendance session: %w", err)
	}
	return s, false, nil
}

func (r *attendanceRepository) GetSession(ctx context.Context, id int64) (*models.AttendanceClass, error) {
	s := &models.AttendanceClass{}
	err := r.database.Pool.QueryRow(ctx,
		`SELECT id, assign_id, date, held FROM attendance_classes WHERE id = $1`, id,
	).Scan(&s.ID, &s.AssignID, &s.Date, &s.Held)
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("error retrieving attendance session: %w", err)
	}
	return s, nil
}

func (r *attendanceRepository) ListSessions(ctx context.Context, assignID int64) ([]*models.AttendanceClass, error) {
	rows, err := r.database.Pool.Query(ctx,
		`SELECT id, assign_id, date, held FROM attendance_classes WHERE assign_id = $1 ORDER BY date`, assignID)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.AttendanceClass
	for rows.Next() {
		s := &models.AttendanceClass{}
		if err := rows.Scan(&s.ID, &s.AssignID, &s.Date, &s.Held); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *attendanceRepository) SetSessionHeld(ctx context.Context, session *models.AttendanceClass, courseID string, held bool) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE attendance_classes SET held = $1 WHERE id = $2`, held, session.ID)
		if err != nil {
			return fmt.Errorf("error updating attendance session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrSessionNotFound
		}
		session.Held = held
		if held {
			return nil
		}

		rows, err := tx.Query(ctx, `DELETE FROM attendances WHERE attendance_class_id = $1 RETURNING usn`, session.ID)
		if err != nil {
			return fmt.Errorf("error clearing cancelled session: %w", err)
		}
		usns, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("error clearing cancelled session: %w", err)
		}

		logger.Debug().Int64("sessionID", session.ID).Int("removed", len(usns)).Msg("Attendance session cancelled")
		return recomputeTotals(ctx, tx, courseID, usns)
	})
}

func (r *attendanceRepository) Mark(ctx context.Context, session *models.AttendanceClass, courseID string, marks []models.AttendanceMark) error {
	if len(marks) == 0 {
		return nil
	}

	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		batch := &pgx.Batch{}
		usns := make([]string, 0, len(marks))
		for _, m := range marks {
			batch.Queue(`
				INSERT INTO attendances (usn, course_id, attendance_class_id, date, status)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (usn, course_id, date) DO UPDATE
				SET status = EXCLUDED.status, attendance_class_id = EXCLUDED.attendance_class_id`,
				m.USN, courseID, session.ID, models.TruncateDate(session.Date), string(m.Status))
			usns = append(usns, m.USN)
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrStudentNotFound
			}
			if dberrors.IsCheckViolation(err) {
				return apperrors.ErrInvalidAttendance
			}
			return fmt.Errorf("error saving attendance: %w", err)
		}

		return recomputeTotals(ctx, tx, courseID, usns)
	})
}

func (r *attendanceRepository) listAttendance(ctx context.Context, where squirrel.Sqlizer, orderBy ...string) ([]*models.Attendance, error) {
	sql, args, err := r.sb.Select("id", "usn", "course_id", "attendance_class_id", "date", "status").
		From("attendances").
		Where(where).
		OrderBy(orderBy...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list attendance query: %w", err)
	}

	rows, err := r.database.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance: %w", err)
	}
	defer rows.Close()

	var records []*models.Attendance
	for rows.Next() {
		a := &models.Attendance{}
		if err := rows.Scan(&a.ID, &a.USN, &a.CourseID, &a.AttendanceClassID, &a.Date, &a.Status); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *attendanceRepository) ListByStudentCourse(ctx context.Context, usn, courseID string) ([]*models.Attendance, error) {
	return r.listAttendance(ctx, squirrel.Eq{"usn": usn, "course_id": courseID}, "date", "id")
}

func (r *attendanceRepository) ListByStudentRange(ctx context.Context, usn string, start, end time.Time) ([]*models.Attendance, error) {
	return r.listAttendance(ctx, squirrel.And{
		squirrel.Eq{"usn": usn},
		squirrel.GtOrEq{"date": models.TruncateDate(start)},
		squirrel.LtOrEq{"date": models.TruncateDate(end)},
	}, "date", "course_id")
}

func (r *attendanceRepository) ListBySession(ctx context.Context, sessionID int64) ([]*models.Attendance, error) {
	return r.listAttendance(ctx, squirrel.Eq{"attendance_class_id": sessionID}, "usn")
}

func (r *attendanceRepository) GetTotal(ctx context.Context, usn, courseID string) (*models.AttendanceTotal, error) {
	t := &models.AttendanceTotal{USN: usn, CourseID: courseID}
	err := r.database.Pool.QueryRow(ctx, `
		SELECT attended, total, updated_at FROM attendance_totals
		WHERE usn = $1 AND course_id = $2`, usn, courseID,
	).Scan(&t.Attended, &t.Total, &t.UpdatedAt)
	if err != nil && !dberrors.IsNoRows(err) {
		return nil, fmt.Errorf("error retrieving attendance total: %w", err)
	}
	return t, nil
}

func (r *attendanceRepository) ListCourseTotals(ctx context.Context, usn string) ([]*models.CourseAttendance, error) {
	rows, err := r.database.Pool.Query(ctx, `
		SELECT c.id, c.dept_id, c.name, c.shortname,
			COALESCE(t.attended, 0), COALESCE(t.total, 0), t.updated_at
		FROM student_courses sc
		JOIN courses c ON c.id = sc.course_id
		LEFT JOIN attendance_totals t ON t.usn = sc.usn AND t.course_id = sc.course_id
		WHERE sc.usn = $1
		ORDER BY c.id`, usn)
	if err != nil {
		return nil, fmt.Errorf("error listing attendance totals: %w", err)
	}
	defer rows.Close()

	result := []*models.CourseAttendance{}
	for rows.Next() {
		ca := &models.CourseAttendance{}
		var updatedAt *time.Time
		if err := rows.Scan(
			&ca.Course.ID, &ca.Course.DeptID, &ca.Course.Name, &ca.Course.Shortname,
			&ca.Total.Attended, &ca.Total.Total, &updatedAt,
		); err != nil {
			return nil, err
		}
		ca.Total.USN = usn
		ca.Total.CourseID = ca.Course.ID
		if updatedAt != nil {
			ca.Total.UpdatedAt = *updatedAt
		}
		result = append(result, ca)
	}
	return result, rows.Err()
}

func (r *attendanceRepository) ListStudentTotals(ctx context.Context, classID, courseID string) ([]*models.StudentAttendance, error) {
	rows, err := r.database.Pool.Query(ctx, `
		SELECT s.usn, s.user_id, s.class_id, s.name, s.sex, s.dob,
			COALESCE(t.attended, 0), COALESCE(t.total, 0), t.updated_at
		FROM students s
		JOIN student_courses sc ON sc.usn = s.usn AND sc.course_id = $2
		LEFT JOIN attendance_totals t ON t.usn = s.usn AND t.course_id = $2
		WHERE s.class_id = $1
		ORDER BY s.usn`, classID, courseID)
	if err != nil {
		return nil, fmt.Errorf("error listing student attendance totals: %w", err)
	}
	defer rows.Close()

	result := []*models.StudentAttendance{}
	for rows.Next() {
		sa := &models.StudentAttendance{}
		var updatedAt *time.Time
		if err := rows.Scan(
			&sa.Student.USN, &sa.Student.UserID, &sa.Student.ClassID, &sa.Student.Name, &sa.Student.Sex, &sa.Student.DOB,
			&sa.Total.Attended, &sa.Total.Total, &updatedAt,
		); err != nil {
			return nil, err
		}
		sa.Total.USN = sa.Student.USN
		sa.Total.CourseID = courseID
		if updatedAt != nil {
			sa.Total.UpdatedAt = *updatedAt
		}
		result = append(result, sa)
	}
	return result, rows.Err()
}

func (r *attendanceRepository) SaveRange(ctx context.Context, ar *models.AttendanceRange) error {
	err := r.database.Pool.QueryRow(ctx, `
		INSERT INTO attendance_ranges (usn, start_date, end_date, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`,
		ar.USN, models.TruncateDate(ar.StartDate), models.TruncateDate(ar.EndDate),
	).Scan(&ar.ID, &ar.CreatedAt)
	if err != nil {
		if dberrors.IsCheckViolation(err) {
			return apperrors.ErrInvalidDateRange
		}
		return fmt.Errorf("error saving attendance range: %w", err)
	}
	return nil
}
