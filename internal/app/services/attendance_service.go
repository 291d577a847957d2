package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/auth"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

// AttendanceService takes attendance and reports on it
type AttendanceService interface {
	Summary(ctx context.Context, p *models.Principal, usn string) ([]*models.CourseAttendance, error)
	Detail(ctx context.Context, p *models.Principal, usn, courseID string) ([]*models.Attendance, error)
	RangeReport(ctx context.Context, p *models.Principal, usn string, start, end time.Time) ([]*models.Attendance, error)

	TeacherOverview(ctx context.Context, p *models.Principal) ([]*models.AssignOverview, error)
	TeacherCourseDetail(ctx context.Context, p *models.Principal, courseID string) ([]*models.CourseRoster, error)

	ListSessions(ctx context.Context, p *models.Principal, assignID int64) (*models.Assign, []*models.AttendanceClass, error)
	OpenSession(ctx context.Context, p *models.Principal, assignID int64, date time.Time) (*models.AttendanceClass, bool, error)
	SetSessionStatus(ctx context.Context, p *models.Principal, sessionID int64, held bool) (*models.AttendanceClass, error)
	Roster(ctx context.Context, p *models.Principal, sessionID int64) (*models.SessionRoster, error)
	Mark(ctx context.Context, p *models.Principal, sessionID int64, marks []models.AttendanceMark) error
}

type attendanceServiceImpl struct {
	repos  *repositories.Repositories
	authz  *auth.Authorizer
	logger zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(repos *repositories.Repositories, authz *auth.Authorizer, logger zerolog.Logger) AttendanceService {
	return &attendanceServiceImpl{
		repos:  repos,
		authz:  authz,
		logger: logger,
	}
}

// Summary returns every enrolled course of usn with its attendance total.
// A student with no enrollments gets an empty list.
func (s *attendanceServiceImpl) Summary(ctx context.Context, p *models.Principal, usn string) ([]*models.CourseAttendance, error) {
	if err := auth.RequireStudentAccess(p, usn); err != nil {
		return nil, err
	}
	if _, err := s.repos.Students.GetByUSN(ctx, usn); err != nil {
		return nil, err
	}

	totals, err := s.repos.Attendance.ListCourseTotals(ctx, usn)
	if err != nil {
		return nil, fmt.Errorf("error loading attendance totals: %w", err)
	}
	if totals == nil {
		totals = []*models.CourseAttendance{}
	}
	return totals, nil
}

// Detail returns the attendance rows of usn for one course ordered by date
func (s *attendanceServiceImpl) Detail(ctx context.Context, p *models.Principal, usn, courseID string) ([]*models.Attendance, error) {
	if _, err := studentCourse(ctx, s.repos, p, usn, courseID); err != nil {
		return nil, err
	}

	rows, err := s.repos.Attendance.ListByStudentCourse(ctx, usn, courseID)
	if err != nil {
		return nil, fmt.Errorf("error loading attendance: %w", err)
	}
	sortByDate(rows)
	return rows, nil
}

// RangeReport returns attendance of usn across courses within [start, end]
// and records the requested window.
func (s *attendanceServiceImpl) RangeReport(ctx context.Context, p *models.Principal, usn string, start, end time.Time) ([]*models.Attendance, error) {
	if err := auth.RequireStudentAccess(p, usn); err != nil {
		return nil, err
	}
	start, end = models.TruncateDate(start), models.TruncateDate(end)
	if end.Before(start) {
		return nil, apperrors.NewValidationError("end_date", "end date must not be before start date")
	}
	if _, err := s.repos.Students.GetByUSN(ctx, usn); err != nil {
		return nil, err
	}

	if err := s.repos.Attendance.SaveRange(ctx, &models.AttendanceRange{USN: usn, StartDate: start, EndDate: end}); err != nil {
		return nil, fmt.Errorf("error saving report range: %w", err)
	}

	rows, err := s.repos.Attendance.ListByStudentRange(ctx, usn, start, end)
	if err != nil {
		return nil, fmt.Errorf("error loading attendance: %w", err)
	}
	sortByDate(rows)
	return rows, nil
}

func (s *attendanceServiceImpl) TeacherOverview(ctx context.Context, p *models.Principal) ([]*models.AssignOverview, error) {
	if err := auth.RequireRole(p, models.RoleTeacher); err != nil {
		return nil, err
	}

	assigns, err := s.repos.Assigns.ListByTeacher(ctx, p.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	overview := make([]*models.AssignOverview, 0, len(assigns))
	for _, a := range assigns {
		sessions, err := s.repos.Attendance.ListSessions(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing sessions: %w", err)
		}
		item := &models.AssignOverview{Assign: a, Sessions: len(sessions)}
		for _, session := range sessions {
			if session.Held {
				item.Held++
			}
		}
		overview = append(overview, item)
	}
	return overview, nil
}

// TeacherCourseDetail lists the students of each class the caller teaches
// courseID to, with their attendance totals
func (s *attendanceServiceImpl) TeacherCourseDetail(ctx context.Context, p *models.Principal, courseID string) ([]*models.CourseRoster, error) {
	assigns, err := ownedCourseAssigns(ctx, s.repos, p, courseID)
	if err != nil {
		return nil, err
	}

	rosters := make([]*models.CourseRoster, 0, len(assigns))
	for _, a := range assigns {
		totals, err := s.repos.Attendance.ListStudentTotals(ctx, a.ClassID, a.CourseID)
		if err != nil {
			return nil, fmt.Errorf("error loading attendance totals: %w", err)
		}
		rosters = append(rosters, &models.CourseRoster{Assign: a, Students: totals})
	}
	return rosters, nil
}

func (s *attendanceServiceImpl) ListSessions(ctx context.Context, p *models.Principal, assignID int64) (*models.Assign, []*models.AttendanceClass, error) {
	assign, err := s.authz.OwnedAssign(ctx, p, assignID)
	if err != nil {
		return nil, nil, err
	}
	sessions, err := s.repos.Attendance.ListSessions(ctx, assign.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing sessions: %w", err)
	}
	return assign, sessions, nil
}

// OpenSession returns the session of the assignment on date, creating it
// when none exists yet. created reports which of the two happened.
func (s *attendanceServiceImpl) OpenSession(ctx context.Context, p *models.Principal, assignID int64, date time.Time) (*models.AttendanceClass, bool, error) {
	assign, err := s.authz.OwnedAssign(ctx, p, assignID)
	if err != nil {
		return nil, false, err
	}
	if date.IsZero() {
		return nil, false, apperrors.NewValidationError("date", "date is a required field")
	}

	session, created, err := s.repos.Attendance.OpenSession(ctx, assign.ID, date)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info().Int64("assignID", assign.ID).Str("date", session.Date.Format(models.DateLayout)).Msg("Attendance session opened")
	}
	return session, created, nil
}

// SetSessionStatus marks a session held or cancelled. Cancelling drops the
// attendance recorded for it.
func (s *attendanceServiceImpl) SetSessionStatus(ctx context.Context, p *models.Principal, sessionID int64, held bool) (*models.AttendanceClass, error) {
	session, assign, err := s.authz.OwnedSession(ctx, p, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Held == held {
		return session, nil
	}

	if err := s.repos.Attendance.SetSessionHeld(ctx, session, assign.CourseID, held); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("sessionID", session.ID).Bool("held", held).Msg("Attendance session status changed")
	return session, nil
}

func (s *attendanceServiceImpl) Roster(ctx context.Context, p *models.Principal, sessionID int64) (*models.SessionRoster, error) {
	session, assign, err := s.authz.OwnedSession(ctx, p, sessionID)
	if err != nil {
		return nil, err
	}

	students, _, err := enrolledSet(ctx, s.repos, assign)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.Attendance.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading session attendance: %w", err)
	}

	status := make(map[string]models.AttendanceStatus, len(rows))
	for _, r := range rows {
		status[r.USN] = r.Status
	}

	roster := &models.SessionRoster{Assign: assign, Session: session, Entries: make([]models.RosterEntry, 0, len(students))}
	for _, st := range students {
		entry := models.RosterEntry{Student: *st}
		if v, ok := status[st.USN]; ok {
			entry.Status = &v
		}
		roster.Entries = append(roster.Entries, entry)
	}
	return roster, nil
}

// Mark records Present/Absent for students of the session's class. Every
// student must be enrolled in the course and the session must be held.
func (s *attendanceServiceImpl) Mark(ctx context.Context, p *models.Principal, sessionID int64, marks []models.AttendanceMark) error {
	session, assign, err := s.authz.OwnedSession(ctx, p, sessionID)
	if err != nil {
		return err
	}
	if !session.Held {
		return apperrors.ErrSessionNotHeld
	}
	if len(marks) == 0 {
		return apperrors.NewValidationError("records", "at least one record is required")
	}

	_, enrolled, err := enrolledSet(ctx, s.repos, assign)
	if err != nil {
		return err
	}

	vErr := &apperrors.ValidationError{}
	for i, m := range marks {
		field := fmt.Sprintf("records[%d]", i)
		switch {
		case !enrolled[m.USN]:
			vErr.Add(field, fmt.Sprintf("student %s is not enrolled in %s for class %s", m.USN, assign.CourseID, assign.ClassID))
		case !m.Status.Valid():
			vErr.Add(field, "status must be Present or Absent")
		}
	}
	if vErr.HasErrors() {
		return vErr
	}

	if err := s.repos.Attendance.Mark(ctx, session, assign.CourseID, marks); err != nil {
		return err
	}

	s.logger.Info().
		Int64("sessionID", session.ID).
		Str("courseID", assign.CourseID).
		Int("records", len(marks)).
		Msg("Attendance marked")
	return nil
}

func sortByDate(rows []*models.Attendance) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].CourseID < rows[j].CourseID
	})
}
