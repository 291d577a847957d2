package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/auth"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

// TimetableService schedules weekly slots and builds timetable grids
type TimetableService interface {
	ForClass(ctx context.Context, p *models.Principal, classID string) (*models.Timetable, error)
	ForTeacher(ctx context.Context, p *models.Principal, teacherID string) (*models.Timetable, error)
	ForStudent(ctx context.Context, p *models.Principal) (*models.Timetable, error)
	ForCurrentTeacher(ctx context.Context, p *models.Principal) (*models.Timetable, error)

	AddSlot(ctx context.Context, p *models.Principal, assignID int64, day string, period int) (*models.AssignTime, bool, error)
	RemoveSlot(ctx context.Context, p *models.Principal, slotID int64) error
}

type timetableServiceImpl struct {
	repos  *repositories.Repositories
	authz  *auth.Authorizer
	logger zerolog.Logger
}

// NewTimetableService creates a new TimetableService
func NewTimetableService(repos *repositories.Repositories, authz *auth.Authorizer, logger zerolog.Logger) TimetableService {
	return &timetableServiceImpl{
		repos:  repos,
		authz:  authz,
		logger: logger,
	}
}

// ForClass is open to admins, students of the class and teachers assigned to it
func (s *timetableServiceImpl) ForClass(ctx context.Context, p *models.Principal, classID string) (*models.Timetable, error) {
	if err := auth.RequireRole(p, models.RoleAdmin, models.RoleTeacher, models.RoleStudent); err != nil {
		return nil, err
	}
	if _, err := s.repos.Classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}

	switch p.Role {
	case models.RoleStudent:
		student, err := s.repos.Students.GetByUSN(ctx, p.USN)
		if err != nil {
			return nil, err
		}
		if student.ClassID != classID {
			return nil, apperrors.ErrNotOwner
		}
	case models.RoleTeacher:
		assigns, err := s.repos.Assigns.ListByClass(ctx, classID)
		if err != nil {
			return nil, fmt.Errorf("error listing assignments: %w", err)
		}
		if !teachesIn(assigns, p.TeacherID) {
			return nil, apperrors.ErrNotOwner
		}
	}
	return s.classGrid(ctx, classID)
}

func (s *timetableServiceImpl) ForTeacher(ctx context.Context, p *models.Principal, teacherID string) (*models.Timetable, error) {
	if err := auth.RequireRole(p, models.RoleAdmin, models.RoleTeacher); err != nil {
		return nil, err
	}
	if p.IsTeacher() && p.TeacherID != teacherID {
		return nil, apperrors.ErrNotOwner
	}
	if _, err := s.repos.Teachers.GetByID(ctx, teacherID); err != nil {
		return nil, err
	}
	return s.teacherGrid(ctx, teacherID)
}

// ForStudent returns the timetable of the calling student's class
func (s *timetableServiceImpl) ForStudent(ctx context.Context, p *models.Principal) (*models.Timetable, error) {
	if err := auth.RequireRole(p, models.RoleStudent); err != nil {
		return nil, err
	}
	student, err := s.repos.Students.GetByUSN(ctx, p.USN)
	if err != nil {
		return nil, err
	}
	return s.classGrid(ctx, student.ClassID)
}

func (s *timetableServiceImpl) ForCurrentTeacher(ctx context.Context, p *models.Principal) (*models.Timetable, error) {
	if err := auth.RequireRole(p, models.RoleTeacher); err != nil {
		return nil, err
	}
	return s.teacherGrid(ctx, p.TeacherID)
}

// AddSlot schedules the assignment on day and period. Adding a slot the
// assignment already holds is a no-op reported with created=false; a slot
// held by another assignment of the class or of the teacher is a conflict.
func (s *timetableServiceImpl) AddSlot(ctx context.Context, p *models.Principal, assignID int64, day string, period int) (*models.AssignTime, bool, error) {
	assign, err := s.authz.ManagedAssign(ctx, p, assignID)
	if err != nil {
		return nil, false, err
	}

	vErr := &apperrors.ValidationError{}
	d, ok := models.ParseDay(day)
	if !ok {
		vErr.Add("day", "day must be a weekday from Monday to Saturday")
	}
	if !models.ValidPeriod(period) {
		vErr.Add("period", fmt.Sprintf("period must be between 1 and %d", models.PeriodsPerDay))
	}
	if vErr.HasErrors() {
		return nil, false, vErr
	}

	slot := &models.AssignTime{AssignID: assign.ID, ClassID: assign.ClassID, Day: d, Period: period}
	created, err := s.repos.Timetable.AddSlot(ctx, slot, assign.TeacherID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSlotTaken) {
			s.logger.Info().Int64("assignID", assign.ID).Str("day", string(d)).Int("period", period).Msg("Timetable slot already taken")
			return nil, false, apperrors.NewCustomError(apperrors.ErrSlotTaken,
				fmt.Sprintf("%s period %d is already taken for class %s or teacher %s", d, period, assign.ClassID, assign.TeacherID))
		}
		return nil, false, err
	}

	if created {
		s.logger.Info().Int64("assignID", assign.ID).Int64("slotID", slot.ID).Msg("Timetable slot added")
	}
	return slot, created, nil
}

func (s *timetableServiceImpl) RemoveSlot(ctx context.Context, p *models.Principal, slotID int64) error {
	slot, _, err := s.authz.ManagedSlot(ctx, p, slotID)
	if err != nil {
		return err
	}
	if err := s.repos.Timetable.RemoveSlot(ctx, slot.ID); err != nil {
		return err
	}
	s.logger.Info().Int64("slotID", slot.ID).Msg("Timetable slot removed")
	return nil
}

func (s *timetableServiceImpl) classGrid(ctx context.Context, classID string) (*models.Timetable, error) {
	slots, err := s.repos.Timetable.ListByClass(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("error loading timetable: %w", err)
	}
	return models.BuildTimetable(slots), nil
}

func (s *timetableServiceImpl) teacherGrid(ctx context.Context, teacherID string) (*models.Timetable, error) {
	slots, err := s.repos.Timetable.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error loading timetable: %w", err)
	}
	return models.BuildTimetable(slots), nil
}

func teachesIn(assigns []*models.Assign, teacherID string) bool {
	for _, a := range assigns {
		if a.TeacherID == teacherID {
			return true
		}
	}
	return false
}
