package auth

import (
	"context"

	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

// RequireRole fails unless p acts under one of roles
func RequireRole(p *models.Principal, roles ...models.Role) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	for _, r := range roles {
		if p.Role == r {
			return nil
		}
	}
	return apperrors.ErrRoleMismatch
}

// RequireAdmin fails for anyone but an admin
func RequireAdmin(p *models.Principal) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	if !p.IsAdmin() {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// RequireAdminWrite additionally requires write access
func RequireAdminWrite(p *models.Principal) error {
	if err := RequireAdmin(p); err != nil {
		return err
	}
	if !p.CanWrite {
		return apperrors.NewForbiddenError("read-only administrators cannot modify records")
	}
	return nil
}

// RequireStudentAccess lets admins and the student owning usn through
func RequireStudentAccess(p *models.Principal, usn string) error {
	if p == nil {
		return apperrors.ErrUnauthorized
	}
	switch {
	case p.IsAdmin():
		return nil
	case p.IsStudent():
		if p.USN != usn {
			return apperrors.ErrNotOwner
		}
		return nil
	default:
		return apperrors.ErrRoleMismatch
	}
}

// RequireAssignOwner lets only the teacher of a through
func RequireAssignOwner(p *models.Principal, a *models.Assign) error {
	if err := RequireRole(p, models.RoleTeacher); err != nil {
		return err
	}
	if a == nil || !p.IsTeacher() || a.TeacherID != p.TeacherID {
		return apperrors.ErrNotOwner
	}
	return nil
}

// RequireAssignManager lets the teacher of a and writing admins through
func RequireAssignManager(p *models.Principal, a *models.Assign) error {
	if p.IsAdmin() {
		return RequireAdminWrite(p)
	}
	return RequireAssignOwner(p, a)
}

// Authorizer loads teacher-owned resources and checks ownership in one step
type Authorizer struct {
	assigns    repositories.AssignRepository
	attendance repositories.AttendanceRepository
	marks      repositories.MarksRepository
	timetable  repositories.TimetableRepository
}

// NewAuthorizer creates a new Authorizer
func NewAuthorizer(repos *repositories.Repositories) *Authorizer {
	return &Authorizer{
		assigns:    repos.Assigns,
		attendance: repos.Attendance,
		marks:      repos.Marks,
		timetable:  repos.Timetable,
	}
}

// OwnedAssign returns the assignment when p is its teacher.
// The role is checked before anything is loaded.
func (a *Authorizer) OwnedAssign(ctx context.Context, p *models.Principal, assignID int64) (*models.Assign, error) {
	if err := RequireRole(p, models.RoleTeacher); err != nil {
		return nil, err
	}
	assign, err := a.assigns.GetByID(ctx, assignID)
	if err != nil {
		return nil, err
	}
	if err := RequireAssignOwner(p, assign); err != nil {
		return nil, err
	}
	return assign, nil
}

// ManagedAssign returns the assignment when p is its teacher or a writing admin
func (a *Authorizer) ManagedAssign(ctx context.Context, p *models.Principal, assignID int64) (*models.Assign, error) {
	if err := RequireRole(p, models.RoleTeacher, models.RoleAdmin); err != nil {
		return nil, err
	}
	assign, err := a.assigns.GetByID(ctx, assignID)
	if err != nil {
		return nil, err
	}
	if err := RequireAssignManager(p, assign); err != nil {
		return nil, err
	}
	return assign, nil
}

// OwnedSession returns an attendance session of an assignment p teaches
func (a *Authorizer) OwnedSession(ctx context.Context, p *models.Principal, sessionID int64) (*models.AttendanceClass, *models.Assign, error) {
	if err := RequireRole(p, models.RoleTeacher); err != nil {
		return nil, nil, err
	}
	session, err := a.attendance.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	assign, err := a.OwnedAssign(ctx, p, session.AssignID)
	if err != nil {
		return nil, nil, err
	}
	return session, assign, nil
}

// OwnedComponent returns a marks component of an assignment p teaches
func (a *Authorizer) OwnedComponent(ctx context.Context, p *models.Principal, componentID int64) (*models.MarksClass, *models.Assign, error) {
	if err := RequireRole(p, models.RoleTeacher); err != nil {
		return nil, nil, err
	}
	component, err := a.marks.GetComponent(ctx, componentID)
	if err != nil {
		return nil, nil, err
	}
	assign, err := a.OwnedAssign(ctx, p, component.AssignID)
	if err != nil {
		return nil, nil, err
	}
	return component, assign, nil
}

// ManagedSlot returns a timetable slot p may remove
func (a *Authorizer) ManagedSlot(ctx context.Context, p *models.Principal, slotID int64) (*models.AssignTime, *models.Assign, error) {
	if err := RequireRole(p, models.RoleTeacher, models.RoleAdmin); err != nil {
		return nil, nil, err
	}
	slot, err := a.timetable.GetSlot(ctx, slotID)
	if err != nil {
		return nil, nil, err
	}
	assign, err := a.ManagedAssign(ctx, p, slot.AssignID)
	if err != nil {
		return nil, nil, err
	}
	return slot, assign, nil
}
