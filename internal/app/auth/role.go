// Package auth resolves the role a principal acts under and guards access
// to the resources each role may touch.
package auth

import (
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

// ResolvePrincipal maps a user and its optional profiles to exactly one role.
//
// Staff and superusers act as admins whatever profiles they own; only
// superusers may write. A user owning both a teacher and a student profile
// is refused rather than guessed at, as is a user with no role at all.
func ResolvePrincipal(user *models.User, teacher *models.Teacher, student *models.Student) (*models.Principal, error) {
	if user == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	p := &models.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Name:     user.FullName(),
	}

	switch {
	case user.IsStaff || user.IsSuperuser:
		p.Role = models.RoleAdmin
		p.CanWrite = user.IsSuperuser
	case teacher != nil && student != nil:
		return nil, apperrors.ErrAmbiguousRole
	case teacher != nil:
		p.Role = models.RoleTeacher
		p.TeacherID = teacher.ID
		p.Name = teacher.Name
	case student != nil:
		p.Role = models.RoleStudent
		p.USN = student.USN
		p.Name = student.Name
	default:
		return nil, apperrors.ErrNoRole
	}
	return p, nil
}
