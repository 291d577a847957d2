// Package services holds the business logic of the college ERP.
//
// Services defined in this package:
//   - AuthService: password login, API tokens and principal resolution
//   - SSOService: provisioning local users from OpenID Connect claims
//   - CatalogService: admin maintenance of departments, classes, courses, people and assignments
//   - AttendanceService: attendance sessions, marking and reports
//   - MarksService: graded components, marks entry and reports
//   - TimetableService: weekly slots and timetable grids
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
	"github.com/yigit/collegeerp/internal/pkg/oidc"
)

// Services bundles every service the transport layers depend on
type Services struct {
	Auth       AuthService
	SSO        SSOService
	Catalog    CatalogService
	Attendance AttendanceService
	Marks      MarksService
	Timetable  TimetableService
}

// NewServices builds every service over one set of repositories
func NewServices(repos *repositories.Repositories, mapping oidc.RoleMapping, logger zerolog.Logger) *Services {
	authz := auth.NewAuthorizer(repos)
	return &Services{
		Auth:       NewAuthService(repos, logger.With().Str("service", "auth").Logger()),
		SSO:        NewSSOService(repos.Users, mapping, logger.With().Str("service", "sso").Logger()),
		Catalog:    NewCatalogService(repos, logger.With().Str("service", "catalog").Logger()),
		Attendance: NewAttendanceService(repos, authz, logger.With().Str("service", "attendance").Logger()),
		Marks:      NewMarksService(repos, authz, logger.With().Str("service", "marks").Logger()),
		Timetable:  NewTimetableService(repos, authz, logger.With().Str("service", "timetable").Logger()),
	}
}

// studentCourse checks that p may read usn's records for courseID and that
// the student is enrolled in it. An unknown course is reported before the
// enrollment so callers can tell the two apart.
func studentCourse(ctx context.Context, repos *repositories.Repositories, p *models.Principal, usn, courseID string) (*models.Course, error) {
	if err := auth.RequireStudentAccess(p, usn); err != nil {
		return nil, err
	}
	if _, err := repos.Students.GetByUSN(ctx, usn); err != nil {
		return nil, err
	}

	course, err := repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := repos.Enrollments.IsEnrolled(ctx, usn, courseID)
	if err != nil {
		return nil, fmt.Errorf("error checking enrollment: %w", err)
	}
	if !enrolled {
		return nil, apperrors.ErrNotEnrolled
	}
	return course, nil
}

// ownedCourseAssigns returns the assignments of the calling teacher for courseID
func ownedCourseAssigns(ctx context.Context, repos *repositories.Repositories, p *models.Principal, courseID string) ([]*models.Assign, error) {
	if err := auth.RequireRole(p, models.RoleTeacher); err != nil {
		return nil, err
	}
	if _, err := repos.Courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	assigns, err := repos.Assigns.ListByTeacher(ctx, p.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	owned := make([]*models.Assign, 0, len(assigns))
	for _, a := range assigns {
		if a.CourseID == courseID {
			owned = append(owned, a)
		}
	}
	if len(owned) == 0 {
		return nil, apperrors.ErrNotOwner
	}
	return owned, nil
}

// enrolledSet returns the USNs of the class enrolled in the course of assign
func enrolledSet(ctx context.Context, repos *repositories.Repositories, assign *models.Assign) ([]*models.Student, map[string]bool, error) {
	students, err := repos.Enrollments.ListStudents(ctx, assign.ClassID, assign.CourseID)
	if err != nil {
		return nil, nil, fmt.Errorf("error listing enrolled students: %w", err)
	}
	set := make(map[string]bool, len(students))
	for _, s := range students {
		set[s.USN] = true
	}
	return students, set, nil
}

// optionalProfile turns a not-found profile lookup into nil
func optionalProfile[T any](v *T, err, notFound error) (*T, error) {
	if err != nil {
		if errors.Is(err, notFound) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}
