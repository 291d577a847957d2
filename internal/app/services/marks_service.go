package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/auth"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

// ComponentInput carries the editable fields of a graded component.
// A nil TotalMarks keeps the current value, or the default for the name on create.
type ComponentInput struct {
	Name       string
	TotalMarks *int
	Published  bool
}

// MarksService manages graded components and the marks entered for them
type MarksService interface {
	Summary(ctx context.Context, p *models.Principal, usn string) ([]*models.CourseMarks, error)
	Detail(ctx context.Context, p *models.Principal, usn, courseID string) ([]*models.ComponentScore, error)

	TeacherOverview(ctx context.Context, p *models.Principal) ([]*models.AssignComponents, error)
	TeacherCourseDetail(ctx context.Context, p *models.Principal, courseID string) ([]*models.ComponentSheet, error)

	CreateComponent(ctx context.Context, p *models.Principal, assignID int64, in ComponentInput) (*models.MarksClass, error)
	UpdateComponent(ctx context.Context, p *models.Principal, componentID int64, in ComponentInput) (*models.MarksClass, error)
	Roster(ctx context.Context, p *models.Principal, componentID int64) (*models.ComponentSheet, error)
	Enter(ctx context.Context, p *models.Principal, componentID int64, entries []models.MarksEntry) error
}

type marksServiceImpl struct {
	repos  *repositories.Repositories
	authz  *auth.Authorizer
	logger zerolog.Logger
}

// NewMarksService creates a new MarksService
func NewMarksService(repos *repositories.Repositories, authz *auth.Authorizer, logger zerolog.Logger) MarksService {
	return &marksServiceImpl{
		repos:  repos,
		authz:  authz,
		logger: logger,
	}
}

// Summary groups the visible component scores of usn by enrolled course.
// Students only see published components; admins see all.
func (s *marksServiceImpl) Summary(ctx context.Context, p *models.Principal, usn string) ([]*models.CourseMarks, error) {
	if err := auth.RequireStudentAccess(p, usn); err != nil {
		return nil, err
	}
	if _, err := s.repos.Students.GetByUSN(ctx, usn); err != nil {
		return nil, err
	}

	courses, err := s.repos.Enrollments.ListCourses(ctx, usn)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	scores, err := s.repos.Marks.ListStudentScores(ctx, usn, "", !p.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("error loading marks: %w", err)
	}

	byCourse := make(map[string][]*models.ComponentScore, len(courses))
	for _, sc := range scores {
		byCourse[sc.CourseID] = append(byCourse[sc.CourseID], sc)
	}

	summary := make([]*models.CourseMarks, 0, len(courses))
	for _, c := range courses {
		components := byCourse[c.ID]
		if components == nil {
			components = []*models.ComponentScore{}
		}
		summary = append(summary, &models.CourseMarks{Course: c, Components: components})
	}
	return summary, nil
}

func (s *marksServiceImpl) Detail(ctx context.Context, p *models.Principal, usn, courseID string) ([]*models.ComponentScore, error) {
	if _, err := studentCourse(ctx, s.repos, p, usn, courseID); err != nil {
		return nil, err
	}

	scores, err := s.repos.Marks.ListStudentScores(ctx, usn, courseID, !p.IsAdmin())
	if err != nil {
		return nil, fmt.Errorf("error loading marks: %w", err)
	}
	return scores, nil
}

func (s *marksServiceImpl) TeacherOverview(ctx context.Context, p *models.Principal) ([]*models.AssignComponents, error) {
	if err := auth.RequireRole(p, models.RoleTeacher); err != nil {
		return nil, err
	}

	assigns, err := s.repos.Assigns.ListByTeacher(ctx, p.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("error listing assignments: %w", err)
	}

	overview := make([]*models.AssignComponents, 0, len(assigns))
	for _, a := range assigns {
		components, err := s.repos.Marks.ListComponents(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing components: %w", err)
		}
		overview = append(overview, &models.AssignComponents{Assign: a, Components: components})
	}
	return overview, nil
}

// TeacherCourseDetail returns one marks sheet per component of every class
// the caller teaches courseID to
func (s *marksServiceImpl) TeacherCourseDetail(ctx context.Context, p *models.Principal, courseID string) ([]*models.ComponentSheet, error) {
	assigns, err := ownedCourseAssigns(ctx, s.repos, p, courseID)
	if err != nil {
		return nil, err
	}

	sheets := []*models.ComponentSheet{}
	for _, a := range assigns {
		components, err := s.repos.Marks.ListComponents(ctx, a.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing components: %w", err)
		}
		for _, c := range components {
			sheet, err := s.sheet(ctx, a, c)
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, sheet)
		}
	}
	return sheets, nil
}

func (s *marksServiceImpl) CreateComponent(ctx context.Context, p *models.Principal, assignID int64, in ComponentInput) (*models.MarksClass, error) {
	assign, err := s.authz.OwnedAssign(ctx, p, assignID)
	if err != nil {
		return nil, err
	}

	component := &models.MarksClass{
		AssignID:  assign.ID,
		Name:      strings.TrimSpace(in.Name),
		Published: in.Published,
	}
	if component.Name == "" {
		return nil, apperrors.NewValidationError("name", "name is a required field")
	}
	component.TotalMarks = models.DefaultTotalFor(component.Name)
	if in.TotalMarks != nil {
		component.TotalMarks = *in.TotalMarks
	}
	if component.TotalMarks < 1 {
		return nil, apperrors.NewValidationError("total_marks", "total_marks must be at least 1")
	}

	if err := s.repos.Marks.CreateComponent(ctx, component); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("assignID", assign.ID).
		Int64("componentID", component.ID).
		Str("name", component.Name).
		Msg("Marks component created")
	return component, nil
}

// UpdateComponent renames, re-totals or (un)publishes a component. The
// total may not drop below a score already entered.
func (s *marksServiceImpl) UpdateComponent(ctx context.Context, p *models.Principal, componentID int64, in ComponentInput) (*models.MarksClass, error) {
	component, _, err := s.authz.OwnedComponent(ctx, p, componentID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "name is a required field")
	}
	component.Name = name
	component.Published = in.Published

	if in.TotalMarks != nil && *in.TotalMarks != component.TotalMarks {
		total := *in.TotalMarks
		if total < 1 {
			return nil, apperrors.NewValidationError("total_marks", "total_marks must be at least 1")
		}
		marks, err := s.repos.Marks.ListByComponent(ctx, component.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading marks: %w", err)
		}
		for _, m := range marks {
			if m.Marks > float64(total) {
				return nil, apperrors.NewValidationError("total_marks",
					fmt.Sprintf("student %s already scored %g, above the new total", m.USN, m.Marks))
			}
		}
		component.TotalMarks = total
	}

	if err := s.repos.Marks.UpdateComponent(ctx, component); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("componentID", component.ID).Bool("published", component.Published).Msg("Marks component updated")
	return component, nil
}

func (s *marksServiceImpl) Roster(ctx context.Context, p *models.Principal, componentID int64) (*models.ComponentSheet, error) {
	component, assign, err := s.authz.OwnedComponent(ctx, p, componentID)
	if err != nil {
		return nil, err
	}
	return s.sheet(ctx, assign, component)
}

// Enter upserts marks for enrolled students; each score must lie within
// 0 and the component's total.
func (s *marksServiceImpl) Enter(ctx context.Context, p *models.Principal, componentID int64, entries []models.MarksEntry) error {
	component, assign, err := s.authz.OwnedComponent(ctx, p, componentID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return apperrors.NewValidationError("marks", "at least one entry is required")
	}

	_, enrolled, err := enrolledSet(ctx, s.repos, assign)
	if err != nil {
		return err
	}

	for i, e := range entries {
		if !enrolled[e.USN] {
			return apperrors.NewValidationError(fmt.Sprintf("marks[%d]", i),
				fmt.Sprintf("student %s is not enrolled in %s for class %s", e.USN, assign.CourseID, assign.ClassID))
		}
		if math.IsNaN(e.Marks) || e.Marks < 0 || e.Marks > float64(component.TotalMarks) {
			return apperrors.NewCustomError(apperrors.ErrMarksOutOfRange,
				fmt.Sprintf("marks for %s must be between 0 and %d", e.USN, component.TotalMarks)).
				WithDetails(map[string]interface{}{"usn": e.USN, "total_marks": component.TotalMarks})
		}
	}

	if err := s.repos.Marks.Enter(ctx, component.ID, entries); err != nil {
		return err
	}
	s.logger.Info().Int64("componentID", component.ID).Int("entries", len(entries)).Msg("Marks entered")
	return nil
}

// sheet lists the enrolled students of assign with their score in component
func (s *marksServiceImpl) sheet(ctx context.Context, assign *models.Assign, component *models.MarksClass) (*models.ComponentSheet, error) {
	students, _, err := enrolledSet(ctx, s.repos, assign)
	if err != nil {
		return nil, err
	}
	marks, err := s.repos.Marks.ListByComponent(ctx, component.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading marks: %w", err)
	}

	byUSN := make(map[string]float64, len(marks))
	for _, m := range marks {
		byUSN[m.USN] = m.Marks
	}

	sheet := &models.ComponentSheet{Assign: assign, Component: component, Scores: make([]models.StudentScore, 0, len(students))}
	for _, st := range students {
		score := models.StudentScore{Student: *st}
		if v, ok := byUSN[st.USN]; ok {
			score.Marks = &v
		}
		sheet.Scores = append(sheet.Scores, score)
	}
	return sheet, nil
}
