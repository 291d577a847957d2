package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/auth"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/repositories"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	pkgauth "github.com/yigit/collegeerp/internal/pkg/auth"
)

// CatalogService maintains departments, classes, courses, people and
// teaching assignments. Reads need an admin; writes need a writing admin.
type CatalogService interface {
	ListDepts(ctx context.Context, p *models.Principal) ([]*models.Dept, error)
	GetDept(ctx context.Context, p *models.Principal, id string) (*models.Dept, error)
	CreateDept(ctx context.Context, p *models.Principal, dept *models.Dept) error
	UpdateDept(ctx context.Context, p *models.Principal, dept *models.Dept) error

	ListClasses(ctx context.Context, p *models.Principal) ([]*models.Class, error)
	GetClass(ctx context.Context, p *models.Principal, id string) (*models.Class, error)
	CreateClass(ctx context.Context, p *models.Principal, class *models.Class) error
	UpdateClass(ctx context.Context, p *models.Principal, class *models.Class) error

	ListCourses(ctx context.Context, p *models.Principal) ([]*models.Course, error)
	GetCourse(ctx context.Context, p *models.Principal, id string) (*models.Course, error)
	CreateCourse(ctx context.Context, p *models.Principal, course *models.Course) error
	UpdateCourse(ctx context.Context, p *models.Principal, course *models.Course) error

	ListTeachers(ctx context.Context, p *models.Principal) ([]*models.Teacher, error)
	GetTeacher(ctx context.Context, p *models.Principal, id string) (*models.Teacher, error)
	// CreateTeacher creates account together with the teacher, or links
	// teacher.UserID when account is nil. account.Password is plain text.
	CreateTeacher(ctx context.Context, p *models.Principal, teacher *models.Teacher, account *models.User) error
	UpdateTeacher(ctx context.Context, p *models.Principal, teacher *models.Teacher) error

	ListStudents(ctx context.Context, p *models.Principal) ([]*models.Student, error)
	GetStudent(ctx context.Context, p *models.Principal, usn string) (*models.Student, error)
	// CreateStudent behaves like CreateTeacher and enrolls the student in
	// every course already assigned to its class
	CreateStudent(ctx context.Context, p *models.Principal, student *models.Student, account *models.User) error
	UpdateStudent(ctx context.Context, p *models.Principal, student *models.Student) error

	ListAssigns(ctx context.Context, p *models.Principal) ([]*models.Assign, error)
	GetAssign(ctx context.Context, p *models.Principal, id int64) (*models.Assign, error)
	CreateAssign(ctx context.Context, p *models.Principal, assign *models.Assign) error
	ReassignTeacher(ctx context.Context, p *models.Principal, id int64, teacherID string) (*models.Assign, error)

	Enroll(ctx context.Context, p *models.Principal, usn, courseID string) error
	Unenroll(ctx context.Context, p *models.Principal, usn, courseID string) error
	StudentCourses(ctx context.Context, p *models.Principal, usn string) ([]*models.Course, error)

	StudentProfile(ctx context.Context, p *models.Principal) (*models.StudentProfile, error)
	TeacherProfile(ctx context.Context, p *models.Principal) (*models.TeacherProfile, error)
}

type catalogServiceImpl struct {
	repos  *repositories.Repositories
	logger zerolog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repos *repositories.Repositories, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		repos:  repos,
		logger: logger,
	}
}

// duplicate turns a duplicate id into a field error naming what clashed
func duplicate(err error, field, what string) error {
	if errors.Is(err, apperrors.ErrDuplicateID) {
		return apperrors.NewValidationError(field, fmt.Sprintf("%s with this id already exists", what))
	}
	if errors.Is(err, apperrors.ErrUsernameTaken) {
		return apperrors.NewValidationError("username", "a user with this username already exists")
	}
	return err
}

// reference checks that a referenced row exists, reporting a missing one against field
func reference(err error, field string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsNotFound(err) {
		return apperrors.NewValidationError(field, err.Error())
	}
	return err
}

func required(vErr *apperrors.ValidationError, field, value string) {
	if strings.TrimSpace(value) == "" {
		vErr.Add(field, field+" is a required field")
	}
}

func validationResult(vErr *apperrors.ValidationError) error {
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// Departments

func (s *catalogServiceImpl) ListDepts(ctx context.Context, p *models.Principal) ([]*models.Dept, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Depts.List(ctx)
}

func (s *catalogServiceImpl) GetDept(ctx context.Context, p *models.Principal, id string) (*models.Dept, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Depts.GetByID(ctx, id)
}

func (s *catalogServiceImpl) CreateDept(ctx context.Context, p *models.Principal, dept *models.Dept) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	dept.ID, dept.Name = strings.TrimSpace(dept.ID), strings.TrimSpace(dept.Name)
	vErr := &apperrors.ValidationError{}
	required(vErr, "id", dept.ID)
	required(vErr, "name", dept.Name)
	if err := validationResult(vErr); err != nil {
		return err
	}

	if err := s.repos.Depts.Create(ctx, dept); err != nil {
		return duplicate(err, "id", "a department")
	}
	s.logger.Info().Str("deptID", dept.ID).Msg("Department created")
	return nil
}

func (s *catalogServiceImpl) UpdateDept(ctx context.Context, p *models.Principal, dept *models.Dept) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	dept.Name = strings.TrimSpace(dept.Name)
	if dept.Name == "" {
		return apperrors.NewValidationError("name", "name is a required field")
	}
	return s.repos.Depts.Update(ctx, dept)
}

// Classes

func (s *catalogServiceImpl) ListClasses(ctx context.Context, p *models.Principal) ([]*models.Class, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Classes.List(ctx)
}

func (s *catalogServiceImpl) GetClass(ctx context.Context, p *models.Principal, id string) (*models.Class, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Classes.GetByID(ctx, id)
}

func (s *catalogServiceImpl) validateClass(ctx context.Context, class *models.Class) error {
	class.Section = strings.ToUpper(strings.TrimSpace(class.Section))
	vErr := &apperrors.ValidationError{}
	if class.Sem < 1 || class.Sem > 10 {
		vErr.Add("sem", "sem must be between 1 and 10")
	}
	if len(class.Section) != 1 || class.Section[0] < 'A' || class.Section[0] > 'Z' {
		vErr.Add("section", "section must be a single capital letter")
	}
	if err := validationResult(vErr); err != nil {
		return err
	}
	_, err := s.repos.Depts.GetByID(ctx, class.DeptID)
	return reference(err, "dept_id")
}

func (s *catalogServiceImpl) CreateClass(ctx context.Context, p *models.Principal, class *models.Class) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	if err := s.validateClass(ctx, class); err != nil {
		return err
	}
	if err := s.repos.Classes.Create(ctx, class); err != nil {
		return duplicate(err, "id", "a class")
	}
	s.logger.Info().Str("classID", class.ID).Msg("Class created")
	return nil
}

func (s *catalogServiceImpl) UpdateClass(ctx context.Context, p *models.Principal, class *models.Class) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	if _, err := s.repos.Classes.GetByID(ctx, class.ID); err != nil {
		return err
	}
	if err := s.validateClass(ctx, class); err != nil {
		return err
	}
	return s.repos.Classes.Update(ctx, class)
}

// Courses

func (s *catalogServiceImpl) ListCourses(ctx context.Context, p *models.Principal) ([]*models.Course, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Courses.List(ctx)
}

func (s *catalogServiceImpl) GetCourse(ctx context.Context, p *models.Principal, id string) (*models.Course, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Courses.GetByID(ctx, id)
}

func (s *catalogServiceImpl) validateCourse(ctx context.Context, course *models.Course) error {
	course.Name, course.Shortname = strings.TrimSpace(course.Name), strings.TrimSpace(course.Shortname)
	vErr := &apperrors.ValidationError{}
	required(vErr, "name", course.Name)
	required(vErr, "shortname", course.Shortname)
	if err := validationResult(vErr); err != nil {
		return err
	}
	_, err := s.repos.Depts.GetByID(ctx, course.DeptID)
	return reference(err, "dept_id")
}

func (s *catalogServiceImpl) CreateCourse(ctx context.Context, p *models.Principal, course *models.Course) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	if err := s.validateCourse(ctx, course); err != nil {
		return err
	}
	if err := s.repos.Courses.Create(ctx, course); err != nil {
		return duplicate(err, "id", "a course")
	}
	s.logger.Info().Str("courseID", course.ID).Msg("Course created")
	return nil
}

func (s *catalogServiceImpl) UpdateCourse(ctx context.Context, p *models.Principal, course *models.Course) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	if _, err := s.repos.Courses.GetByID(ctx, course.ID); err != nil {
		return err
	}
	if err := s.validateCourse(ctx, course); err != nil {
		return err
	}
	return s.repos.Courses.Update(ctx, course)
}

// People

// prepareAccount hashes the password of a new account, or checks that the
// linked user exists
func (s *catalogServiceImpl) prepareAccount(ctx context.Context, userID int64, account *models.User) error {
	if account == nil {
		if userID <= 0 {
			return apperrors.NewValidationError("user_id", "either user_id or username and password are required")
		}
		_, err := s.repos.Users.GetByID(ctx, userID)
		return reference(err, "user_id")
	}

	account.Username = strings.TrimSpace(account.Username)
	if account.Username == "" {
		return apperrors.NewValidationError("username", "username is a required field")
	}
	if err := ValidatePassword(account.Password); err != nil {
		return err
	}
	hash, err := pkgauth.HashPassword(account.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	account.Password = hash
	account.IsActive = true
	return nil
}

func validatePerson(name, sex string) error {
	vErr := &apperrors.ValidationError{}
	required(vErr, "name", name)
	if sex != models.SexMale && sex != models.SexFemale {
		vErr.Add("sex", "sex must be one of [Male Female]")
	}
	return validationResult(vErr)
}

func (s *catalogServiceImpl) ListTeachers(ctx context.Context, p *models.Principal) ([]*models.Teacher, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Teachers.List(ctx)
}

func (s *catalogServiceImpl) GetTeacher(ctx context.Context, p *models.Principal, id string) (*models.Teacher, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Teachers.GetByID(ctx, id)
}

func (s *catalogServiceImpl) CreateTeacher(ctx context.Context, p *models.Principal, teacher *models.Teacher, account *models.User) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	teacher.Name = strings.TrimSpace(teacher.Name)
	if err := validatePerson(teacher.Name, teacher.Sex); err != nil {
		return err
	}
	if _, err := s.repos.Depts.GetByID(ctx, teacher.DeptID); err != nil {
		return reference(err, "dept_id")
	}
	if err := s.prepareAccount(ctx, teacher.UserID, account); err != nil {
		return err
	}

	if err := s.repos.Teachers.Create(ctx, teacher, account); err != nil {
		return duplicate(err, "id", "a teacher")
	}
	s.logger.Info().Str("teacherID", teacher.ID).Int64("userID", teacher.UserID).Msg("Teacher created")
	return nil
}

func (s *catalogServiceImpl) UpdateTeacher(ctx context.Context, p *models.Principal, teacher *models.Teacher) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	existing, err := s.repos.Teachers.GetByID(ctx, teacher.ID)
	if err != nil {
		return err
	}
	teacher.Name = strings.TrimSpace(teacher.Name)
	if err := validatePerson(teacher.Name, teacher.Sex); err != nil {
		return err
	}
	if _, err := s.repos.Depts.GetByID(ctx, teacher.DeptID); err != nil {
		return reference(err, "dept_id")
	}
	teacher.UserID = existing.UserID
	return s.repos.Teachers.Update(ctx, teacher)
}

func (s *catalogServiceImpl) ListStudents(ctx context.Context, p *models.Principal) ([]*models.Student, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Students.List(ctx)
}

func (s *catalogServiceImpl) GetStudent(ctx context.Context, p *models.Principal, usn string) (*models.Student, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Students.GetByUSN(ctx, usn)
}

func (s *catalogServiceImpl) CreateStudent(ctx context.Context, p *models.Principal, student *models.Student, account *models.User) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	student.Name = strings.TrimSpace(student.Name)
	if err := validatePerson(student.Name, student.Sex); err != nil {
		return err
	}
	if _, err := s.repos.Classes.GetByID(ctx, student.ClassID); err != nil {
		return reference(err, "class_id")
	}
	if err := s.prepareAccount(ctx, student.UserID, account); err != nil {
		return err
	}

	if err := s.repos.Students.Create(ctx, student, account); err != nil {
		return duplicate(err, "USN", "a student")
	}
	s.logger.Info().Str("usn", student.USN).Int64("userID", student.UserID).Msg("Student created")
	return nil
}

// UpdateStudent saves profile fields. Moving a student to another class
// keeps existing enrollments; they are adjusted through Enroll/Unenroll.
func (s *catalogServiceImpl) UpdateStudent(ctx context.Context, p *models.Principal, student *models.Student) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	existing, err := s.repos.Students.GetByUSN(ctx, student.USN)
	if err != nil {
		return err
	}
	student.Name = strings.TrimSpace(student.Name)
	if err := validatePerson(student.Name, student.Sex); err != nil {
		return err
	}
	if _, err := s.repos.Classes.GetByID(ctx, student.ClassID); err != nil {
		return reference(err, "class_id")
	}
	student.UserID = existing.UserID
	return s.repos.Students.Update(ctx, student)
}

// Assignments and enrollment

func (s *catalogServiceImpl) ListAssigns(ctx context.Context, p *models.Principal) ([]*models.Assign, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Assigns.List(ctx)
}

func (s *catalogServiceImpl) GetAssign(ctx context.Context, p *models.Principal, id int64) (*models.Assign, error) {
	if err := auth.RequireAdmin(p); err != nil {
		return nil, err
	}
	return s.repos.Assigns.GetByID(ctx, id)
}

// CreateAssign binds a teacher to a class and course and enrolls every
// student of the class in the course
func (s *catalogServiceImpl) CreateAssign(ctx context.Context, p *models.Principal, assign *models.Assign) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	vErr := &apperrors.ValidationError{}
	if _, err := s.repos.Classes.GetByID(ctx, assign.ClassID); err != nil {
		if !apperrors.IsNotFound(err) {
			return err
		}
		vErr.Add("class_id", err.Error())
	}
	if _, err := s.repos.Courses.GetByID(ctx, assign.CourseID); err != nil {
		if !apperrors.IsNotFound(err) {
			return err
		}
		vErr.Add("course_id", err.Error())
	}
	if _, err := s.repos.Teachers.GetByID(ctx, assign.TeacherID); err != nil {
		if !apperrors.IsNotFound(err) {
			return err
		}
		vErr.Add("teacher_id", err.Error())
	}
	if err := validationResult(vErr); err != nil {
		return err
	}

	if err := s.repos.Assigns.Create(ctx, assign); err != nil {
		return err
	}
	s.logger.Info().
		Int64("assignID", assign.ID).
		Str("classID", assign.ClassID).
		Str("courseID", assign.CourseID).
		Str("teacherID", assign.TeacherID).
		Msg("Assignment created")
	return nil
}

func (s *catalogServiceImpl) ReassignTeacher(ctx context.Context, p *models.Principal, id int64, teacherID string) (*models.Assign, error) {
	if err := auth.RequireAdminWrite(p); err != nil {
		return nil, err
	}
	if _, err := s.repos.Assigns.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.repos.Teachers.GetByID(ctx, teacherID); err != nil {
		return nil, reference(err, "teacher_id")
	}
	if err := s.repos.Assigns.UpdateTeacher(ctx, id, teacherID); err != nil {
		if errors.Is(err, apperrors.ErrSlotTaken) {
			return nil, apperrors.NewCustomError(apperrors.ErrSlotTaken,
				fmt.Sprintf("teacher %s already teaches in one of this assignment's timetable slots", teacherID))
		}
		return nil, err
	}
	s.logger.Info().Int64("assignID", id).Str("teacherID", teacherID).Msg("Assignment moved to another teacher")
	return s.repos.Assigns.GetByID(ctx, id)
}

func (s *catalogServiceImpl) enrollmentTarget(ctx context.Context, usn, courseID string) error {
	if _, err := s.repos.Students.GetByUSN(ctx, usn); err != nil {
		return reference(err, "USN")
	}
	_, err := s.repos.Courses.GetByID(ctx, courseID)
	return reference(err, "course_id")
}

func (s *catalogServiceImpl) Enroll(ctx context.Context, p *models.Principal, usn, courseID string) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	if err := s.enrollmentTarget(ctx, usn, courseID); err != nil {
		return err
	}
	if err := s.repos.Enrollments.Enroll(ctx, usn, courseID); err != nil {
		return err
	}
	s.logger.Info().Str("usn", usn).Str("courseID", courseID).Msg("Student enrolled")
	return nil
}

func (s *catalogServiceImpl) Unenroll(ctx context.Context, p *models.Principal, usn, courseID string) error {
	if err := auth.RequireAdminWrite(p); err != nil {
		return err
	}
	if err := s.enrollmentTarget(ctx, usn, courseID); err != nil {
		return err
	}
	if err := s.repos.Enrollments.Unenroll(ctx, usn, courseID); err != nil {
		return err
	}
	s.logger.Info().Str("usn", usn).Str("courseID", courseID).Msg("Student unenrolled")
	return nil
}

func (s *catalogServiceImpl) StudentCourses(ctx context.Context, p *models.Principal, usn string) ([]*models.Course, error) {
	if err := auth.RequireStudentAccess(p, usn); err != nil {
		return nil, err
	}
	if _, err := s.repos.Students.GetByUSN(ctx, usn); err != nil {
		return nil, err
	}
	return s.repos.Enrollments.ListCourses(ctx, usn)
}

// Own profiles

func (s *catalogServiceImpl) StudentProfile(ctx context.Context, p *models.Principal) (*models.StudentProfile, error) {
	if err := auth.RequireRole(p, models.RoleStudent); err != nil {
		return nil, err
	}
	student, err := s.repos.Students.GetByUSN(ctx, p.USN)
	if err != nil {
		return nil, err
	}
	class, err := s.repos.Classes.GetByID(ctx, student.ClassID)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.Users.GetByID(ctx, student.UserID)
	if err != nil {
		return nil, err
	}
	return &models.StudentProfile{Student: student, Class: class, User: user}, nil
}

func (s *catalogServiceImpl) TeacherProfile(ctx context.Context, p *models.Principal) (*models.TeacherProfile, error) {
	if err := auth.RequireRole(p, models.RoleTeacher); err != nil {
		return nil, err
	}
	teacher, err := s.repos.Teachers.GetByID(ctx, p.TeacherID)
	if err != nil {
		return nil, err
	}
	dept, err := s.repos.Depts.GetByID(ctx, teacher.DeptID)
	if err != nil {
		return nil, err
	}
	user, err := s.repos.Users.GetByID(ctx, teacher.UserID)
	if err != nil {
		return nil, err
	}
	return &models.TeacherProfile{Teacher: teacher, Dept: dept, User: user}, nil
}
