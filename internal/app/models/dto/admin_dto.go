package dto

import (
	"strings"
	"time"

	"github.com/yigit/collegeerp/internal/app/models"
)

// CreateDeptRequest represents department creation data
type CreateDeptRequest struct {
	ID   string `json:"id" form:"id" binding:"required,entity_id" example:"CS"`
	Name string `json:"name" form:"name" binding:"required,max=50" example:"Computer Science"`
}

// UpdateDeptRequest represents department update data
type UpdateDeptRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=50"`
}

// CreateClassRequest represents class creation data
type CreateClassRequest struct {
	ID      string `json:"id" form:"id" binding:"required,entity_id" example:"CS5A"`
	DeptID  string `json:"dept_id" form:"dept_id" binding:"required,entity_id" example:"CS"`
	Sem     int    `json:"sem" form:"sem" binding:"required,min=1,max=10" example:"5"`
	Section string `json:"section" form:"section" binding:"required,section" example:"A"`
}

// UpdateClassRequest represents class update data
type UpdateClassRequest struct {
	DeptID  string `json:"dept_id" form:"dept_id" binding:"required,entity_id"`
	Sem     int    `json:"sem" form:"sem" binding:"required,min=1,max=10"`
	Section string `json:"section" form:"section" binding:"required,section"`
}

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	ID        string `json:"id" form:"id" binding:"required,entity_id" example:"CS510"`
	DeptID    string `json:"dept_id" form:"dept_id" binding:"required,entity_id" example:"CS"`
	Name      string `json:"name" form:"name" binding:"required,max=50" example:"Compilers"`
	Shortname string `json:"shortname" form:"shortname" binding:"required,max=50" example:"CD"`
}

// UpdateCourseRequest represents course update data
type UpdateCourseRequest struct {
	DeptID    string `json:"dept_id" form:"dept_id" binding:"required,entity_id"`
	Name      string `json:"name" form:"name" binding:"required,max=50"`
	Shortname string `json:"shortname" form:"shortname" binding:"required,max=50"`
}

// AccountRequest either links an existing user or creates a new one
type AccountRequest struct {
	UserID   *int64 `json:"user_id" form:"user_id" binding:"omitempty,gt=0"`
	Username string `json:"username" form:"username" binding:"required_without=UserID,max=150"`
	Password string `json:"password" form:"password" binding:"required_without=UserID"`
	Email    string `json:"email" form:"email" binding:"omitempty,email"`
}

// PersonRequest holds the profile fields shared by teachers and students
type PersonRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=100" example:"Asha Rao"`
	Sex  string `json:"sex" form:"sex" binding:"required,oneof=Male Female" example:"Female"`
	DOB  string `json:"DOB" form:"DOB" binding:"omitempty,datetime=2006-01-02" example:"2003-04-05"`
}

// CreateTeacherRequest represents teacher creation data
type CreateTeacherRequest struct {
	ID     string `json:"id" form:"id" binding:"required,entity_id" example:"T001"`
	DeptID string `json:"dept_id" form:"dept_id" binding:"required,entity_id" example:"CS"`
	PersonRequest
	AccountRequest
}

// UpdateTeacherRequest represents teacher update data
type UpdateTeacherRequest struct {
	DeptID string `json:"dept_id" form:"dept_id" binding:"required,entity_id"`
	PersonRequest
}

// CreateStudentRequest represents student creation data
type CreateStudentRequest struct {
	USN     string `json:"USN" form:"USN" binding:"required,entity_id" example:"1CS001"`
	ClassID string `json:"class_id" form:"class_id" binding:"required,entity_id" example:"CS5A"`
	PersonRequest
	AccountRequest
}

// UpdateStudentRequest represents student update data
type UpdateStudentRequest struct {
	ClassID string `json:"class_id" form:"class_id" binding:"required,entity_id"`
	PersonRequest
}

// CreateAssignRequest binds a teacher to a class and course
type CreateAssignRequest struct {
	ClassID   string `json:"class_id" form:"class_id" binding:"required,entity_id" example:"CS5A"`
	CourseID  string `json:"course_id" form:"course_id" binding:"required,entity_id" example:"CS510"`
	TeacherID string `json:"teacher_id" form:"teacher_id" binding:"required,entity_id" example:"T001"`
}

// UpdateAssignRequest moves an assignment to another teacher
type UpdateAssignRequest struct {
	TeacherID string `json:"teacher_id" form:"teacher_id" binding:"required,entity_id"`
}

// EnrollmentRequest enrolls or unenrolls a student
type EnrollmentRequest struct {
	USN      string `json:"USN" form:"USN" binding:"required,entity_id" example:"1CS001"`
	CourseID string `json:"course_id" form:"course_id" binding:"required,entity_id" example:"CS510"`
}

// AssignResponse is an assignment with display names
type AssignResponse struct {
	ID          int64  `json:"id"`
	ClassID     string `json:"class_id"`
	ClassName   string `json:"class_name"`
	CourseID    string `json:"course_id"`
	CourseName  string `json:"course_name"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
}

// ClassResponse is a class with its display name
type ClassResponse struct {
	ID      string `json:"id"`
	DeptID  string `json:"dept_id"`
	Sem     int    `json:"sem"`
	Section string `json:"section"`
	Name    string `json:"name"`
}

// PersonResponse is a teacher or student row in admin listings
type PersonResponse struct {
	ID      string `json:"id"`
	UserID  int64  `json:"user_id"`
	DeptID  string `json:"dept_id,omitempty"`
	ClassID string `json:"class_id,omitempty"`
	Name    string `json:"name"`
	Sex     string `json:"sex"`
	DOB     string `json:"DOB,omitempty"`
}

// Account returns the account to create, or nil when an existing user is linked
func (r *AccountRequest) Account() *models.User {
	if r.UserID != nil {
		return nil
	}
	return &models.User{
		Username: strings.TrimSpace(r.Username),
		Password: r.Password,
		Email:    strings.TrimSpace(r.Email),
		IsActive: true,
	}
}

// ParseDOB returns the optional date of birth
func (r *PersonRequest) ParseDOB() (*time.Time, error) {
	if strings.TrimSpace(r.DOB) == "" {
		return nil, nil
	}
	d, err := models.ParseDate(r.DOB)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ToTeacher builds the teacher and the optional account to create with it
func (r *CreateTeacherRequest) ToTeacher() (*models.Teacher, *models.User, error) {
	dob, err := r.ParseDOB()
	if err != nil {
		return nil, nil, err
	}
	teacher := &models.Teacher{ID: r.ID, DeptID: r.DeptID, Name: r.Name, Sex: r.Sex, DOB: dob}
	if r.UserID != nil {
		teacher.UserID = *r.UserID
	}
	account := r.Account()
	if account != nil {
		account.FirstName, account.LastName = splitName(r.Name)
	}
	return teacher, account, nil
}

// ToStudent builds the student and the optional account to create with it
func (r *CreateStudentRequest) ToStudent() (*models.Student, *models.User, error) {
	dob, err := r.ParseDOB()
	if err != nil {
		return nil, nil, err
	}
	student := &models.Student{USN: r.USN, ClassID: r.ClassID, Name: r.Name, Sex: r.Sex, DOB: dob}
	if r.UserID != nil {
		student.UserID = *r.UserID
	}
	account := r.Account()
	if account != nil {
		account.FirstName, account.LastName = splitName(r.Name)
	}
	return student, account, nil
}

func splitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	if i := strings.LastIndex(name, " "); i > 0 {
		return name[:i], name[i+1:]
	}
	return name, ""
}

// NewAssignResponse maps an assignment
func NewAssignResponse(a *models.Assign) AssignResponse {
	resp := AssignResponse{
		ID:        a.ID,
		ClassID:   a.ClassID,
		CourseID:  a.CourseID,
		TeacherID: a.TeacherID,
	}
	if a.Class != nil {
		resp.ClassName = a.Class.DisplayName()
	}
	if a.Course != nil {
		resp.CourseName = a.Course.Name
	}
	if a.Teacher != nil {
		resp.TeacherName = a.Teacher.Name
	}
	return resp
}

// NewAssignResponses maps assignments
func NewAssignResponses(assigns []*models.Assign) []AssignResponse {
	out := make([]AssignResponse, 0, len(assigns))
	for _, a := range assigns {
		out = append(out, NewAssignResponse(a))
	}
	return out
}

// NewClassResponse maps a class
func NewClassResponse(c *models.Class) ClassResponse {
	return ClassResponse{ID: c.ID, DeptID: c.DeptID, Sem: c.Sem, Section: c.Section, Name: c.DisplayName()}
}

// NewClassResponses maps classes
func NewClassResponses(classes []*models.Class) []ClassResponse {
	out := make([]ClassResponse, 0, len(classes))
	for _, c := range classes {
		out = append(out, NewClassResponse(c))
	}
	return out
}

// NewTeacherResponse maps a teacher
func NewTeacherResponse(t *models.Teacher) PersonResponse {
	return PersonResponse{ID: t.ID, UserID: t.UserID, DeptID: t.DeptID, Name: t.Name, Sex: t.Sex, DOB: formatDate(t.DOB)}
}

// NewTeacherResponses maps teachers
func NewTeacherResponses(teachers []*models.Teacher) []PersonResponse {
	out := make([]PersonResponse, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, NewTeacherResponse(t))
	}
	return out
}

// NewStudentResponse maps a student
func NewStudentResponse(s *models.Student) PersonResponse {
	return PersonResponse{ID: s.USN, UserID: s.UserID, ClassID: s.ClassID, Name: s.Name, Sex: s.Sex, DOB: formatDate(s.DOB)}
}

// NewStudentResponses maps students
func NewStudentResponses(students []*models.Student) []PersonResponse {
	out := make([]PersonResponse, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentResponse(s))
	}
	return out
}
