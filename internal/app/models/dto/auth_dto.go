package dto

import (
	"time"

	"github.com/yigit/collegeerp/internal/app/models"
)

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// LoginResponse is returned by the API login endpoint
type LoginResponse struct {
	Token    string `json:"token" example:"9f86d081884c7d659a2feaa0c55ad015"`
	UserType string `json:"user_type" example:"student" enums:"admin,teacher,student"`
}

// StudentDetailResponse is the caller's own student profile
type StudentDetailResponse struct {
	USN       string `json:"USN" example:"1CS001"`
	Name      string `json:"name" example:"Asha Rao"`
	Sex       string `json:"sex" example:"Female"`
	DOB       string `json:"DOB,omitempty" example:"2003-04-05"`
	ClassID   string `json:"class_id" example:"CS5A"`
	ClassName string `json:"class_name" example:"Computer Science : 5 A"`
	DeptID    string `json:"dept_id" example:"CS"`
	Username  string `json:"username" example:"1cs001"`
	Email     string `json:"email,omitempty"`
}

// TeacherDetailResponse is the caller's own teacher profile
type TeacherDetailResponse struct {
	ID       string `json:"id" example:"T001"`
	Name     string `json:"name" example:"Meera Iyer"`
	Sex      string `json:"sex" example:"Female"`
	DOB      string `json:"DOB,omitempty" example:"1980-01-01"`
	DeptID   string `json:"dept_id" example:"CS"`
	DeptName string `json:"dept_name" example:"Computer Science"`
	Username string `json:"username" example:"t001"`
	Email    string `json:"email,omitempty"`
}

// NewStudentDetailResponse flattens a student profile
func NewStudentDetailResponse(p *models.StudentProfile) StudentDetailResponse {
	resp := StudentDetailResponse{
		USN:     p.Student.USN,
		Name:    p.Student.Name,
		Sex:     p.Student.Sex,
		DOB:     formatDate(p.Student.DOB),
		ClassID: p.Student.ClassID,
	}
	if p.Class != nil {
		resp.ClassName = p.Class.DisplayName()
		resp.DeptID = p.Class.DeptID
	}
	if p.User != nil {
		resp.Username = p.User.Username
		resp.Email = p.User.Email
	}
	return resp
}

// NewTeacherDetailResponse flattens a teacher profile
func NewTeacherDetailResponse(p *models.TeacherProfile) TeacherDetailResponse {
	resp := TeacherDetailResponse{
		ID:     p.Teacher.ID,
		Name:   p.Teacher.Name,
		Sex:    p.Teacher.Sex,
		DOB:    formatDate(p.Teacher.DOB),
		DeptID: p.Teacher.DeptID,
	}
	if p.Dept != nil {
		resp.DeptName = p.Dept.Name
	}
	if p.User != nil {
		resp.Username = p.User.Username
		resp.Email = p.User.Email
	}
	return resp
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(models.DateLayout)
}
