package models

import "time"

// Sex values accepted for people profiles
const (
	SexMale   = "Male"
	SexFemale = "Female"
)

// Teacher is the teaching profile linked to exactly one principal
type Teacher struct {
	ID     string     `json:"id" db:"id" example:"T001"`
	UserID int64      `json:"user_id" db:"user_id"`
	DeptID string     `json:"dept_id" db:"dept_id" example:"CS"`
	Name   string     `json:"name" db:"name" example:"Meera Iyer"`
	Sex    string     `json:"sex" db:"sex" example:"Female"`
	DOB    *time.Time `json:"dob,omitempty" db:"dob"`
}

// Student is the student profile linked to exactly one principal
type Student struct {
	USN     string     `json:"USN" db:"usn" example:"1CS001"`
	UserID  int64      `json:"user_id" db:"user_id"`
	ClassID string     `json:"class_id" db:"class_id" example:"CS5A"`
	Name    string     `json:"name" db:"name" example:"Asha Rao"`
	Sex     string     `json:"sex" db:"sex" example:"Female"`
	DOB     *time.Time `json:"dob,omitempty" db:"dob"`
}

// StudentCourse is the enrollment join between a student and a course
type StudentCourse struct {
	ID       int64  `json:"id" db:"id"`
	USN      string `json:"usn" db:"usn"`
	CourseID string `json:"course_id" db:"course_id"`
}
