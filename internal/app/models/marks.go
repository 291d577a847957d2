package models

import "strings"

// Well-known component names and their default maximum marks
const (
	ComponentSemesterEnd = "Semester End Exam"
	DefaultTotalMarks    = 100
)

// MarksClass is a graded component under an Assign
type MarksClass struct {
	ID         int64  `json:"id" db:"id"`
	AssignID   int64  `json:"assign_id" db:"assign_id"`
	Name       string `json:"name" db:"name" example:"Internal test 1"`
	TotalMarks int    `json:"total_marks" db:"total_marks" example:"20"`
	// Published gates student visibility
	Published bool `json:"status" db:"published"`
}

// DefaultTotalFor returns the maximum marks conventionally used for a component name
func DefaultTotalFor(name string) int {
	n := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasPrefix(n, "internal test"):
		return 20
	case strings.HasPrefix(n, "event"):
		return 10
	default:
		return DefaultTotalMarks
	}
}

// Marks is one student's score in one component
type Marks struct {
	ID           int64   `json:"id" db:"id"`
	USN          string  `json:"usn" db:"usn"`
	MarksClassID int64   `json:"marks_class_id" db:"marks_class_id"`
	Marks        float64 `json:"marks" db:"marks"`
}

// MarksEntry is one teacher submission for one student
type MarksEntry struct {
	USN   string
	Marks float64
}

// ComponentScore is a component with the score of one student, nil when not entered
type ComponentScore struct {
	Component MarksClass
	CourseID  string
	Marks     *float64
}

// StudentScore is a student with the score for one component, nil when not entered
type StudentScore struct {
	Student Student
	Marks   *float64
}
