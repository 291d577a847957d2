package models

import (
	"math"
	"time"
)

// AttendanceStatus is the per-student outcome of a session
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
)

// Valid reports whether s is a known status
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// RequiredAttendance is the fraction of sessions a student must attend
const RequiredAttendance = 0.75

// AttendanceClass is one attendance-taking session of an Assign on a date
type AttendanceClass struct {
	ID       int64     `json:"id" db:"id"`
	AssignID int64     `json:"assign_id" db:"assign_id"`
	Date     time.Time `json:"date" db:"date"`
	// Held is false when the session was cancelled
	Held bool `json:"status" db:"held"`
}

// Attendance is one student's record for one course on one date
type Attendance struct {
	ID                int64            `json:"id" db:"id"`
	USN               string           `json:"usn" db:"usn"`
	CourseID          string           `json:"course_id" db:"course_id"`
	AttendanceClassID *int64           `json:"attendance_class_id,omitempty" db:"attendance_class_id"`
	Date              time.Time        `json:"date" db:"date"`
	Status            AttendanceStatus `json:"status" db:"status"`
}

// AttendanceTotal is the per (student, course) aggregate maintained by the attendance write path
type AttendanceTotal struct {
	USN       string    `json:"usn" db:"usn"`
	CourseID  string    `json:"course_id" db:"course_id"`
	Attended  int       `json:"attended" db:"attended"`
	Total     int       `json:"total" db:"total"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewAttendanceTotal derives the aggregate from a set of attendance rows
func NewAttendanceTotal(usn, courseID string, rows []*Attendance) AttendanceTotal {
	t := AttendanceTotal{USN: usn, CourseID: courseID}
	for _, r := range rows {
		if r.USN != usn || r.CourseID != courseID {
			continue
		}
		t.Total++
		if r.Status == StatusPresent {
			t.Attended++
		}
	}
	return t
}

// Percentage is attended/total*100 rounded to two decimals, 0 when nothing was held
func (t AttendanceTotal) Percentage() float64 {
	if t.Total == 0 {
		return 0
	}
	return math.Round(float64(t.Attended)/float64(t.Total)*100*100) / 100
}

// ClassesToAttend is how many consecutive attended sessions would lift the student to RequiredAttendance
func (t AttendanceTotal) ClassesToAttend() int {
	need := math.Ceil((RequiredAttendance*float64(t.Total) - float64(t.Attended)) / (1 - RequiredAttendance))
	if need < 0 {
		return 0
	}
	return int(need)
}

// AttendanceRange is a report window kept for audit and repeat use
type AttendanceRange struct {
	ID        int64     `json:"id" db:"id"`
	USN       string    `json:"usn" db:"usn"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Contains reports whether d falls within the closed range
func (r AttendanceRange) Contains(d time.Time) bool {
	d = TruncateDate(d)
	return !d.Before(TruncateDate(r.StartDate)) && !d.After(TruncateDate(r.EndDate))
}

// AttendanceMark is one teacher submission for one student
type AttendanceMark struct {
	USN    string
	Status AttendanceStatus
}

// CourseAttendance pairs an enrolled course with its aggregate
type CourseAttendance struct {
	Course Course
	Total  AttendanceTotal
}

// StudentAttendance pairs a student with its aggregate for one course
type StudentAttendance struct {
	Student Student
	Total   AttendanceTotal
}

// RosterEntry is a student with the status recorded for one session, if any
type RosterEntry struct {
	Student Student
	Status  *AttendanceStatus
}
