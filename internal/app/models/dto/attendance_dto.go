package dto

import (
	"github.com/yigit/collegeerp/internal/app/models"
)

// AttendanceSummaryItem is one enrolled course in a student's summary
type AttendanceSummaryItem struct {
	CourseID        string  `json:"course_id" example:"CS510"`
	CourseName      string  `json:"course_name" example:"Compilers"`
	Attended        int     `json:"attended" example:"9"`
	Total           int     `json:"total" example:"10"`
	Attendance      float64 `json:"attendance" example:"90"`
	ClassesToAttend int     `json:"classes_to_attend" example:"0"`
}

// AttendanceRecord is one dated attendance row
type AttendanceRecord struct {
	CourseID string `json:"course_id" example:"CS510"`
	Date     string `json:"date" example:"2025-01-01"`
	Status   string `json:"status" example:"Present" enums:"Present,Absent"`
}

// AttendanceReportRequest asks for every record of the caller within a date range
type AttendanceReportRequest struct {
	StartDate string `json:"start_date" form:"start_date" binding:"required,datetime=2006-01-02" example:"2025-01-01"`
	EndDate   string `json:"end_date" form:"end_date" binding:"required,datetime=2006-01-02" example:"2025-01-31"`
}

// TeacherAttendanceItem summarises one assignment of the caller
type TeacherAttendanceItem struct {
	AssignID   int64  `json:"assign_id" example:"1"`
	ClassID    string `json:"class_id" example:"CS5A"`
	ClassName  string `json:"class_name" example:"Computer Science : 5 A"`
	CourseID   string `json:"course_id" example:"CS510"`
	CourseName string `json:"course_name" example:"Compilers"`
	Sessions   int    `json:"sessions" example:"12"`
	Held       int    `json:"held" example:"11"`
}

// StudentAttendanceItem is one student's aggregate inside a course
type StudentAttendanceItem struct {
	USN             string  `json:"USN" example:"1CS001"`
	Name            string  `json:"name" example:"Asha Rao"`
	Attended        int     `json:"attended"`
	Total           int     `json:"total"`
	Attendance      float64 `json:"attendance"`
	ClassesToAttend int     `json:"classes_to_attend"`
}

// CourseRosterResponse lists the students of one assignment
type CourseRosterResponse struct {
	AssignID   int64                   `json:"assign_id"`
	ClassID    string                  `json:"class_id"`
	CourseID   string                  `json:"course_id"`
	CourseName string                  `json:"course_name"`
	Students   []StudentAttendanceItem `json:"students"`
}

// OpenSessionRequest opens (or reopens) the session of a date
type OpenSessionRequest struct {
	Date string `json:"date" form:"date" binding:"required,datetime=2006-01-02" example:"2025-01-01"`
}

// SessionStatusRequest marks a session held or cancelled
type SessionStatusRequest struct {
	Held *bool `json:"status" form:"status" binding:"required"`
}

// SessionResponse is one attendance session
type SessionResponse struct {
	ID       int64  `json:"id"`
	AssignID int64  `json:"assign_id"`
	Date     string `json:"date" example:"2025-01-01"`
	Held     bool   `json:"status"`
}

// AttendanceMarkItem is one student's submitted status
type AttendanceMarkItem struct {
	USN    string `json:"usn" binding:"required,entity_id"`
	Status string `json:"status" binding:"required,attendance_status"`
}

// MarkAttendanceRequest submits statuses for a session
type MarkAttendanceRequest struct {
	Records []AttendanceMarkItem `json:"records" binding:"required,min=1,dive"`
}

// RosterItem is a student with the status recorded for a session
type RosterItem struct {
	USN    string `json:"USN"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// SessionRosterResponse is the marking sheet of a session
type SessionRosterResponse struct {
	Session  SessionResponse `json:"session"`
	CourseID string          `json:"course_id"`
	Students []RosterItem    `json:"students"`
}

// NewAttendanceSummary maps course totals to summary items
func NewAttendanceSummary(items []*models.CourseAttendance) []AttendanceSummaryItem {
	out := make([]AttendanceSummaryItem, 0, len(items))
	for _, it := range items {
		out = append(out, AttendanceSummaryItem{
			CourseID:        it.Course.ID,
			CourseName:      it.Course.Name,
			Attended:        it.Total.Attended,
			Total:           it.Total.Total,
			Attendance:      it.Total.Percentage(),
			ClassesToAttend: it.Total.ClassesToAttend(),
		})
	}
	return out
}

// NewAttendanceRecords maps attendance rows
func NewAttendanceRecords(rows []*models.Attendance) []AttendanceRecord {
	out := make([]AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, AttendanceRecord{
			CourseID: r.CourseID,
			Date:     r.Date.Format(models.DateLayout),
			Status:   string(r.Status),
		})
	}
	return out
}

// NewTeacherAttendanceItems maps assignment overviews
func NewTeacherAttendanceItems(items []*models.AssignOverview) []TeacherAttendanceItem {
	out := make([]TeacherAttendanceItem, 0, len(items))
	for _, it := range items {
		item := TeacherAttendanceItem{
			AssignID: it.Assign.ID,
			ClassID:  it.Assign.ClassID,
			CourseID: it.Assign.CourseID,
			Sessions: it.Sessions,
			Held:     it.Held,
		}
		if it.Assign.Class != nil {
			item.ClassName = it.Assign.Class.DisplayName()
		}
		if it.Assign.Course != nil {
			item.CourseName = it.Assign.Course.Name
		}
		out = append(out, item)
	}
	return out
}

// NewCourseRosters maps per assignment student totals
func NewCourseRosters(rosters []*models.CourseRoster) []CourseRosterResponse {
	out := make([]CourseRosterResponse, 0, len(rosters))
	for _, r := range rosters {
		resp := CourseRosterResponse{
			AssignID: r.Assign.ID,
			ClassID:  r.Assign.ClassID,
			CourseID: r.Assign.CourseID,
			Students: make([]StudentAttendanceItem, 0, len(r.Students)),
		}
		if r.Assign.Course != nil {
			resp.CourseName = r.Assign.Course.Name
		}
		for _, s := range r.Students {
			resp.Students = append(resp.Students, StudentAttendanceItem{
				USN:             s.Student.USN,
				Name:            s.Student.Name,
				Attended:        s.Total.Attended,
				Total:           s.Total.Total,
				Attendance:      s.Total.Percentage(),
				ClassesToAttend: s.Total.ClassesToAttend(),
			})
		}
		out = append(out, resp)
	}
	return out
}

// NewSessionResponse maps a session
func NewSessionResponse(s *models.AttendanceClass) SessionResponse {
	return SessionResponse{
		ID:       s.ID,
		AssignID: s.AssignID,
		Date:     s.Date.Format(models.DateLayout),
		Held:     s.Held,
	}
}

// NewSessionResponses maps sessions
func NewSessionResponses(sessions []*models.AttendanceClass) []SessionResponse {
	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, NewSessionResponse(s))
	}
	return out
}

// NewSessionRosterResponse maps a marking sheet
func NewSessionRosterResponse(r *models.SessionRoster) SessionRosterResponse {
	resp := SessionRosterResponse{
		Session:  NewSessionResponse(r.Session),
		CourseID: r.Assign.CourseID,
		Students: make([]RosterItem, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		item := RosterItem{USN: e.Student.USN, Name: e.Student.Name}
		if e.Status != nil {
			item.Status = string(*e.Status)
		}
		resp.Students = append(resp.Students, item)
	}
	return resp
}

// ToMarks converts the request into attendance marks
func (r *MarkAttendanceRequest) ToMarks() []models.AttendanceMark {
	marks := make([]models.AttendanceMark, 0, len(r.Records))
	for _, rec := range r.Records {
		marks = append(marks, models.AttendanceMark{USN: rec.USN, Status: models.AttendanceStatus(rec.Status)})
	}
	return marks
}

// AssignSessionsResponse lists the sessions of one assignment
type AssignSessionsResponse struct {
	Assign   AssignResponse    `json:"assign"`
	Sessions []SessionResponse `json:"sessions"`
}
