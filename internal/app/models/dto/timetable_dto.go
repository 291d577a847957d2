package dto

import "github.com/yigit/collegeerp/internal/app/models"

// TimetableCell is one scheduled period
type TimetableCell struct {
	AssignTimeID int64  `json:"assign_time_id"`
	AssignID     int64  `json:"assign_id"`
	ClassID      string `json:"class_id" example:"CS5A"`
	CourseID     string `json:"course_id" example:"CS510"`
	CourseName   string `json:"course_name" example:"Compilers"`
	Shortname    string `json:"shortname" example:"CD"`
	TeacherID    string `json:"teacher_id" example:"T001"`
	TeacherName  string `json:"teacher_name" example:"Meera Iyer"`
}

// TimetableDay is one weekday; a null period is unscheduled
type TimetableDay struct {
	Day     string           `json:"day" example:"Monday"`
	Periods []*TimetableCell `json:"periods"`
}

// TimetableResponse is the weekly grid
type TimetableResponse struct {
	PeriodLabels []string       `json:"period_labels"`
	Days         []TimetableDay `json:"days"`
}

// AddSlotRequest schedules an assignment in a weekly period
type AddSlotRequest struct {
	Day    string `json:"day" form:"day" binding:"required,day" example:"Monday"`
	Period int    `json:"period" form:"period" binding:"required,min=1,max=8" example:"1"`
}

// SlotResponse is a stored weekly slot
type SlotResponse struct {
	ID       int64  `json:"id"`
	AssignID int64  `json:"assign_id"`
	ClassID  string `json:"class_id"`
	Day      string `json:"day"`
	Period   int    `json:"period"`
}

// NewTimetableResponse maps the grid
func NewTimetableResponse(tt *models.Timetable) TimetableResponse {
	resp := TimetableResponse{
		PeriodLabels: models.PeriodLabels[:],
		Days:         make([]TimetableDay, 0, len(tt.Rows)),
	}
	for _, row := range tt.Rows {
		day := TimetableDay{Day: string(row.Day), Periods: make([]*TimetableCell, len(row.Periods))}
		for i, s := range row.Periods {
			if s == nil {
				continue
			}
			day.Periods[i] = &TimetableCell{
				AssignTimeID: s.AssignTimeID,
				AssignID:     s.AssignID,
				ClassID:      s.ClassID,
				CourseID:     s.CourseID,
				CourseName:   s.CourseName,
				Shortname:    s.CourseShortname,
				TeacherID:    s.TeacherID,
				TeacherName:  s.TeacherName,
			}
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}

// NewSlotResponse maps a slot
func NewSlotResponse(s *models.AssignTime) SlotResponse {
	return SlotResponse{
		ID:       s.ID,
		AssignID: s.AssignID,
		ClassID:  s.ClassID,
		Day:      string(s.Day),
		Period:   s.Period,
	}
}
