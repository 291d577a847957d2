package models

// Assign binds one teacher to one (class, course) pair
type Assign struct {
	ID        int64  `json:"id" db:"id" example:"1"`
	ClassID   string `json:"class_id" db:"class_id" example:"CS5A"`
	CourseID  string `json:"course_id" db:"course_id" example:"CS510"`
	TeacherID string `json:"teacher_id" db:"teacher_id" example:"T001"`

	// Relations (populated when needed)
	Class   *Class   `json:"class,omitempty"`
	Course  *Course  `json:"course,omitempty"`
	Teacher *Teacher `json:"teacher,omitempty"`
}

// AssignTime is a weekly (day, period) slot of an Assign
type AssignTime struct {
	ID       int64  `json:"id" db:"id"`
	AssignID int64  `json:"assign_id" db:"assign_id"`
	ClassID  string `json:"class_id" db:"class_id"`
	Day      Day    `json:"day" db:"day" example:"Monday"`
	Period   int    `json:"period" db:"period" example:"1"`
}

// ScheduledSlot is an AssignTime joined with what the timetable shows
type ScheduledSlot struct {
	AssignTimeID    int64  `json:"assign_time_id"`
	AssignID        int64  `json:"assign_id"`
	Day             Day    `json:"day"`
	Period          int    `json:"period"`
	ClassID         string `json:"class_id"`
	CourseID        string `json:"course_id"`
	CourseName      string `json:"course_name"`
	CourseShortname string `json:"course_shortname"`
	TeacherID       string `json:"teacher_id"`
	TeacherName     string `json:"teacher_name"`
}
