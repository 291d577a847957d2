package dto

import "github.com/yigit/collegeerp/internal/app/models"

// ComponentMarksItem is one graded component with the caller's score
type ComponentMarksItem struct {
	ID         int64    `json:"id" example:"3"`
	Name       string   `json:"name" example:"Internal test 1"`
	Marks      *float64 `json:"marks" example:"17.5"`
	TotalMarks int      `json:"total_marks" example:"20"`
}

// CourseMarksItem is one enrolled course in a student's marks summary
type CourseMarksItem struct {
	CourseID   string               `json:"course_id" example:"CS510"`
	CourseName string               `json:"course_name" example:"Compilers"`
	Components []ComponentMarksItem `json:"components"`
}

// ComponentResponse is a graded component as the owning teacher sees it
type ComponentResponse struct {
	ID         int64  `json:"id"`
	AssignID   int64  `json:"assign_id"`
	Name       string `json:"name"`
	TotalMarks int    `json:"total_marks"`
	Published  bool   `json:"status"`
}

// TeacherMarksItem lists the components of one assignment of the caller
type TeacherMarksItem struct {
	AssignID   int64               `json:"assign_id"`
	ClassID    string              `json:"class_id"`
	ClassName  string              `json:"class_name"`
	CourseID   string              `json:"course_id"`
	CourseName string              `json:"course_name"`
	Components []ComponentResponse `json:"components"`
}

// StudentMarksItem is one student's score for a component
type StudentMarksItem struct {
	USN   string   `json:"USN"`
	Name  string   `json:"name"`
	Marks *float64 `json:"marks"`
}

// ComponentSheetResponse is the entry sheet of one component
type ComponentSheetResponse struct {
	Component ComponentResponse  `json:"component"`
	CourseID  string             `json:"course_id"`
	ClassID   string             `json:"class_id"`
	Students  []StudentMarksItem `json:"students"`
}

// CreateComponentRequest adds a graded component to an assignment.
// TotalMarks defaults from the component name when omitted.
type CreateComponentRequest struct {
	Name       string `json:"name" form:"name" binding:"required,max=50"`
	TotalMarks *int   `json:"total_marks" form:"total_marks" binding:"omitempty,min=1,max=1000"`
	Published  bool   `json:"status" form:"status"`
}

// UpdateComponentRequest renames, rescales or (un)publishes a component
type UpdateComponentRequest struct {
	Name       string `json:"name" form:"name" binding:"required,max=50"`
	TotalMarks *int   `json:"total_marks" form:"total_marks" binding:"omitempty,min=1,max=1000"`
	Published  bool   `json:"status" form:"status"`
}

// MarksEntryItem is one submitted score
type MarksEntryItem struct {
	USN   string  `json:"usn" binding:"required,entity_id"`
	Marks float64 `json:"marks" binding:"min=0"`
}

// EnterMarksRequest submits scores for a component
type EnterMarksRequest struct {
	Records []MarksEntryItem `json:"records" binding:"required,min=1,dive"`
}

// ToEntries converts the request into marks entries
func (r *EnterMarksRequest) ToEntries() []models.MarksEntry {
	entries := make([]models.MarksEntry, 0, len(r.Records))
	for _, rec := range r.Records {
		entries = append(entries, models.MarksEntry{USN: rec.USN, Marks: rec.Marks})
	}
	return entries
}

// NewComponentMarksItems maps component scores
func NewComponentMarksItems(scores []*models.ComponentScore) []ComponentMarksItem {
	out := make([]ComponentMarksItem, 0, len(scores))
	for _, s := range scores {
		out = append(out, ComponentMarksItem{
			ID:         s.Component.ID,
			Name:       s.Component.Name,
			Marks:      s.Marks,
			TotalMarks: s.Component.TotalMarks,
		})
	}
	return out
}

// NewCourseMarksItems maps a student's marks summary
func NewCourseMarksItems(courses []*models.CourseMarks) []CourseMarksItem {
	out := make([]CourseMarksItem, 0, len(courses))
	for _, c := range courses {
		out = append(out, CourseMarksItem{
			CourseID:   c.Course.ID,
			CourseName: c.Course.Name,
			Components: NewComponentMarksItems(c.Components),
		})
	}
	return out
}

// NewComponentResponse maps a component
func NewComponentResponse(c *models.MarksClass) ComponentResponse {
	return ComponentResponse{
		ID:         c.ID,
		AssignID:   c.AssignID,
		Name:       c.Name,
		TotalMarks: c.TotalMarks,
		Published:  c.Published,
	}
}

// NewTeacherMarksItems maps the caller's assignments and components
func NewTeacherMarksItems(items []*models.AssignComponents) []TeacherMarksItem {
	out := make([]TeacherMarksItem, 0, len(items))
	for _, it := range items {
		item := TeacherMarksItem{
			AssignID:   it.Assign.ID,
			ClassID:    it.Assign.ClassID,
			CourseID:   it.Assign.CourseID,
			Components: make([]ComponentResponse, 0, len(it.Components)),
		}
		if it.Assign.Class != nil {
			item.ClassName = it.Assign.Class.DisplayName()
		}
		if it.Assign.Course != nil {
			item.CourseName = it.Assign.Course.Name
		}
		for _, c := range it.Components {
			item.Components = append(item.Components, NewComponentResponse(c))
		}
		out = append(out, item)
	}
	return out
}

// NewComponentSheetResponse maps an entry sheet
func NewComponentSheetResponse(s *models.ComponentSheet) ComponentSheetResponse {
	resp := ComponentSheetResponse{
		Component: NewComponentResponse(s.Component),
		CourseID:  s.Assign.CourseID,
		ClassID:   s.Assign.ClassID,
		Students:  make([]StudentMarksItem, 0, len(s.Scores)),
	}
	for _, sc := range s.Scores {
		resp.Students = append(resp.Students, StudentMarksItem{
			USN:   sc.Student.USN,
			Name:  sc.Student.Name,
			Marks: sc.Marks,
		})
	}
	return resp
}

// NewComponentSheetResponses maps entry sheets
func NewComponentSheetResponses(sheets []*models.ComponentSheet) []ComponentSheetResponse {
	out := make([]ComponentSheetResponse, 0, len(sheets))
	for _, s := range sheets {
		out = append(out, NewComponentSheetResponse(s))
	}
	return out
}
