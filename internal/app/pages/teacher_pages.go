package pages

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/middleware"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

// TeacherHome lists the caller's assignments
func (h *Handler) TeacherHome(c *gin.Context) {
	items, err := h.attendance.TeacherOverview(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "teacher_home.html", gin.H{
		"Title":   "My classes",
		"Assigns": dto.NewTeacherAttendanceItems(items),
		"Days":    models.Days,
		"Periods": models.PeriodLabels,
	})
}

// TeacherTimetable shows the caller's weekly grid with slot removal
func (h *Handler) TeacherTimetable(c *gin.Context) {
	tt, err := h.timetable.ForCurrentTeacher(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "timetable.html", gin.H{
		"Title":     "My timetable",
		"Timetable": dto.NewTimetableResponse(tt),
		"Editable":  true,
	})
}

// CourseStudents lists attendance totals of every student for a course the caller teaches
func (h *Handler) CourseStudents(c *gin.Context) {
	courseID := c.Param("course_id")
	rosters, err := h.attendance.TeacherCourseDetail(c.Request.Context(), middleware.GetPrincipal(c), courseID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "course_students.html", gin.H{
		"Title":   "Students of " + courseID,
		"Rosters": dto.NewCourseRosters(rosters),
	})
}

func (h *Handler) renderSessions(c *gin.Context, status int, assignID int64, data gin.H) {
	assign, sessions, err := h.attendance.ListSessions(c.Request.Context(), middleware.GetPrincipal(c), assignID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = "Sessions"
	data["Assign"] = dto.NewAssignResponse(assign)
	data["Sessions"] = dto.NewSessionResponses(sessions)
	h.render(c, status, "sessions.html", data)
}

// Sessions lists the sessions of an owned assignment
func (h *Handler) Sessions(c *gin.Context) {
	assignID, err := idParam(c, "assign_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderSessions(c, http.StatusOK, assignID, nil)
}

// OpenSession opens the session of a date and continues to its marking sheet
func (h *Handler) OpenSession(c *gin.Context) {
	assignID, err := idParam(c, "assign_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	var req dto.OpenSessionRequest
	if err := c.ShouldBind(&req); err != nil {
		fields, _ := formErrors(err)
		h.renderSessions(c, http.StatusBadRequest, assignID, gin.H{"Errors": fields, "Date": req.Date})
		return
	}
	date, _ := models.ParseDate(req.Date)

	session, _, err := h.attendance.OpenSession(c.Request.Context(), middleware.GetPrincipal(c), assignID, date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/teacher/sessions/%d/attendance", session.ID))
}

// SetSessionStatus holds or cancels a session
func (h *Handler) SetSessionStatus(c *gin.Context) {
	sessionID, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	held := c.PostForm("status") == "true"
	session, err := h.attendance.SetSessionStatus(c.Request.Context(), middleware.GetPrincipal(c), sessionID, held)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := "Session restored"
	if !held {
		msg = "Session cancelled"
	}
	h.redirect(c, fmt.Sprintf("/teacher/assigns/%d/sessions", session.AssignID), msg)
}

func (h *Handler) renderMarkSheet(c *gin.Context, status int, sessionID int64, data gin.H) {
	roster, err := h.attendance.Roster(c.Request.Context(), middleware.GetPrincipal(c), sessionID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = "Mark attendance"
	data["Roster"] = dto.NewSessionRosterResponse(roster)
	h.render(c, status, "mark_attendance.html", data)
}

// MarkAttendanceForm shows the marking sheet of a session
func (h *Handler) MarkAttendanceForm(c *gin.Context) {
	sessionID, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderMarkSheet(c, http.StatusOK, sessionID, nil)
}

// MarkAttendance saves the submitted statuses; fields are named status_<USN>
func (h *Handler) MarkAttendance(c *gin.Context) {
	sessionID, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		h.fail(c, apperrors.NewBadRequestError("Malformed form"))
		return
	}

	var marks []models.AttendanceMark
	for key, values := range c.Request.PostForm {
		usn, ok := strings.CutPrefix(key, "status_")
		if !ok || len(values) == 0 || values[0] == "" {
			continue
		}
		marks = append(marks, models.AttendanceMark{USN: usn, Status: models.AttendanceStatus(values[0])})
	}

	p := middleware.GetPrincipal(c)
	if err := h.attendance.Mark(c.Request.Context(), p, sessionID, marks); err != nil {
		if fields, ok := formErrors(err); ok {
			h.renderMarkSheet(c, http.StatusBadRequest, sessionID, gin.H{"Errors": fields})
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, fmt.Sprintf("/teacher/sessions/%d/attendance", sessionID), "Attendance saved")
}

// componentInput reads a component form; an empty total keeps the default
func componentInput(c *gin.Context) (services.ComponentInput, error) {
	in := services.ComponentInput{
		Name:      c.PostForm("name"),
		Published: c.PostForm("status") == "true",
	}
	if raw := strings.TrimSpace(c.PostForm("total_marks")); raw != "" {
		total, err := strconv.Atoi(raw)
		if err != nil {
			return in, apperrors.NewValidationError("total_marks", "total_marks must be a whole number")
		}
		in.TotalMarks = &total
	}
	return in, nil
}

func (h *Handler) renderComponents(c *gin.Context, status int, assignID int64, data gin.H) {
	items, err := h.marks.TeacherOverview(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	var current *dto.TeacherMarksItem
	for _, it := range dto.NewTeacherMarksItems(items) {
		if it.AssignID == assignID {
			current = &it
			break
		}
	}
	if current == nil {
		h.fail(c, apperrors.NewCustomError(apperrors.ErrNotOwner, "You do not teach this class"))
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = "Marks components"
	data["Assign"] = current
	h.render(c, status, "components.html", data)
}

// Components lists the graded components of an owned assignment
func (h *Handler) Components(c *gin.Context) {
	assignID, err := idParam(c, "assign_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderComponents(c, http.StatusOK, assignID, nil)
}

// CreateComponent adds a graded component
func (h *Handler) CreateComponent(c *gin.Context) {
	assignID, err := idParam(c, "assign_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	in, err := componentInput(c)
	if err == nil {
		_, err = h.marks.CreateComponent(c.Request.Context(), middleware.GetPrincipal(c), assignID, in)
	}
	if err != nil {
		if fields, ok := formErrors(err); ok {
			h.renderComponents(c, http.StatusBadRequest, assignID, gin.H{"Errors": fields, "Form": in})
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, fmt.Sprintf("/teacher/assigns/%d/components", assignID), "Component created")
}

// UpdateComponent renames, rescales or (un)publishes a component
func (h *Handler) UpdateComponent(c *gin.Context) {
	componentID, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	in, err := componentInput(c)
	if err != nil {
		h.redirect(c, "/teacher", errorText(err))
		return
	}
	component, err := h.marks.UpdateComponent(c.Request.Context(), middleware.GetPrincipal(c), componentID, in)
	if err != nil {
		if fields, ok := formErrors(err); ok {
			h.redirect(c, "/teacher", joinErrors(fields))
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, fmt.Sprintf("/teacher/assigns/%d/components", component.AssignID), "Component updated")
}

func (h *Handler) renderMarksSheet(c *gin.Context, status int, componentID int64, data gin.H) {
	sheet, err := h.marks.Roster(c.Request.Context(), middleware.GetPrincipal(c), componentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = "Enter marks"
	data["Sheet"] = dto.NewComponentSheetResponse(sheet)
	h.render(c, status, "enter_marks.html", data)
}

// EnterMarksForm shows the entry sheet of a component
func (h *Handler) EnterMarksForm(c *gin.Context) {
	componentID, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderMarksSheet(c, http.StatusOK, componentID, nil)
}

// EnterMarks saves the submitted scores; fields are named marks_<USN> and
// blank fields are skipped
func (h *Handler) EnterMarks(c *gin.Context) {
	componentID, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := c.Request.ParseForm(); err != nil {
		h.fail(c, apperrors.NewBadRequestError("Malformed form"))
		return
	}

	var entries []models.MarksEntry
	vErr := &apperrors.ValidationError{}
	for key, values := range c.Request.PostForm {
		usn, ok := strings.CutPrefix(key, "marks_")
		if !ok || len(values) == 0 || strings.TrimSpace(values[0]) == "" {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
		if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
			vErr.Add(key, "marks must be a number")
			continue
		}
		entries = append(entries, models.MarksEntry{USN: usn, Marks: score})
	}
	if vErr.HasErrors() {
		h.renderMarksSheet(c, http.StatusBadRequest, componentID, gin.H{"Errors": vErr.Fields})
		return
	}
	if len(entries) == 0 {
		h.redirect(c, fmt.Sprintf("/teacher/components/%d/marks", componentID), "Nothing to save")
		return
	}

	if err := h.marks.Enter(c.Request.Context(), middleware.GetPrincipal(c), componentID, entries); err != nil {
		if fields, ok := formErrors(err); ok {
			h.renderMarksSheet(c, http.StatusBadRequest, componentID, gin.H{"Errors": fields})
			return
		}
		h.fail(c, err)
		return
	}
	h.redirect(c, fmt.Sprintf("/teacher/components/%d/marks", componentID), "Marks saved")
}

// AddSlot schedules an owned assignment and returns to the timetable
func (h *Handler) AddSlot(c *gin.Context) {
	assignID, err := idParam(c, "assign_id")
	if err != nil {
		h.fail(c, err)
		return
	}
	period, _ := strconv.Atoi(c.PostForm("period"))
	_, created, err := h.timetable.AddSlot(c.Request.Context(), middleware.GetPrincipal(c), assignID, c.PostForm("day"), period)
	if err != nil {
		if fields, ok := formErrors(err); ok {
			h.redirect(c, "/teacher", joinErrors(fields))
			return
		}
		h.fail(c, err)
		return
	}
	msg := "Slot added"
	if !created {
		msg = "Slot was already scheduled"
	}
	h.redirect(c, "/teacher/timetable", msg)
}

// RemoveSlot deletes an owned weekly slot
func (h *Handler) RemoveSlot(c *gin.Context) {
	slotID, err := idParam(c, "id")
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.timetable.RemoveSlot(c.Request.Context(), middleware.GetPrincipal(c), slotID); err != nil {
		h.fail(c, err)
		return
	}
	h.redirect(c, "/teacher/timetable", "Slot removed")
}

func joinErrors(fields map[string]string) string {
	msgs := make([]string, 0, len(fields))
	for _, msg := range fields {
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}
