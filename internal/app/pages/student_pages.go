package pages

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/middleware"
)

// StudentAttendance lists the caller's attendance per course
func (h *Handler) StudentAttendance(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	items, err := h.attendance.Summary(c.Request.Context(), p, p.USN)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "student_attendance.html", gin.H{
		"Title":   "Attendance",
		"Courses": dto.NewAttendanceSummary(items),
	})
}

// StudentAttendanceDetail lists the dated rows of one course
func (h *Handler) StudentAttendanceDetail(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	courseID := c.Param("course_id")
	rows, err := h.attendance.Detail(c.Request.Context(), p, p.USN, courseID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "attendance_detail.html", gin.H{
		"Title":    "Attendance " + courseID,
		"CourseID": courseID,
		"Records":  dto.NewAttendanceRecords(rows),
	})
}

// AttendanceReportForm shows the date range form
func (h *Handler) AttendanceReportForm(c *gin.Context) {
	h.render(c, http.StatusOK, "attendance_report.html", gin.H{"Title": "Attendance report"})
}

// AttendanceReport lists the caller's rows within the submitted range
func (h *Handler) AttendanceReport(c *gin.Context) {
	var req dto.AttendanceReportRequest
	data := gin.H{"Title": "Attendance report"}
	if err := c.ShouldBind(&req); err != nil {
		data["Errors"], _ = formErrors(err)
		data["Form"] = req
		h.render(c, http.StatusBadRequest, "attendance_report.html", data)
		return
	}
	data["Form"] = req

	start, _ := models.ParseDate(req.StartDate)
	end, _ := models.ParseDate(req.EndDate)
	p := middleware.GetPrincipal(c)
	rows, err := h.attendance.RangeReport(c.Request.Context(), p, p.USN, start, end)
	if err != nil {
		if fields, ok := formErrors(err); ok {
			data["Errors"] = fields
			h.render(c, http.StatusBadRequest, "attendance_report.html", data)
			return
		}
		h.fail(c, err)
		return
	}
	data["Records"] = dto.NewAttendanceRecords(rows)
	h.render(c, http.StatusOK, "attendance_report.html", data)
}

// StudentMarks lists the caller's published marks per course
func (h *Handler) StudentMarks(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	courses, err := h.marks.Summary(c.Request.Context(), p, p.USN)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "student_marks.html", gin.H{
		"Title":   "Marks",
		"Courses": dto.NewCourseMarksItems(courses),
	})
}

// StudentTimetable shows the weekly grid of the caller's class
func (h *Handler) StudentTimetable(c *gin.Context) {
	tt, err := h.timetable.ForStudent(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, http.StatusOK, "timetable.html", gin.H{
		"Title":     "Timetable",
		"Timetable": dto.NewTimetableResponse(tt),
	})
}
