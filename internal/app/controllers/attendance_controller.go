package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/middleware"
)

// AttendanceController serves attendance reports and session marking
type AttendanceController struct {
	attendanceService services.AttendanceService
	logger            zerolog.Logger
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService services.AttendanceService, logger zerolog.Logger) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		logger:            logger,
	}
}

// Summary returns the caller's attendance per enrolled course
// @Summary Attendance summary
// @Description Per enrolled course: attended and held classes, percentage and classes still needed for 75%
// @Tags attendance
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.AttendanceSummaryItem} "Attendance retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Caller is not a student"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance [get]
func (c *AttendanceController) Summary(ctx *gin.Context) {
	p := middleware.GetPrincipal(ctx)
	items, err := c.attendanceService.Summary(ctx.Request.Context(), p, p.USN)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewAttendanceSummary(items)))
}

// Detail returns the caller's dated attendance rows for one course
// @Summary Attendance detail
// @Description Attendance rows of one enrolled course ordered by date
// @Tags attendance
// @Produce json
// @Security TokenAuth
// @Param course_id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.AttendanceRecord} "Attendance retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Unknown course, not enrolled or caller is not a student"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/{course_id} [get]
func (c *AttendanceController) Detail(ctx *gin.Context) {
	p := middleware.GetPrincipal(ctx)
	courseID := ctx.Param("course_id")
	rows, err := c.attendanceService.Detail(ctx.Request.Context(), p, p.USN, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, courseParamError(err, courseID))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewAttendanceRecords(rows)))
}

// Report returns the caller's attendance rows within a date range
// @Summary Attendance report
// @Description Attendance rows across all courses between start_date and end_date inclusive
// @Tags attendance
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param request body dto.AttendanceReportRequest true "Date range"
// @Success 200 {object} dto.APIResponse{data=[]dto.AttendanceRecord} "Report generated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid date range or caller is not a student"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /attendance/report [post]
func (c *AttendanceController) Report(ctx *gin.Context) {
	var req dto.AttendanceReportRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	start, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	end, err := parseDateField("end_date", req.EndDate)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	p := middleware.GetPrincipal(ctx)
	rows, err := c.attendanceService.RangeReport(ctx.Request.Context(), p, p.USN, start, end)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewAttendanceRecords(rows)))
}

// TeacherOverview lists the caller's assignments with session counts
// @Summary Teacher attendance overview
// @Description One entry per class and course the caller teaches
// @Tags teacher
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.TeacherAttendanceItem} "Overview retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Caller is not a teacher"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/attendance [get]
func (c *AttendanceController) TeacherOverview(ctx *gin.Context) {
	items, err := c.attendanceService.TeacherOverview(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewTeacherAttendanceItems(items)))
}

// TeacherCourseDetail lists per student totals for a course the caller teaches
// @Summary Teacher attendance detail
// @Description Attendance totals of every student in the caller's classes for one course
// @Tags teacher
// @Produce json
// @Security TokenAuth
// @Param course_id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseRosterResponse} "Detail retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Unknown course or course not taught by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/attendance/{course_id} [get]
func (c *AttendanceController) TeacherCourseDetail(ctx *gin.Context) {
	courseID := ctx.Param("course_id")
	rosters, err := c.attendanceService.TeacherCourseDetail(ctx.Request.Context(), middleware.GetPrincipal(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, courseParamError(err, courseID))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewCourseRosters(rosters)))
}

// ListSessions lists the sessions of an owned assignment
// @Summary List attendance sessions
// @Tags teacher
// @Produce json
// @Security TokenAuth
// @Param assign_id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssignSessionsResponse} "Sessions retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Assignment not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /teacher/assigns/{assign_id}/sessions [get]
func (c *AttendanceController) ListSessions(ctx *gin.Context) {
	assignID, ok := parseIDParam(ctx, "assign_id", "Assignment")
	if !ok {
		return
	}
	assign, sessions, err := c.attendanceService.ListSessions(ctx.Request.Context(), middleware.GetPrincipal(ctx), assignID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.AssignSessionsResponse{
		Assign:   dto.NewAssignResponse(assign),
		Sessions: dto.NewSessionResponses(sessions),
	}))
}

// OpenSession opens the session of a date, reusing an existing one
// @Summary Open attendance session
// @Description Creates the session for the date, or returns the existing one with 200
// @Tags teacher
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param assign_id path int true "Assignment ID"
// @Param request body dto.OpenSessionRequest true "Session date"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session already existed"
// @Success 201 {object} dto.APIResponse{data=dto.SessionResponse} "Session created"
// @Failure 400 {object} dto.ErrorResponse "Invalid date or assignment not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /teacher/assigns/{assign_id}/sessions [post]
func (c *AttendanceController) OpenSession(ctx *gin.Context) {
	assignID, ok := parseIDParam(ctx, "assign_id", "Assignment")
	if !ok {
		return
	}
	var req dto.OpenSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	date, err := parseDateField("date", req.Date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	session, created, err := c.attendanceService.OpenSession(ctx.Request.Context(), middleware.GetPrincipal(ctx), assignID, date)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.NewAPIResponse(dto.NewSessionResponse(session)))
}

// SetSessionStatus marks a session held or cancelled
// @Summary Hold or cancel a session
// @Description Cancelling a session deletes its attendance rows and recomputes the totals
// @Tags teacher
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "Session ID"
// @Param request body dto.SessionStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or session not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /teacher/sessions/{id} [put]
func (c *AttendanceController) SetSessionStatus(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "id", "Session")
	if !ok {
		return
	}
	var req dto.SessionStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.attendanceService.SetSessionStatus(ctx.Request.Context(), middleware.GetPrincipal(ctx), sessionID, *req.Held)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewSessionResponse(session)))
}

// Roster returns the marking sheet of a session
// @Summary Session roster
// @Tags teacher
// @Produce json
// @Security TokenAuth
// @Param id path int true "Session ID"
// @Success 200 {object} dto.APIResponse{data=dto.SessionRosterResponse} "Roster retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Session not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /teacher/sessions/{id}/attendance [get]
func (c *AttendanceController) Roster(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "id", "Session")
	if !ok {
		return
	}
	roster, err := c.attendanceService.Roster(ctx.Request.Context(), middleware.GetPrincipal(ctx), sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewSessionRosterResponse(roster)))
}

// Mark records attendance for a session and returns the updated sheet
// @Summary Mark attendance
// @Description Upserts one status per student; every student must be enrolled in the course
// @Tags teacher
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "Session ID"
// @Param request body dto.MarkAttendanceRequest true "Statuses"
// @Success 200 {object} dto.APIResponse{data=dto.SessionRosterResponse} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid records, cancelled session or session not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /teacher/sessions/{id}/attendance [post]
func (c *AttendanceController) Mark(ctx *gin.Context) {
	sessionID, ok := parseIDParam(ctx, "id", "Session")
	if !ok {
		return
	}
	var req dto.MarkAttendanceRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	p := middleware.GetPrincipal(ctx)
	if err := c.attendanceService.Mark(ctx.Request.Context(), p, sessionID, req.ToMarks()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("sessionID", sessionID).Str("teacherID", p.TeacherID).Int("records", len(req.Records)).Msg("Attendance marked")

	roster, err := c.attendanceService.Roster(ctx.Request.Context(), p, sessionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewSessionRosterResponse(roster)))
}
