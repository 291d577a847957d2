package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/middleware"
)

// TimetableController serves weekly grids and slot scheduling
type TimetableController struct {
	timetableService services.TimetableService
	logger           zerolog.Logger
}

// NewTimetableController creates a new TimetableController
func NewTimetableController(timetableService services.TimetableService, logger zerolog.Logger) *TimetableController {
	return &TimetableController{
		timetableService: timetableService,
		logger:           logger,
	}
}

// StudentTimetable returns the weekly grid of the caller's class
// @Summary Student timetable
// @Tags timetable
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=dto.TimetableResponse} "Timetable retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Caller is not a student"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /student/timetable [get]
func (c *TimetableController) StudentTimetable(ctx *gin.Context) {
	tt, err := c.timetableService.ForStudent(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewTimetableResponse(tt)))
}

// TeacherTimetable returns the caller's weekly teaching grid
// @Summary Teacher timetable
// @Tags timetable
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=dto.TimetableResponse} "Timetable retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Caller is not a teacher"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /teacher/timetable [get]
func (c *TimetableController) TeacherTimetable(ctx *gin.Context) {
	tt, err := c.timetableService.ForCurrentTeacher(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewTimetableResponse(tt)))
}

// ClassTimetable returns the weekly grid of any class
// @Summary Class timetable
// @Tags admin
// @Produce json
// @Security TokenAuth
// @Param id path string true "Class ID"
// @Success 200 {object} dto.APIResponse{data=dto.TimetableResponse} "Timetable retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - admin only"
// @Failure 404 {object} dto.ErrorResponse "Class not found"
// @Router /admin/classes/{id}/timetable [get]
func (c *TimetableController) ClassTimetable(ctx *gin.Context) {
	tt, err := c.timetableService.ForClass(ctx.Request.Context(), middleware.GetPrincipal(ctx), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewTimetableResponse(tt)))
}

// AddSlot schedules an assignment in a weekly period
// @Summary Add timetable slot
// @Description Re-adding an identical slot is a no-op answered with 200. A period already used by the class or the teacher is a conflict.
// @Tags teacher
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param assign_id path int true "Assignment ID"
// @Param request body dto.AddSlotRequest true "Day and period"
// @Success 200 {object} dto.APIResponse{data=dto.SlotResponse} "Slot already scheduled"
// @Success 201 {object} dto.APIResponse{data=dto.SlotResponse} "Slot scheduled"
// @Failure 400 {object} dto.ErrorResponse "Invalid day or period, or assignment not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 409 {object} dto.ErrorResponse "Period already taken"
// @Router /teacher/assigns/{assign_id}/times [post]
func (c *TimetableController) AddSlot(ctx *gin.Context) {
	assignID, ok := parseIDParam(ctx, "assign_id", "Assignment")
	if !ok {
		return
	}
	var req dto.AddSlotRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	slot, created, err := c.timetableService.AddSlot(ctx.Request.Context(), middleware.GetPrincipal(ctx), assignID, req.Day, req.Period)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.NewAPIResponse(dto.NewSlotResponse(slot)))
}

// RemoveSlot deletes a weekly slot
// @Summary Remove timetable slot
// @Tags teacher
// @Produce json
// @Security TokenAuth
// @Param id path int true "Slot ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Slot removed"
// @Failure 400 {object} dto.ErrorResponse "Slot not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Slot not found"
// @Router /teacher/times/{id} [delete]
func (c *TimetableController) RemoveSlot(ctx *gin.Context) {
	slotID, ok := parseIDParam(ctx, "id", "Slot")
	if !ok {
		return
	}
	if err := c.timetableService.RemoveSlot(ctx.Request.Context(), middleware.GetPrincipal(ctx), slotID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Slot removed"}))
}
