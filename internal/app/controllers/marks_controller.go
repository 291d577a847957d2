package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/middleware"
)

// MarksController serves marks reports and marks entry
type MarksController struct {
	marksService services.MarksService
	logger       zerolog.Logger
}

// NewMarksController creates a new MarksController
func NewMarksController(marksService services.MarksService, logger zerolog.Logger) *MarksController {
	return &MarksController{
		marksService: marksService,
		logger:       logger,
	}
}

// Summary returns the caller's published marks per enrolled course
// @Summary Marks summary
// @Tags marks
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseMarksItem} "Marks retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Caller is not a student"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks [get]
func (c *MarksController) Summary(ctx *gin.Context) {
	p := middleware.GetPrincipal(ctx)
	courses, err := c.marksService.Summary(ctx.Request.Context(), p, p.USN)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewCourseMarksItems(courses)))
}

// Detail returns the caller's published marks for one course
// @Summary Marks detail
// @Tags marks
// @Produce json
// @Security TokenAuth
// @Param course_id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ComponentMarksItem} "Marks retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Unknown course, not enrolled or caller is not a student"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /marks/{course_id} [get]
func (c *MarksController) Detail(ctx *gin.Context) {
	p := middleware.GetPrincipal(ctx)
	courseID := ctx.Param("course_id")
	scores, err := c.marksService.Detail(ctx.Request.Context(), p, p.USN, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, courseParamError(err, courseID))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewComponentMarksItems(scores)))
}

// TeacherOverview lists the components of every assignment the caller teaches
// @Summary Teacher marks overview
// @Tags teacher
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.TeacherMarksItem} "Overview retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Caller is not a teacher"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /teacher/marks [get]
func (c *MarksController) TeacherOverview(ctx *gin.Context) {
	items, err := c.marksService.TeacherOverview(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewTeacherMarksItems(items)))
}

// TeacherCourseDetail returns every component sheet of a course the caller teaches
// @Summary Teacher marks detail
// @Tags teacher
// @Produce json
// @Security TokenAuth
// @Param course_id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.ComponentSheetResponse} "Detail retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Unknown course or course not taught by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Router /teacher/marks/{course_id} [get]
func (c *MarksController) TeacherCourseDetail(ctx *gin.Context) {
	courseID := ctx.Param("course_id")
	sheets, err := c.marksService.TeacherCourseDetail(ctx.Request.Context(), middleware.GetPrincipal(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, courseParamError(err, courseID))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewComponentSheetResponses(sheets)))
}

// CreateComponent adds a graded component to an owned assignment
// @Summary Create marks component
// @Description total_marks defaults from the name: Internal test N is 20, Event N is 10, anything else 100
// @Tags teacher
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param assign_id path int true "Assignment ID"
// @Param request body dto.CreateComponentRequest true "Component"
// @Success 201 {object} dto.APIResponse{data=dto.ComponentResponse} "Component created"
// @Failure 400 {object} dto.ErrorResponse "Invalid or duplicate component, or assignment not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /teacher/assigns/{assign_id}/components [post]
func (c *MarksController) CreateComponent(ctx *gin.Context) {
	assignID, ok := parseIDParam(ctx, "assign_id", "Assignment")
	if !ok {
		return
	}
	var req dto.CreateComponentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	component, err := c.marksService.CreateComponent(ctx.Request.Context(), middleware.GetPrincipal(ctx), assignID, services.ComponentInput{
		Name:       req.Name,
		TotalMarks: req.TotalMarks,
		Published:  req.Published,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewComponentResponse(component)))
}

// UpdateComponent renames, rescales or (un)publishes a component
// @Summary Update marks component
// @Tags teacher
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "Component ID"
// @Param request body dto.UpdateComponentRequest true "Component"
// @Success 200 {object} dto.APIResponse{data=dto.ComponentResponse} "Component updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid component or not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Component not found"
// @Router /teacher/components/{id} [put]
func (c *MarksController) UpdateComponent(ctx *gin.Context) {
	componentID, ok := parseIDParam(ctx, "id", "Component")
	if !ok {
		return
	}
	var req dto.UpdateComponentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	component, err := c.marksService.UpdateComponent(ctx.Request.Context(), middleware.GetPrincipal(ctx), componentID, services.ComponentInput{
		Name:       req.Name,
		TotalMarks: req.TotalMarks,
		Published:  req.Published,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewComponentResponse(component)))
}

// Roster returns the entry sheet of a component
// @Summary Component marks sheet
// @Tags teacher
// @Produce json
// @Security TokenAuth
// @Param id path int true "Component ID"
// @Success 200 {object} dto.APIResponse{data=dto.ComponentSheetResponse} "Sheet retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Component not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Component not found"
// @Router /teacher/components/{id}/marks [get]
func (c *MarksController) Roster(ctx *gin.Context) {
	componentID, ok := parseIDParam(ctx, "id", "Component")
	if !ok {
		return
	}
	sheet, err := c.marksService.Roster(ctx.Request.Context(), middleware.GetPrincipal(ctx), componentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewComponentSheetResponse(sheet)))
}

// Enter records scores for a component and returns the updated sheet
// @Summary Enter marks
// @Description Upserts one score per student; scores must lie within 0 and the component's total
// @Tags teacher
// @Accept json
// @Produce json
// @Security TokenAuth
// @Param id path int true "Component ID"
// @Param request body dto.EnterMarksRequest true "Scores"
// @Success 200 {object} dto.APIResponse{data=dto.ComponentSheetResponse} "Marks recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid scores or component not owned by caller"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Component not found"
// @Router /teacher/components/{id}/marks [post]
func (c *MarksController) Enter(ctx *gin.Context) {
	componentID, ok := parseIDParam(ctx, "id", "Component")
	if !ok {
		return
	}
	var req dto.EnterMarksRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	p := middleware.GetPrincipal(ctx)
	if err := c.marksService.Enter(ctx.Request.Context(), p, componentID, req.ToEntries()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("componentID", componentID).Str("teacherID", p.TeacherID).Int("records", len(req.Records)).Msg("Marks entered")

	sheet, err := c.marksService.Roster(ctx.Request.Context(), p, componentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewComponentSheetResponse(sheet)))
}
