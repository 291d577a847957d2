package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/app/services"
	"github.com/yigit/collegeerp/internal/middleware"
)

// AuthController handles token login and the caller's own profile
type AuthController struct {
	authService    services.AuthService
	catalogService services.CatalogService
	logger         zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, catalogService services.CatalogService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:    authService,
		catalogService: catalogService,
		logger:         logger,
	}
}

// Login exchanges credentials for an API token
// @Summary Log in
// @Description Verifies username and password and returns the caller's API token and role. The token is reused until logout.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing username or password"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials or account without a role"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.logger.Info().Err(err).Str("username", req.Username).Msg("API login rejected")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.LoginResponse{
			Token:    result.Token,
			UserType: string(result.Principal.Role),
		},
		Timestamp: time.Now(),
	})
}

// Logout revokes the caller's API token
// @Summary Log out
// @Description Deletes the caller's API token
// @Tags auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	p := middleware.GetPrincipal(ctx)
	if err := c.authService.Logout(ctx.Request.Context(), p.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Logged out"}))
}

// StudentDetail returns the caller's student profile
// @Summary Student profile
// @Description Returns the profile of the calling student
// @Tags auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentDetailResponse} "Profile retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Caller is not a student"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /detail [get]
func (c *AuthController) StudentDetail(ctx *gin.Context) {
	profile, err := c.catalogService.StudentProfile(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewStudentDetailResponse(profile)))
}

// TeacherDetail returns the caller's teacher profile
// @Summary Teacher profile
// @Description Returns the profile of the calling teacher
// @Tags auth
// @Produce json
// @Security TokenAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeacherDetailResponse} "Profile retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Caller is not a teacher"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teacher/detail [get]
func (c *AuthController) TeacherDetail(ctx *gin.Context) {
	profile, err := c.catalogService.TeacherProfile(ctx.Request.Context(), middleware.GetPrincipal(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewTeacherDetailResponse(profile)))
}
