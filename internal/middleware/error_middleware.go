package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
	"github.com/yigit/collegeerp/internal/pkg/logger"
)

// ClassifyError maps an application error to an HTTP status and error detail.
//
// Role mismatches and requests for resources the caller does not own are
// answered with 400, not 403; 403 is kept for admin-only endpoints.
func ClassifyError(err error) (int, *dto.ErrorDetail) {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) && vErr.HasErrors() {
		return http.StatusBadRequest, dto.NewFieldErrors(vErr.Fields)
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, message(err, "Invalid credentials"))
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, message(err, "Invalid token"))
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, message(err, "Authentication required"))
	case apperrors.Is(err, apperrors.ErrUnauthorized, apperrors.ErrAccountDisabled, apperrors.ErrNoRole, apperrors.ErrAmbiguousRole):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, message(err, "Authentication required"))

	case errors.Is(err, apperrors.ErrRoleMismatch):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeRoleMismatch, message(err, "Endpoint not available for this role"))
	case errors.Is(err, apperrors.ErrNotOwner):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeRoleMismatch, message(err, "Resource does not belong to the caller"))
	case errors.Is(err, apperrors.ErrNotEnrolled):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, message(err, "Student is not enrolled in the course"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message(err, "Permission denied"))

	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrSlotTaken):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, message(err, "Conflict"))
	case apperrors.IsValidation(err):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message(err, "Validation failed"))
		if custom := customError(err); custom != nil && custom.Details != nil {
			detail = detail.WithDetails(custom.Details)
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeResourceInvalid, message(err, "Bad request"))
	case apperrors.IsNotFound(err):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message(err, "Resource not found"))
	}

	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
		WithSeverity(dto.ErrorSeverityCritical)
}

// HandleAPIError writes the error envelope for err
func HandleAPIError(c *gin.Context, err error) {
	status, detail := ClassifyError(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
	}
	c.JSON(status, dto.NewErrorResponse(detail))
}

// AbortWithAPIError writes the error envelope and stops the handler chain
func AbortWithAPIError(c *gin.Context, err error) {
	HandleAPIError(c, err)
	c.Abort()
}

func customError(err error) *apperrors.CustomError {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		return custom
	}
	return nil
}

// message prefers the text of a CustomError, then the sentinel's own text
func message(err error, fallback string) string {
	if custom := customError(err); custom != nil && custom.Message != "" {
		return custom.Message
	}
	if err != nil && err.Error() != "" {
		return capitalize(err.Error())
	}
	return fallback
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
