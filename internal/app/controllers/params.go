// Package controllers implements the JSON API handlers
package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeerp/internal/app/models"
	"github.com/yigit/collegeerp/internal/app/models/dto"
	"github.com/yigit/collegeerp/internal/pkg/apperrors"
)

// parseIDParam reads a positive numeric path parameter, answering 400 itself when it is not one
func parseIDParam(ctx *gin.Context, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID").
			WithField(name).
			WithDetails(label + " ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// courseParamError turns an unknown course id taken from the path into a bad request
func courseParamError(err error, courseID string) error {
	if errors.Is(err, apperrors.ErrCourseNotFound) {
		return apperrors.NewCustomError(apperrors.ErrBadRequest, "Unknown course id "+courseID).
			WithDetails(map[string]interface{}{"course_id": courseID})
	}
	return err
}

// parseDateField parses a request date, reporting failures against field
func parseDateField(field, value string) (t time.Time, err error) {
	t, err = models.ParseDate(value)
	if err != nil {
		return t, apperrors.NewValidationError(field, field+" must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
