package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/yigit/collegeerp/internal/app/models/dto"
)

// BindJSON binds the request body into obj. On failure it answers 400 with
// per-field messages and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, binding.JSON)
}

// BindQuery binds query parameters into obj like BindJSON
func BindQuery(c *gin.Context, obj interface{}) bool {
	return bindWith(c, obj, binding.Query)
}

func bindWith(c *gin.Context, obj interface{}, b binding.Binding) bool {
	if err := c.ShouldBindWith(obj, b); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
