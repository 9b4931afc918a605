package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/clipstack/video-service/internal/models"
)

func sendSuccess(c *gin.Context, status int, data any, message string) {
	c.JSON(status, models.APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func sendError(c *gin.Context, status int, message string, errs ...string) {
	c.JSON(status, models.APIError{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     errs,
	})
}
