package middleware

import (
	"errors"
	"net/http"

	"candidate-service/internal/delivery/http/response"
	"candidate-service/pkg/apperror"
	"candidate-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.ErrorContext(c.Request.Context(), "request failed",
					"path", c.FullPath(),
					"status", appErr.Code,
					"error", err,
					"cause", appErr.Err,
				)
			}
			if appErr.Code == http.StatusInternalServerError {
				// Never expose internal details to clients
				response.Error(c, appErr.Code, "An unexpected error occurred. Please try again later.", nil)
				return
			}
			var details any
			if len(appErr.Details) > 0 {
				details = appErr.Details
			}
			response.Error(c, appErr.Code, appErr.Message, details)
			return
		}

		logger.Log.ErrorContext(c.Request.Context(), "internal server error", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
