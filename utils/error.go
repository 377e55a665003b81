package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the uniform error payload returned to the UI. Message is
// safe to display; Details is diagnostic and may be empty.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler recovers from handler panics and converts them into a uniform
// 500 response, keeping the raw panic value out of the reply.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("unhandled panic",
					zap.Any("panic", r),
					zap.String("path", c.FullPath()),
				)
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Something went wrong. Please try again.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError writes a standardized JSON error response and logs it.
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message,
		zap.Int("status", status),
		zap.String("details", details),
	)
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}
