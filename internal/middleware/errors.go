package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Olliveer/happy-2.0-backend-deploy/internal/apperror"
)

// Errors turns the last error recorded with c.Error into the response.
// Application errors keep their status and message; anything else is a
// 500.
func Errors(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		err := last.Err

		if c.Writer.Written() {
			log.Warn().Err(err).Str("request_id", RequestIDFrom(c)).Msg("error after response was written")
			return
		}

		if appErr, ok := apperror.As(err); ok {
			body := gin.H{"message": appErr.Message}
			if len(appErr.Fields) > 0 {
				body["errors"] = appErr.Fields
			}
			c.JSON(appErr.Status, body)
			return
		}

		log.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", RequestIDFrom(c)).
			Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, internalError(err))
	}
}

func internalError(cause any) gin.H {
	return gin.H{
		"status":  "Error",
		"message": fmt.Sprintf("Internal server error %v", cause),
	}
}
