package middleware

import (
	"github.com/gin-gonic/gin"

	apperrors "debtwise/internal/errors"
	"debtwise/internal/logger"
)

// ErrorHandler turns the last error attached with c.Error into the JSON
// error envelope when the handler has not written a body itself. Causes
// of internal failures stay in the log.
func ErrorHandler() gin.HandlerFunc {
	log := logger.Named("http")

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		cause := c.Errors.Last().Err
		requestID, _ := c.Get(requestIDKey)

		appErr, ok := apperrors.As(cause)
		switch {
		case !ok:
			log.Errorw("unhandled handler error",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", requestID,
				"error", cause,
			)
			appErr = apperrors.ErrInternalServer
		case appErr.Internal != nil:
			log.Errorw("request failed",
				"path", c.Request.URL.Path,
				"request_id", requestID,
				"code", appErr.Code,
				"cause", appErr.Internal,
			)
		}

		writeError(c, appErr)
	}
}

func writeError(c *gin.Context, appErr *apperrors.AppError) {
	c.JSON(appErr.StatusCode, gin.H{
		"error": gin.H{"code": appErr.Code, "message": appErr.Message},
	})
}
