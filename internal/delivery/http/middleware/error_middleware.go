package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code != http.StatusInternalServerError {
			if appErr.Code > http.StatusInternalServerError {
				logger.Log.Warn("request degraded",
					slog.String("request_id", requestID(c)),
					slog.String("path", c.FullPath()),
					slog.Any("error", err),
				)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// Never expose internal error details to clients.
		logger.Log.Error("request failed",
			slog.String("request_id", requestID(c)),
			slog.String("path", c.FullPath()),
			slog.Any("error", err),
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
