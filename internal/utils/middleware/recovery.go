package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/nest-ms-kv/payments-microservice/internal/shared/errors"
)

// Recovery returns a middleware that recovers from panics.
// If log is nil, it will use a no-op logger.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()),
					zap.String("stack", string(debug.Stack())),
				)

				appErr := apperrors.Internal(fmt.Errorf("%v", err))
				c.AbortWithStatusJSON(appErr.StatusCode, apperrors.ToResponse(appErr))
			}
		}()
		c.Next()
	}
}
