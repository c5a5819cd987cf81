package middleware

import (
	"errors"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/microblog/pkg/logger"
	"github.com/d60-Lab/microblog/pkg/response"
)

// Recovery panic 恢复中间件，异常上报 sentry
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				sentry.CaptureException(err)
				logger.Error("panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
				response.InternalError(c, errors.New("internal server error"))
				c.Abort()
			}
		}()
		c.Next()
	}
}
