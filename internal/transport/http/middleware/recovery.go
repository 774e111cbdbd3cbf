package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "mini-boxdrop/internal/transport/http/response"
)

func SimpleRecovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.String("panic", fmt.Sprint(rec)),
					zap.Stack("stack"))
				resp.Abort(c, resp.CodeServerError, "Internal server error")
			}
		}()
		c.Next()
	}
}
