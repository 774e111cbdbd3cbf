package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	resp "mini-boxdrop/internal/transport/http/response"
)

// Timeout 给请求 ctx 加截止时间；下游（GORM/S3/Redis）通过 ctx 感知
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Abort(c, resp.CodeTimeout, "timeout")
		}
	}
}
