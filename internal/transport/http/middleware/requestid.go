package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mini-boxdrop/internal/core/logger"
)

const KeyRequestID = "X-Request-ID"

// 上游传入的 id 过长时不采用
const maxRequestIDLen = 128

// RequestID 透传或生成 X-Request-ID，并把带 request_id 的 logger 挂到请求 ctx，
// service 层通过 logger.FromContext 取用
func RequestID(l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	return func(c *gin.Context) {
		rid := c.GetHeader(KeyRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = uuid.NewString()
		}
		c.Header(KeyRequestID, rid)
		c.Set(KeyRequestID, rid)
		ctx := logger.WithContext(c.Request.Context(), l.With(zap.String("request_id", rid)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
