package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"mini-boxdrop/internal/core/auth"
	resp "mini-boxdrop/internal/transport/http/response"
)

// AuthJWT 校验 Bearer token，通过后写入 claims / userId / role
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Abort(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, resp.CodeForbidden, "forbidden")
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UserID())
		c.Set("role", claims.Role)
		c.Next()
	}
}
