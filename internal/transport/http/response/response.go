package response

import "github.com/gin-gonic/gin"

// Resp 所有接口统一的 JSON 外壳
type Resp struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	User    any    `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

func New(status int, msg string, data any) Resp {
	return Resp{Message: msg, Status: status, Data: data}
}

// OK 成功响应
func OK(msg string, data any) Resp {
	return New(CodeOK, msg, data)
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, nil)
}

// Abort HTTP 状态与 body.status 一致
func Abort(c *gin.Context, code int, customMsg string) {
	c.AbortWithStatusJSON(code, Error(code, customMsg))
}
