package response

// 状态码直接使用 HTTP 语义；body.status 与 HTTP 状态一致（成功时 body 可另带业务码）
const (
	CodeOK              = 200
	CodeFound           = 201
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodePaymentRequired = 402 // 用户设置：邮箱格式错误沿用该码
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeTooLarge        = 413
	CodeTooMany         = 429
	CodeServerError     = 500
	CodeUnavailable     = 503
	CodeTimeout         = 504
)

// CodeMsgMap 用于集中管理 code - msg
var CodeMsgMap = map[int]string{
	CodeOK:           "OK",
	CodeBadRequest:   "Bad Request",
	CodeUnauthorized: "Unauthorized",
	CodeForbidden:    "Forbidden",
	CodeNotFound:     "Not Found",
	CodeTooLarge:     "Request body too large",
	CodeTooMany:      "Too many requests",
	CodeServerError:  "Internal server error",
	CodeUnavailable:  "Server busy",
	CodeTimeout:      "Timeout",
}
