package ez

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	resp "mini-boxdrop/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindAuto  Binder = "auto"  // 按 Content-Type：form / multipart / JSON
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func Fail(code int, msg string) error { return &AErr{Code: code, Msg: msg} }
func BadRequest(msg string) error     { return Fail(http.StatusBadRequest, msg) }
func Unauthorized(msg string) error   { return Fail(http.StatusUnauthorized, msg) }
func Forbidden(msg string) error      { return Fail(http.StatusForbidden, msg) }
func NotFound(msg string) error       { return Fail(http.StatusNotFound, msg) }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// 动作定义：I 入参，O 出参；O 为 resp.Resp 时原样输出
type Action[I any, O any] struct {
	Methods []string // 为空默认 POST
	Path    string   // 例："/user/login"、"/product/edit/:id/"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Message string   // 成功时的 message（O 不是 resp.Resp 时使用）
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth {
			uid := c.GetString("userId")
			if uid == "" {
				resp.Abort(c, resp.CodeUnauthorized, "unauthorized")
				return
			}
			if len(a.Roles) > 0 && !hasRole(c.GetString("role"), a.Roles) {
				resp.Abort(c, resp.CodeForbidden, "forbidden")
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindAuto:
			bindErr = c.ShouldBind(&in)
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			Render(c, BadRequest("Invalid form: "+bindErr.Error()))
			return
		}

		// 3) 执行
		out, err := a.Handler(c, &in)
		if err != nil {
			Render(c, err)
			return
		}
		if r, ok := any(out).(resp.Resp); ok {
			c.JSON(http.StatusOK, r)
			return
		}
		c.JSON(http.StatusOK, resp.OK(a.Message, out))
	}

	methods := a.Methods
	if len(methods) == 0 {
		methods = []string{http.MethodPost}
	}
	for _, m := range methods {
		e.g.Handle(strings.ToUpper(m), a.Path, h)
	}
}

// Render 统一错误映射：AErr 按其 Code 输出，其余一律 500
func Render(c *gin.Context, err error) {
	var ae *AErr
	if errors.As(err, &ae) {
		if ae.Err != nil {
			_ = c.Error(ae.Err)
		}
		resp.Abort(c, ae.Code, ae.Error())
		return
	}
	_ = c.Error(err)
	resp.Abort(c, resp.CodeServerError, "Internal server error")
}

// FormFile 取可选上传文件；字段不存在时返回 nil, nil
func FormFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	return fh, err
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}
