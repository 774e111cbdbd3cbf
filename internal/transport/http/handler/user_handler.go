package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mini-boxdrop/internal/core/auth"
	"mini-boxdrop/internal/domain"
	"mini-boxdrop/internal/service"
	"mini-boxdrop/internal/transport/http/ez"
	mdw "mini-boxdrop/internal/transport/http/middleware"
	resp "mini-boxdrop/internal/transport/http/response"
)

// UserHandler /user 下的接口
type UserHandler struct {
	users *service.UserService
	jwt   *auth.JWTer
}

func NewUserHandler(users *service.UserService, jwt *auth.JWTer) *UserHandler {
	return &UserHandler{users: users, jwt: jwt}
}

func (h *UserHandler) Priority() int { return 10 }

func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	grp := g.Group("/user")
	e := ez.New(grp)

	ez.RegisterAction(e, ez.Action[service.RegisterInput, resp.Resp]{
		Path:    "/register",
		Binder:  ez.BindAuto,
		Handler: h.register,
	})
	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Methods: []string{http.MethodGet},
		Path:    "/list/",
		Binder:  ez.BindNone,
		Handler: h.list,
	})
	ez.RegisterAction(e, ez.Action[service.LoginInput, resp.Resp]{
		Path:    "/login",
		Binder:  ez.BindAuto,
		Handler: h.login,
	})
	ez.RegisterAction(e, ez.Action[service.SettingsInput, resp.Resp]{
		Path:    "/settings",
		Binder:  ez.BindAuto,
		Handler: h.settings,
	})
	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Methods: []string{http.MethodGet},
		Path:    "/id/:id/",
		Binder:  ez.BindNone,
		Handler: h.get,
	})
	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Methods: []string{http.MethodGet},
		Path:    "/delete/:id/",
		Binder:  ez.BindNone,
		Handler: h.delete,
	})

	// 需要登录
	authed := grp.Group("")
	authed.Use(mdw.AuthJWT(h.jwt, ""))
	ez.RegisterAction(ez.New(authed), ez.Action[struct{}, resp.Resp]{
		Methods: []string{http.MethodGet},
		Path:    "/me",
		Binder:  ez.BindNone,
		Auth:    true,
		Handler: h.me,
	})
}

func (h *UserHandler) register(c *gin.Context, in *service.RegisterInput) (resp.Resp, error) {
	id, err := h.users.Register(c.Request.Context(), *in)
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return resp.Resp{}, ez.BadRequest("User not created. Invalid email")
	case errors.Is(err, domain.ErrValidation):
		return resp.Resp{}, ez.BadRequest("User not added. Invalid form data")
	case errors.Is(err, domain.ErrConflict):
		return resp.Resp{}, ez.BadRequest("User not created. Email already exists")
	case errors.Is(err, service.ErrUserNotCreated):
		return resp.Resp{}, ez.NotFound("User not created")
	case err != nil:
		return resp.Resp{}, err
	}
	return resp.OK("User created", gin.H{"id": id}), nil
}

func (h *UserHandler) list(c *gin.Context, _ *struct{}) (resp.Resp, error) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		return resp.Resp{}, err
	}
	if len(users) == 0 {
		return resp.OK("Table users is empty", users), nil
	}
	return resp.New(resp.CodeFound, "Users found", users), nil
}

func (h *UserHandler) login(c *gin.Context, in *service.LoginInput) (resp.Resp, error) {
	p, err := h.users.Authenticate(c.Request.Context(), *in)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAuth) {
		return resp.Resp{}, ez.NotFound("User not found. Email or password is incorrect")
	}
	if err != nil {
		return resp.Resp{}, err
	}
	tok, err := h.jwt.Issue(*p)
	if err != nil {
		return resp.Resp{}, ez.Internal("issue token failed", err)
	}
	r := resp.OK("User logged in", nil)
	r.User = p
	r.Token = tok
	return r, nil
}

func (h *UserHandler) settings(c *gin.Context, in *service.SettingsInput) (resp.Resp, error) {
	p, err := h.users.UpdateSettings(c.Request.Context(), *in)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return resp.Resp{}, ez.NotFound("User not found")
	case errors.Is(err, domain.ErrAuth):
		return resp.Resp{}, ez.Unauthorized("User not edited. Old password is incorrect")
	case errors.Is(err, service.ErrInvalidEmail):
		return resp.Resp{}, ez.Fail(resp.CodePaymentRequired, "User not edited. Invalid email")
	case errors.Is(err, domain.ErrConflict):
		return resp.Resp{}, ez.Forbidden("User not edited. Email already exists")
	case errors.Is(err, domain.ErrValidation):
		return resp.Resp{}, ez.BadRequest("User not edited. Invalid form data")
	case err != nil:
		return resp.Resp{}, err
	}
	r := resp.OK("User edited", nil)
	r.User = p
	return r, nil
}

func (h *UserHandler) get(c *gin.Context, _ *struct{}) (resp.Resp, error) {
	p, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		return resp.Resp{}, ez.NotFound("User not found")
	}
	if err != nil {
		return resp.Resp{}, err
	}
	return resp.OK("User found", p), nil
}

func (h *UserHandler) delete(c *gin.Context, _ *struct{}) (resp.Resp, error) {
	err := h.users.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return resp.Resp{}, ez.NotFound("User not found")
	case errors.Is(err, service.ErrUserNotDeleted):
		return resp.Resp{}, ez.BadRequest("User not deleted")
	case err != nil:
		return resp.Resp{}, err
	}
	return resp.OK("User deleted", nil), nil
}

func (h *UserHandler) me(c *gin.Context, _ *struct{}) (resp.Resp, error) {
	p, err := h.users.GetByID(c.Request.Context(), c.GetString("userId"))
	if errors.Is(err, domain.ErrNotFound) {
		return resp.Resp{}, ez.Unauthorized("user no longer exists")
	}
	if err != nil {
		return resp.Resp{}, err
	}
	return resp.OK("User found", p), nil
}
