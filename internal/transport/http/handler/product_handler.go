package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"mini-boxdrop/internal/domain"
	"mini-boxdrop/internal/service"
	"mini-boxdrop/internal/transport/http/ez"
	resp "mini-boxdrop/internal/transport/http/response"
)

const uploadField = "file_data"

// ProductHandler /product 下的接口；上传走 multipart，字段 file_data
type ProductHandler struct {
	products  *service.ProductService
	maxUpload int64 // 0 不限制
}

func NewProductHandler(products *service.ProductService, maxUpload int64) *ProductHandler {
	return &ProductHandler{products: products, maxUpload: maxUpload}
}

func (h *ProductHandler) Priority() int { return 20 }

func (h *ProductHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g.Group("/product"))

	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Methods: []string{http.MethodGet},
		Path:    "/",
		Binder:  ez.BindNone,
		Handler: func(*gin.Context, *struct{}) (resp.Resp, error) {
			return resp.OK("Product home", nil), nil
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Methods: []string{http.MethodGet},
		Path:    "/id/:id/",
		Binder:  ez.BindNone,
		Handler: h.get,
	})
	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Methods: []string{http.MethodGet},
		Path:    "/list/",
		Binder:  ez.BindNone,
		Handler: h.list,
	})
	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Methods: []string{http.MethodGet},
		Path:    "/list_user/:id/",
		Binder:  ez.BindNone,
		Handler: h.listByOwner,
	})
	ez.RegisterAction(e, ez.Action[service.ProductInput, resp.Resp]{
		Path:    "/add/",
		Binder:  ez.BindAuto,
		Handler: h.add,
	})
	// edit 自己绑定：先确认产品存在再读请求体
	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Path:    "/edit/:id/",
		Binder:  ez.BindNone,
		Handler: h.edit,
	})
	ez.RegisterAction(e, ez.Action[struct{}, resp.Resp]{
		Methods: []string{http.MethodGet, http.MethodPost},
		Path:    "/delete/:id/",
		Binder:  ez.BindNone,
		Handler: h.delete,
	})
}

func (h *ProductHandler) get(c *gin.Context, _ *struct{}) (resp.Resp, error) {
	p, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		return resp.Resp{}, ez.NotFound("Product not found")
	}
	if err != nil {
		return resp.Resp{}, err
	}
	return resp.OK("Product found", p), nil
}

func (h *ProductHandler) list(c *gin.Context, _ *struct{}) (resp.Resp, error) {
	ps, err := h.products.ListAll(c.Request.Context())
	if err != nil {
		return resp.Resp{}, err
	}
	return listReply(ps), nil
}

func (h *ProductHandler) listByOwner(c *gin.Context, _ *struct{}) (resp.Resp, error) {
	ps, err := h.products.ListByOwner(c.Request.Context(), c.Param("id"))
	if err != nil {
		return resp.Resp{}, err
	}
	return listReply(ps), nil
}

func listReply(ps []domain.Product) resp.Resp {
	if len(ps) == 0 {
		return resp.OK("Table products is empty", ps)
	}
	return resp.OK("Products found", ps)
}

func (h *ProductHandler) add(c *gin.Context, in *service.ProductInput) (resp.Resp, error) {
	up, closeUp, err := h.upload(c)
	if err != nil {
		return resp.Resp{}, err
	}
	defer closeUp()

	p, err := h.products.Create(c.Request.Context(), *in, up)
	switch {
	case errors.Is(err, service.ErrInvalidOwner):
		return resp.Resp{}, ez.BadRequest("Product not added. Invalid user ID")
	case errors.Is(err, domain.ErrValidation):
		return resp.Resp{}, ez.BadRequest("Product not added. Invalid form data")
	case err != nil:
		return resp.Resp{}, err
	}
	return resp.OK("Product added successfully", p), nil
}

func (h *ProductHandler) edit(c *gin.Context, _ *struct{}) (resp.Resp, error) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.products.Get(ctx, id); errors.Is(err, domain.ErrNotFound) {
		return resp.Resp{}, ez.NotFound("Product not found")
	} else if err != nil {
		return resp.Resp{}, err
	}

	var in service.ProductInput
	if err := c.ShouldBind(&in); err != nil {
		return resp.Resp{}, formErr(err)
	}
	up, closeUp, err := h.upload(c)
	if err != nil {
		return resp.Resp{}, err
	}
	defer closeUp()

	p, err := h.products.Update(ctx, id, in, up)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return resp.Resp{}, ez.NotFound("Product not found")
	case errors.Is(err, domain.ErrValidation):
		return resp.Resp{}, ez.BadRequest("Product not updated. Invalid form data")
	case err != nil:
		return resp.Resp{}, err
	}
	return resp.OK("Product updated successfully", p), nil
}

func (h *ProductHandler) delete(c *gin.Context, _ *struct{}) (resp.Resp, error) {
	err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		return resp.Resp{}, ez.NotFound("Product not found")
	}
	if err != nil {
		return resp.Resp{}, err
	}
	return resp.OK("Product deleted successfully", nil), nil
}

// upload 取可选的 file_data；没有文件时返回 nil
func (h *ProductHandler) upload(c *gin.Context) (*service.Upload, func(), error) {
	noop := func() {}
	fh, err := ez.FormFile(c, uploadField)
	if err != nil {
		return nil, noop, formErr(err)
	}
	if fh == nil || fh.Filename == "" {
		return nil, noop, nil
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return nil, noop, ez.Fail(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File too large (max %d MB)", h.maxUpload>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, ez.Internal("open upload failed", err)
	}
	return &service.Upload{Filename: fh.Filename, Body: io.Reader(f)}, func() { _ = f.Close() }, nil
}

// formErr 请求体超过全局上限为 413，其余解析失败为 400
func formErr(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return ez.Fail(http.StatusRequestEntityTooLarge, "Request body too large")
	}
	return ez.BadRequest("Invalid form: " + err.Error())
}
