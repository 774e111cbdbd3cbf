package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "mini-boxdrop/docs"
	"mini-boxdrop/internal/core/server"
	mdw "mini-boxdrop/internal/transport/http/middleware"
	resp "mini-boxdrop/internal/transport/http/response"
)

// Options 全局中间件参数；零值表示不启用对应中间件
type Options struct {
	RatePerSec     float64
	RateBurst      int
	MaxConcurrent  int64
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	AllowOrigins   []string
	// Checks /health 依次执行，任一失败返回 503
	Checks map[string]func(context.Context) error
}

func NewAPIEngine(l *zap.Logger, opt Options, mods ...APIModule) *gin.Engine {
	r := server.NewRouter(l, opt.AllowOrigins)

	// 中间件
	r.Use(
		mdw.RequestID(l),
		mdw.AccessLog(l),
		mdw.SimpleRecovery(l),
		mdw.Metrics(),
	)
	if opt.RatePerSec > 0 {
		r.Use(mdw.RateLimit(rate.Limit(opt.RatePerSec), max(opt.RateBurst, 1)))
	}
	if opt.MaxConcurrent > 0 {
		r.Use(mdw.ConcurrencyLimit(opt.MaxConcurrent))
	}
	if opt.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(opt.MaxBodyBytes))
	}
	if opt.RequestTimeout > 0 {
		r.Use(mdw.Timeout(opt.RequestTimeout))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, resp.OK("Server is running", nil))
	})
	// 健康检查
	r.GET("/health", health(opt.Checks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/apidocs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/apidocs/doc.json"))))

	var reg Registry
	reg.Register(mods...)
	reg.MountAll(&r.RouterGroup)

	r.NoRoute(func(c *gin.Context) {
		resp.Abort(c, resp.CodeNotFound, "Page not found")
	})
	return r
}

func health(checks map[string]func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		out := gin.H{}
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				out[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			out[name] = "ok"
		}
		msg := "ok"
		if code != http.StatusOK {
			msg = "unhealthy"
		}
		c.JSON(code, resp.New(code, msg, out))
	}
}
