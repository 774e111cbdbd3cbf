package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"mini-boxdrop/internal/core/auth"
	"mini-boxdrop/internal/core/cache"
	"mini-boxdrop/internal/core/config"
	"mini-boxdrop/internal/core/database"
	"mini-boxdrop/internal/core/logger"
	"mini-boxdrop/internal/core/server"
	"mini-boxdrop/internal/domain"
	"mini-boxdrop/internal/repo"
	"mini-boxdrop/internal/service"
	"mini-boxdrop/internal/storage"
	"mini-boxdrop/internal/transport/http/handler"
	"mini-boxdrop/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))

	log, cleanup := newLogger(cfg)
	defer cleanup()
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)
	defer undo()
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	defer func() { _ = database.Close(db) }()

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.Product{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// 文件存储（上传目录不存在时自动创建）
	files := mustOpenStore(cfg, log)

	// 缓存（addr 为空则不启用）
	rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
	defer func() { _ = rc.Close() }()
	if rc != nil {
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.TokenTTL(),
	}

	userRepo := repo.NewUserRepo(db)
	productRepo := repo.NewCachedProductRepo(repo.NewProductRepo(db), rc, cfg.Redis.TTL, log)
	userSvc := service.NewUserService(userRepo, productRepo, files, log)
	productSvc := service.NewProductService(productRepo, userRepo, files, log)

	h := cfg.App.HTTP
	r := router.NewAPIEngine(log, router.Options{
		RatePerSec:     h.RatePerSec,
		RateBurst:      h.RateBurst,
		MaxConcurrent:  h.MaxConcurrent,
		RequestTimeout: h.RequestTimeout,
		MaxBodyBytes:   h.MaxBodyMB << 20,
		AllowOrigins:   cfg.CORS.AllowOrigins,
		Checks: map[string]func(context.Context) error{
			"db":    func(ctx context.Context) error { return pingDB(ctx, db) },
			"redis": rc.Ping,
		},
	},
		handler.NewUserHandler(userSvc, jwter),
		handler.NewProductHandler(productSvc, cfg.MaxUploadBytes()),
	)

	// HTTP Server
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	// 启动日志
	host4human := h.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(h.Port)
	log.Info("boxdrop api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("docs", baseURL+"/apidocs/index.html"),
		zap.String("storage", cfg.Storage.Driver),
	)

	// 异步启动
	go func() {
		if err := server.StartHTTP(srv, log); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("boxdrop api start FAILED", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("boxdrop api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	lc := cfg.Log
	opt := logger.Options{
		Level:  lc.Level,
		JSON:   lc.JSON,
		Fields: []zap.Field{zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env)},
	}
	if lc.Rotate.Enable {
		opt.Rotate = logger.Rotate{
			Filename:   lc.Rotate.Filename,
			MaxSizeMB:  lc.Rotate.MaxSizeMB,
			MaxBackups: lc.Rotate.MaxBackups,
			MaxAgeDays: lc.Rotate.MaxAgeDays,
			Compress:   lc.Rotate.Compress,
		}
	}
	return logger.New(opt)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}

func mustOpenStore(cfg *config.Config, l *zap.Logger) storage.Store {
	switch cfg.Storage.Driver {
	case "s3":
		s3c := cfg.Storage.S3
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		st, err := storage.NewS3Store(ctx, storage.S3Options{
			Bucket:          s3c.Bucket,
			Region:          s3c.Region,
			Endpoint:        s3c.Endpoint,
			AccessKeyID:     s3c.AccessKeyID,
			SecretAccessKey: s3c.SecretAccessKey,
			UsePathStyle:    s3c.UsePathStyle,
			Prefix:          s3c.Prefix,
		})
		if err != nil {
			l.Fatal("s3 store", zap.Error(err))
		}
		l.Info("file store: s3", zap.String("bucket", s3c.Bucket))
		return st
	default:
		st, err := storage.NewLocalStore(cfg.Storage.UploadDir)
		if err != nil {
			l.Fatal("local store", zap.Error(err))
		}
		l.Info("file store: local", zap.String("dir", cfg.Storage.UploadDir))
		return st
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
