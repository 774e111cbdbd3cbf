package logger

import (
	"context"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotate 文件输出 + 切割；Filename 为空时不写文件
type Rotate struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Options struct {
	Level  string // debug / info / warn / error，非法值按 info
	JSON   bool   // false 为彩色控制台格式（开发用）
	Rotate Rotate
	Fields []zap.Field // 每条日志都带上的字段，如 app / env
	Out    io.Writer   // 默认 os.Stdout
}

// New 返回 logger 与 flush 函数
func New(opt Options) (*zap.Logger, func()) {
	lvl, err := zapcore.ParseLevel(opt.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	enc := encoder(opt.JSON)

	out := opt.Out
	if out == nil {
		out = os.Stdout
	}
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(out), lvl)}
	if opt.Rotate.Filename != "" {
		lj := &lumberjack.Logger{
			Filename:   opt.Rotate.Filename,
			MaxSize:    max(1, opt.Rotate.MaxSizeMB),
			MaxBackups: max(0, opt.Rotate.MaxBackups),
			MaxAge:     max(0, opt.Rotate.MaxAgeDays),
			Compress:   opt.Rotate.Compress,
		}
		cores = append(cores, zapcore.NewCore(enc, fileSink{lj}, lvl))
	}

	// 同一秒内同样的消息超过 100 条后每 100 条取 1
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)

	zopts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if !opt.JSON {
		zopts = append(zopts, zap.Development())
	}
	if len(opt.Fields) > 0 {
		zopts = append(zopts, zap.Fields(opt.Fields...))
	}
	l := zap.New(core, zopts...)
	return l, func() { _ = l.Sync() }
}

func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

// fileSink lumberjack 没有 Sync
type fileSink struct{ *lumberjack.Logger }

func (fileSink) Sync() error { return nil }

type ctxKey struct{}

// WithContext 把请求级 logger（带 request_id）放进 ctx
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext 取 ctx 中的 logger；没有时用 fallback，fallback 为 nil 时返回 Nop
func FromContext(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	if fallback != nil {
		return fallback
	}
	return zap.NewNop()
}

type lineWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w lineWriter) Write(p []byte) (int, error) {
	if ce := w.l.Check(w.level, strings.TrimRight(string(p), "\r\n")); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter 给 gin.DefaultWriter 用，每次 Write 记一条
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return lineWriter{l: l, level: level}
}

// ToStdLogger 给 GORM logger 用
func ToStdLogger(l *zap.Logger, level zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l, level)
}

func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
