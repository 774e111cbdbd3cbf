package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	// 全局限流 / 并发 / 超时 / 请求体上限
	RatePerSec     float64
	RateBurst      int
	MaxConcurrent  int64
	RequestTimeout time.Duration
	MaxBodyMB      int64
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type S3 struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Prefix          string
}

// Storage driver: local | s3
type Storage struct {
	Driver      string
	UploadDir   string
	MaxUploadMB int64
	S3          S3
}

type CORS struct {
	AllowOrigins []string
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Storage Storage
	CORS    CORS
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "mini-boxdrop")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readtimeoutsec", 15)
	v.SetDefault("app.http.writetimeoutsec", 60)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.ratepersec", 50)
	v.SetDefault("app.http.rateburst", 100)
	v.SetDefault("app.http.maxconcurrent", 256)
	v.SetDefault("app.http.requesttimeout", "30s")
	v.SetDefault("app.http.maxbodymb", 64)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.rotate.filename", "logs/app.log")
	v.SetDefault("log.rotate.maxsizemb", 100)
	v.SetDefault("log.rotate.maxbackups", 7)
	v.SetDefault("log.rotate.maxagedays", 30)

	v.SetDefault("jwt.issuer", "mini-boxdrop")
	v.SetDefault("jwt.accesstokenttlmin", 120)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "boxdrop.db")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("redis.prefix", "boxdrop:")
	v.SetDefault("redis.ttl", "5m")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.uploaddir", "uploads")
	v.SetDefault("storage.maxuploadmb", 50)

	v.SetDefault("cors.alloworigins", []string{"*"})
}

// Read 读取配置文件 + APP_ 前缀环境变量
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "local":
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("config: storage.uploaddir is required")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("config: storage.s3.bucket is required")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: jwt.secret is required")
	}
	return nil
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenTTLMin) * time.Minute
}

func (c *Config) MaxUploadBytes() int64 { return c.Storage.MaxUploadMB << 20 }
