package config

import (
	"errors"
	"fmt"
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
	// 全局限流（令牌桶）
	RateLimitRPS   float64
	RateLimitBurst int
	// 登录/注册等认证接口的单 IP 限流
	AuthRPS        float64
	AuthBurst      int
	MaxConcurrency int64
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level string
	JSON  bool
	// 非空时同时写文件并切割
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret               string
	Issuer               string
	Audience             string
	AccessTokenTTLMin    int
	RefreshTokenTTLHours int
	LeewaySec            int
}

func (j JWT) AccessTTL() time.Duration  { return time.Duration(j.AccessTokenTTLMin) * time.Minute }
func (j JWT) RefreshTTL() time.Duration { return time.Duration(j.RefreshTokenTTLHours) * time.Hour }
func (j JWT) Leeway() time.Duration     { return time.Duration(j.LeewaySec) * time.Second }

type Redis struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	ProfileTTL int    `mapstructure:"profilettlsec"`
}

type Kafka struct {
	Brokers []string
	Source  string
}

type S3 struct {
	Region        string
	Bucket        string
	PublicBaseURL string
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

type Config struct {
	App   App
	Log   Log
	JWT   JWT
	DB    DB
	Redis Redis `mapstructure:"redis"`
	Kafka Kafka
	S3    S3
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "syriazone")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.http.ratelimitrps", 200)
	v.SetDefault("app.http.ratelimitburst", 400)
	v.SetDefault("app.http.authrps", 3)
	v.SetDefault("app.http.authburst", 30)
	v.SetDefault("app.http.maxconcurrency", 300)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxsizemb", 100)
	v.SetDefault("log.maxbackups", 7)
	v.SetDefault("log.maxagedays", 30)
	v.SetDefault("jwt.issuer", "syriazone")
	v.SetDefault("jwt.audience", "syriazone-clients")
	v.SetDefault("jwt.accesstokenttlmin", 60)
	v.SetDefault("jwt.refreshtokenttlhours", 24*14)
	v.SetDefault("jwt.leewaysec", 30)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.maxopenconns", 50)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("redis.profilettlsec", 300)
	v.SetDefault("kafka.source", "syriazone-api")
}

// Load 读取 YAML，APP_ 前缀环境变量覆盖（如 APP_JWT_SECRET）
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("jwt.secret must be at least 32 bytes"))
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		errs = append(errs, errors.New("jwt.accessTokenTTLMin must be positive"))
	}
	if c.JWT.RefreshTokenTTLHours <= 0 {
		errs = append(errs, errors.New("jwt.refreshTokenTTLHours must be positive"))
	}
	switch c.DB.Driver {
	case "postgres", "mysql":
	default:
		errs = append(errs, fmt.Errorf("db.driver %q not supported", c.DB.Driver))
	}
	return errors.Join(errs...)
}
