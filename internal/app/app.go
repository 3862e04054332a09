package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"syriazone/internal/core/auth"
	"syriazone/internal/core/cache"
	"syriazone/internal/core/config"
	"syriazone/internal/core/database"
	"syriazone/internal/core/events"
	"syriazone/internal/core/storage"
	"syriazone/internal/domain"
	"syriazone/internal/feature"
	"syriazone/internal/repo"
	"syriazone/internal/service"
	"syriazone/internal/transport/http/router"
)

// App 用户端与管理端共用的依赖装配
type App struct {
	Cfg *config.Config
	Log *zap.Logger
	DB  *gorm.DB
	JWT *auth.JWTer

	Cache   *cache.Cache        // 未配置 redis 时为 nil
	Pub     events.Publisher    // 未配置 kafka 时为 events.Nop
	Objects storage.ObjectStore // 未配置 s3 时为 nil

	Auth    *service.AuthService
	Users   *service.UserService
	Stores  *service.StoreService
	Ratings *service.RatingService

	closers []func() error
}

// Models 全部表
func Models() []any {
	base := []any{
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Store{},
		&domain.ProductRating{},
	}
	return append(base, feature.Models()...)
}

func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	a := &App{Cfg: cfg, Log: l, Pub: events.Nop{}}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	a.DB = db
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db, Models()...); err != nil {
			a.Close()
			return nil, err
		}
		l.Info("automigrate done")
	}

	a.JWT, err = auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.AccessTTL(), cfg.JWT.Leeway())
	if err != nil {
		a.Close()
		return nil, err
	}

	// redis 可选：连不上只告警，资料缓存退化为直读库
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := c.Ping(pctx)
		cancel()
		if err != nil {
			l.Warn("redis unavailable, profile cache disabled", zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache = c
			a.closers = append(a.closers, c.Close)
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, l)
		a.Pub = kp
		a.closers = append(a.closers, kp.Close)
	}

	if cfg.S3.Bucket != "" {
		s3, err := storage.NewS3Store(ctx, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.PublicBaseURL)
		if err != nil {
			l.Warn("s3 unavailable, logo upload disabled", zap.Error(err))
		} else {
			a.Objects = s3
		}
	}

	users := repo.NewUserRepo(db)
	tokens := repo.NewRefreshTokenRepo(db)
	ev := &service.Emitter{Pub: a.Pub, Source: cfg.Kafka.Source, L: l}
	profiles := &service.ProfileCache{C: a.Cache, TTL: time.Duration(cfg.Redis.ProfileTTL) * time.Second, L: l}

	a.Auth = service.NewAuthService(users, tokens, a.JWT, cfg.JWT.RefreshTTL(), ev, l)
	a.Users = service.NewUserService(users, tokens, profiles, ev, l)
	a.Stores = service.NewStoreService(repo.NewStoreRepo(db), profiles, ev, l)
	a.Ratings = service.NewRatingService(repo.NewRatingRepo(db))

	for _, m := range feature.Modules(db) {
		router.Register(m)
	}
	return a, nil
}

// Close 逆序释放
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}
