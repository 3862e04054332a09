package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"syriazone/internal/app"
	"syriazone/internal/core/config"
	"syriazone/internal/core/logger"
	"syriazone/internal/core/server"
	"syriazone/internal/transport/http/handler"
	"syriazone/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log, cleanup := logger.New(cfg.Log)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	// 路由（用户端）
	r := router.NewAPIEngine(log, cfg.App.HTTP, router.APIDeps{
		JWT:     a.JWT,
		Users:   handler.NewUserHandler(a.Auth, a.Users),
		Stores:  handler.NewStoreHandler(a.Stores, a.Objects),
		Ratings: handler.NewRatingHandler(a.Ratings),
	})

	h := cfg.App.HTTP
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
	log.Info("user api starting",
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api", baseURL+"/api"),
		zap.Bool("cache", a.Cache != nil),
		zap.Bool("logo_upload", a.Objects != nil),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("user api FAILED", zap.Error(err))
	}
}
