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
	log = log.With(zap.String("svc", "admin"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	r := router.NewAdminEngine(log, cfg.App.HTTP, a.JWT, handler.NewAdminHandler(a.Users, a.Stores))

	// 管理端默认只监听本机
	h := cfg.App.HTTP
	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("admin api FAILED", zap.Error(err))
	}
}
