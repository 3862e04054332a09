package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

func BuildServer(addr string, handler http.Handler, rt, wt, it time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       rt,
		ReadHeaderTimeout: rt,
		WriteTimeout:      wt,
		IdleTimeout:       it,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
}

func Addr(host string, port int) string { return fmt.Sprintf("%s:%d", host, port) }

// Run 启动并阻塞到 ctx 结束，然后在 grace 内优雅关闭
func Run(ctx context.Context, srv *http.Server, l *zap.Logger, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	l.Info("http stopped gracefully", zap.String("addr", srv.Addr))
	return nil
}
