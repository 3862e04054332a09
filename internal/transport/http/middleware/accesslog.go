package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type respWriter struct {
	gin.ResponseWriter
	status int
	size   int
}

func (w *respWriter) WriteHeader(code int) { w.status = code; w.ResponseWriter.WriteHeader(code) }
func (w *respWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = 200
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// 敏感字段 key（query 中统一按 key）
var sensitiveKeys = map[string]struct{}{
	"password": {}, "pwd": {}, "token": {}, "refreshtoken": {}, "authorization": {},
	"secret": {}, "client_secret": {}, "access_token": {},
}

func mask(kv map[string][]string) map[string][]string {
	out := make(map[string][]string, len(kv))
	for k, v := range kv {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			out[k] = []string{"****"}
		} else {
			out[k] = v
		}
	}
	return out
}

func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		w := &respWriter{ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		status := w.status
		if status == 0 {
			status = c.Writer.Status()
		}
		lvl := zapcore.InfoLevel
		switch {
		case status >= 500:
			lvl = zapcore.ErrorLevel
		case status >= 400:
			lvl = zapcore.WarnLevel
		}
		fields := []zap.Field{
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Any("query", mask(c.Request.URL.Query())),
			zap.Int("size", w.size),
		}
		if uid := c.GetString(KeyUserID); uid != "" {
			fields = append(fields, zap.String("uid", uid))
		}
		// handler 通过 c.Error 挂上的内部原因，只进日志
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if ce := l.Check(lvl, "HTTP"); ce != nil {
			ce.Write(fields...)
		}
	}
}
