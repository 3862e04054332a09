package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	resp "syriazone/internal/transport/http/response"
)

// Timeout 给下游 ctx 设截止时间；handler 未写响应就超时则回 504
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			resp.Abort(c, resp.CodeTimeout, "timeout")
		}
	}
}
