package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "syriazone/internal/transport/http/response"
)

// MaxBodyBytes 限制请求体大小；声明了 Content-Length 的直接拒绝，chunked 交给 MaxBytesReader
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
