package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "syriazone/internal/transport/http/response"
)

// Recovery panic 记录堆栈，对外只返回 500 信封
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		resp.Abort(c, resp.CodeServerError, "internal error")
	})
}
