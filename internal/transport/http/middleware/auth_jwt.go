package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"syriazone/internal/core/auth"
	"syriazone/internal/domain"
	resp "syriazone/internal/transport/http/response"
)

const (
	KeyClaims   = "claims"
	KeyUserID   = "userId"
	KeyRole     = "role"
	KeyHasStore = "hasStore"
)

// AuthJWT 校验 Bearer token；roles 为空表示任意已登录角色
func AuthJWT(j *auth.JWTer, roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			authRejected.WithLabelValues("missing").Inc()
			resp.Abort(c, resp.CodeUnauthorized, "unauthorized")
			return
		}
		claims, err := j.Parse(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			authRejected.WithLabelValues("invalid").Inc()
			_ = c.Error(err)
			resp.Abort(c, resp.CodeUnauthorized, "unauthorized")
			return
		}
		if len(roles) > 0 && !hasRole(roles, domain.Role(claims.Role)) {
			authRejected.WithLabelValues("role").Inc()
			resp.Abort(c, resp.CodeForbidden, "forbidden")
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Set(KeyHasStore, claims.HasStore)
		c.Next()
	}
}

// RequireRole 挂在 AuthJWT 之后的子分组上，追加角色限制
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(KeyUserID) == "" {
			resp.Abort(c, resp.CodeUnauthorized, "unauthorized")
			return
		}
		if !hasRole(roles, domain.Role(c.GetString(KeyRole))) {
			authRejected.WithLabelValues("role").Inc()
			resp.Abort(c, resp.CodeForbidden, "forbidden")
			return
		}
		c.Next()
	}
}

func hasRole(roles []domain.Role, r domain.Role) bool {
	for _, want := range roles {
		if want == r {
			return true
		}
	}
	return false
}

// CurrentActor 取当前登录身份；未登录时 UserID 为空
func CurrentActor(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID:   c.GetString(KeyUserID),
		Role:     domain.Role(c.GetString(KeyRole)),
		HasStore: c.GetBool(KeyHasStore),
	}
}
