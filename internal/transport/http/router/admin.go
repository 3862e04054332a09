package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"syriazone/internal/core/auth"
	"syriazone/internal/core/config"
	"syriazone/internal/domain"
	"syriazone/internal/transport/http/handler"
	mdw "syriazone/internal/transport/http/middleware"
)

// NewAdminEngine 管理端：/admin/v1，统一要求 SuperAdmin
func NewAdminEngine(l *zap.Logger, h config.HTTP, jwter *auth.JWTer, ah *handler.AdminHandler) *gin.Engine {
	r := newBase(l, h)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, domain.RoleSuperAdmin))

	ah.Mount(admin)
	MountAllAdmin(admin)

	return r
}
