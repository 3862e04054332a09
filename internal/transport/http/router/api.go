package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"syriazone/internal/core/auth"
	"syriazone/internal/core/config"
	"syriazone/internal/transport/http/handler"
	mdw "syriazone/internal/transport/http/middleware"
)

type APIDeps struct {
	JWT     *auth.JWTer
	Users   *handler.UserHandler
	Stores  *handler.StoreHandler
	Ratings *handler.RatingHandler
}

// NewAPIEngine 用户端：/api
func NewAPIEngine(l *zap.Logger, h config.HTTP, d APIDeps) *gin.Engine {
	r := newBase(l, h)

	api := r.Group("/api")

	// 鉴权分组（⚠️ 需要 userId 的接口必须挂这里）
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT))

	// 登录/注册/刷新单 IP 限流，防撞库
	authLimit := mdw.RateLimitPerIP(rate.Limit(h.AuthRPS), h.AuthBurst)

	d.Users.Mount(api, authed, authLimit)
	d.Stores.Mount(api, authed)
	d.Ratings.Mount(api, authed)

	// 目录/购物车/订单等模块
	MountAllAPI(api, authed)

	return r
}
