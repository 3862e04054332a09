package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"syriazone/internal/domain"
	"syriazone/internal/service"
	httpez "syriazone/internal/transport/http/ez"
	mdw "syriazone/internal/transport/http/middleware"
)

type UserHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

func NewUserHandler(a *service.AuthService, u *service.UserService) *UserHandler {
	return &UserHandler{auth: a, users: u}
}

// 老客户端把明文放在 passwordHash 字段里提交，两个字段都认
type credentials struct {
	Password     string `json:"password"`
	PasswordHash string `json:"passwordHash"`
}

func (c credentials) secret() string {
	if c.Password != "" {
		return c.Password
	}
	return c.PasswordHash
}

type registerReq struct {
	credentials
	FullName    string `json:"fullName"    binding:"max=128"`
	Email       string `json:"email"       binding:"required,email,max=191"`
	PhoneNumber string `json:"phoneNumber" binding:"max=32"`
	Role        string `json:"role"`
}

type loginReq struct {
	credentials
	Email string `json:"email" binding:"required"`
}

type tokenReq struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (r tokenReq) value() string {
	if r.Token != "" {
		return r.Token
	}
	return r.RefreshToken
}

type emptyOut struct{}

type idURI struct {
	ID string `uri:"id" binding:"required"`
}

type profileReq struct {
	FullName    string `json:"fullName"    binding:"max=128"`
	PhoneNumber string `json:"phoneNumber" binding:"max=32"`
}

// Mount public: 注册/登录/刷新/查用户；authed: /User/me
func (h *UserHandler) Mount(public, authed *gin.RouterGroup, authLimit gin.HandlerFunc) {
	ezPub := httpez.New(public.Group("/User", authLimit))
	ezAuth := httpez.New(authed.Group("/User"))

	httpez.RegisterAction[registerReq, *service.Profile](ezPub, nil, httpez.Action[registerReq, *service.Profile]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *registerReq) (*service.Profile, error) {
			return h.auth.Register(c.Request.Context(), service.RegisterInput{
				FullName:    in.FullName,
				Email:       in.Email,
				Password:    in.secret(),
				PhoneNumber: in.PhoneNumber,
				Role:        domain.Role(in.Role),
			})
		},
	})

	httpez.RegisterAction[loginReq, *service.LoginResult](ezPub, nil, httpez.Action[loginReq, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *loginReq) (*service.LoginResult, error) {
			return h.auth.Login(c.Request.Context(), service.LoginInput{Email: in.Email, Password: in.secret()})
		},
	})

	httpez.RegisterAction[tokenReq, *service.TokenPair](ezPub, nil, httpez.Action[tokenReq, *service.TokenPair]{
		Method: http.MethodPost,
		Path:   "/refresh",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *tokenReq) (*service.TokenPair, error) {
			return h.auth.Refresh(c.Request.Context(), in.value())
		},
	})

	httpez.RegisterAction[tokenReq, emptyOut](ezPub, nil, httpez.Action[tokenReq, emptyOut]{
		Method: http.MethodPost,
		Path:   "/logout",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *tokenReq) (emptyOut, error) {
			return emptyOut{}, h.auth.Logout(c.Request.Context(), in.value())
		},
	})

	httpez.RegisterAction[struct{}, *service.Profile](ezAuth, nil, httpez.Action[struct{}, *service.Profile]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (*service.Profile, error) {
			return h.users.Get(c.Request.Context(), mdw.CurrentActor(c).UserID)
		},
	})

	httpez.RegisterAction[profileReq, *service.Profile](ezAuth, nil, httpez.Action[profileReq, *service.Profile]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *profileReq) (*service.Profile, error) {
			return h.users.UpdateProfile(c.Request.Context(), mdw.CurrentActor(c), service.UpdateProfileInput{
				FullName:    in.FullName,
				PhoneNumber: in.PhoneNumber,
			})
		},
	})

	// 公开资料，不走限流组
	httpez.RegisterAction[idURI, *service.Profile](httpez.New(public.Group("/User")), nil, httpez.Action[idURI, *service.Profile]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, _ *gorm.DB, in *idURI) (*service.Profile, error) {
			return h.users.Get(c.Request.Context(), in.ID)
		},
	})
}
