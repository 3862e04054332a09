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

type AdminHandler struct {
	users  *service.UserService
	stores *service.StoreService
}

func NewAdminHandler(u *service.UserService, s *service.StoreService) *AdminHandler {
	return &AdminHandler{users: u, stores: s}
}

type pageQ struct {
	Offset int    `form:"offset,default=0"  binding:"min=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // 按 email/姓名模糊搜
}

func (q *pageQ) clamp() {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
}

type idOut struct {
	ID string `json:"id"`
}

type listOut[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

// Mount 管理端；分组已走 AuthJWT(SuperAdmin)，Roles 再校验一次
func (h *AdminHandler) Mount(admin *gin.RouterGroup) {
	e := httpez.New(admin)
	roles := []string{string(domain.RoleSuperAdmin)}

	// --- 用户列表 ---
	httpez.RegisterAction[pageQ, listOut[service.Profile]](e, nil, httpez.Action[pageQ, listOut[service.Profile]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  roles,
		Handler: func(c *gin.Context, _ *gorm.DB, in *pageQ) (listOut[service.Profile], error) {
			in.clamp()
			items, total, err := h.users.List(c.Request.Context(), in.Offset, in.Limit, in.Q)
			if err != nil {
				return listOut[service.Profile]{}, err
			}
			return listOut[service.Profile]{Total: total, Items: items}, nil
		},
	})

	// --- 封禁（软删 + 吊销 refresh token） ---
	httpez.RegisterAction[idURI, idOut](e, nil, httpez.Action[idURI, idOut]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindURI,
		Auth:   true,
		Roles:  roles,
		Handler: func(c *gin.Context, _ *gorm.DB, in *idURI) (idOut, error) {
			if err := h.users.Ban(c.Request.Context(), in.ID); err != nil {
				return idOut{}, err
			}
			return idOut{ID: in.ID}, nil
		},
	})

	// --- 店铺 ---
	httpez.RegisterAction[pageQ, listOut[domain.Store]](e, nil, httpez.Action[pageQ, listOut[domain.Store]]{
		Method: http.MethodGet,
		Path:   "/stores",
		Binder: httpez.BindQuery,
		Auth:   true,
		Roles:  roles,
		Handler: func(c *gin.Context, _ *gorm.DB, in *pageQ) (listOut[domain.Store], error) {
			in.clamp()
			items, total, err := h.stores.List(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return listOut[domain.Store]{}, err
			}
			return listOut[domain.Store]{Total: total, Items: items}, nil
		},
	})

	httpez.RegisterAction[createStoreReq, *domain.Store](e, nil, httpez.Action[createStoreReq, *domain.Store]{
		Method: http.MethodPost,
		Path:   "/stores",
		Binder: httpez.BindJSON,
		Auth:   true,
		Roles:  roles,
		Handler: func(c *gin.Context, _ *gorm.DB, in *createStoreReq) (*domain.Store, error) {
			if in.UserID == "" {
				return nil, httpez.BadRequest("userId is required")
			}
			return h.stores.Create(c.Request.Context(), mdw.CurrentActor(c), service.CreateStoreInput{
				UserID:      in.UserID,
				Name:        in.Name,
				Description: in.Description,
				Logo:        in.Logo,
				Phone:       in.Phone,
			})
		},
	})

	httpez.RegisterAction[userIDURI, userIDOut](e, nil, httpez.Action[userIDURI, userIDOut]{
		Method: http.MethodDelete,
		Path:   "/stores/:userId",
		Binder: httpez.BindURI,
		Auth:   true,
		Roles:  roles,
		Handler: func(c *gin.Context, _ *gorm.DB, in *userIDURI) (userIDOut, error) {
			if err := h.stores.Delete(c.Request.Context(), mdw.CurrentActor(c), in.UserID); err != nil {
				return userIDOut{}, err
			}
			return userIDOut{UserID: in.UserID}, nil
		},
	})
}
