package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"syriazone/internal/core/storage"
	"syriazone/internal/domain"
	"syriazone/internal/service"
	httpez "syriazone/internal/transport/http/ez"
	mdw "syriazone/internal/transport/http/middleware"
)

const (
	maxLogoBytes = 5 << 20
	maxLogoFiles = 4
)

var logoTypes = map[string]struct{}{
	"image/png": {}, "image/jpeg": {}, "image/webp": {}, "image/gif": {},
}

type StoreHandler struct {
	stores  *service.StoreService
	objects storage.ObjectStore // nil 时不挂 /Stores/logo
}

func NewStoreHandler(s *service.StoreService, objects storage.ObjectStore) *StoreHandler {
	return &StoreHandler{stores: s, objects: objects}
}

type createStoreReq struct {
	UserID      string `json:"userId"`
	Name        string `json:"name"        binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	Logo        string `json:"logo"        binding:"max=512"`
	Phone       string `json:"phone"       binding:"max=32"`
}

type updateStoreReq struct {
	Name        *string `json:"name"        binding:"omitempty,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Logo        *string `json:"logo"        binding:"omitempty,max=512"`
	Phone       *string `json:"phone"       binding:"omitempty,max=32"`
}

type userIDURI struct {
	UserID string `uri:"userId" binding:"required"`
}

type userIDOut struct {
	UserID string `json:"userId"`
}

type logoOut struct {
	URLs []string `json:"urls"`
}

func (h *StoreHandler) Mount(public, authed *gin.RouterGroup) {
	ezPub := httpez.New(public.Group("/Stores"))
	ezAuth := httpez.New(authed.Group("/Stores"))

	httpez.RegisterAction[createStoreReq, *domain.Store](ezAuth, nil, httpez.Action[createStoreReq, *domain.Store]{
		Method: http.MethodPost,
		Path:   "/create",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *createStoreReq) (*domain.Store, error) {
			return h.stores.Create(c.Request.Context(), mdw.CurrentActor(c), service.CreateStoreInput{
				UserID:      in.UserID,
				Name:        in.Name,
				Description: in.Description,
				Logo:        in.Logo,
				Phone:       in.Phone,
			})
		},
	})

	httpez.RegisterAction[userIDURI, *domain.Store](ezPub, nil, httpez.Action[userIDURI, *domain.Store]{
		Method: http.MethodGet,
		Path:   "/user/:userId",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, _ *gorm.DB, in *userIDURI) (*domain.Store, error) {
			return h.stores.GetByUser(c.Request.Context(), in.UserID)
		},
	})

	httpez.RegisterAction[updateStoreReq, *domain.Store](ezAuth, nil, httpez.Action[updateStoreReq, *domain.Store]{
		Method: http.MethodPut,
		Path:   "/update/:userId",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *updateStoreReq) (*domain.Store, error) {
			return h.stores.Update(c.Request.Context(), mdw.CurrentActor(c), c.Param("userId"), service.UpdateStoreInput{
				Name:        in.Name,
				Description: in.Description,
				Logo:        in.Logo,
				Phone:       in.Phone,
			})
		},
	})

	httpez.RegisterAction[userIDURI, userIDOut](ezAuth, nil, httpez.Action[userIDURI, userIDOut]{
		Method: http.MethodDelete,
		Path:   "/delete/:userId",
		Binder: httpez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *userIDURI) (userIDOut, error) {
			if err := h.stores.Delete(c.Request.Context(), mdw.CurrentActor(c), in.UserID); err != nil {
				return userIDOut{}, err
			}
			return userIDOut{UserID: in.UserID}, nil
		},
	})

	if h.objects != nil {
		httpez.POSTFILES(ezAuth, "/logo", "files", h.uploadLogos)
	}
}

func (h *StoreHandler) uploadLogos(c *gin.Context, files []*multipart.FileHeader) (any, error) {
	uid := mdw.CurrentActor(c).UserID
	if uid == "" {
		return nil, httpez.Unauthorized("unauthorized")
	}
	if len(files) > maxLogoFiles {
		return nil, httpez.BadRequest(fmt.Sprintf("at most %d files", maxLogoFiles))
	}
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		ct := strings.ToLower(fh.Header.Get("Content-Type"))
		if _, ok := logoTypes[ct]; !ok {
			return nil, httpez.BadRequest("unsupported image type: " + fh.Filename)
		}
		if fh.Size > maxLogoBytes {
			return nil, httpez.BadRequest("file too large: " + fh.Filename)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, httpez.BadRequest("cannot read " + fh.Filename)
		}
		u, err := h.objects.Upload(c.Request.Context(), storage.LogoKey(uid, fh.Filename), ct, f)
		_ = f.Close()
		if err != nil {
			return nil, httpez.Internal("upload failed", err)
		}
		urls = append(urls, u)
	}
	return logoOut{URLs: urls}, nil
}
