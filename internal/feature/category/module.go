package category

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	httpez "syriazone/internal/transport/http/ez"
	"syriazone/pkg/utils"
)

// Module 分类：用户端只读，管理端增删
type Module struct{ db *gorm.DB }

func NewModule(db *gorm.DB) *Module { return &Module{db: db} }

func (*Module) Priority() int { return 10 }

func (m *Module) MountAPI(public, _ *gin.RouterGroup) {
	httpez.RegisterAction[struct{}, []Category](httpez.New(public), m.db, httpez.Action[struct{}, []Category]{
		Method: http.MethodGet,
		Path:   "/Category",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, db *gorm.DB, _ *struct{}) ([]Category, error) {
			out := make([]Category, 0)
			if err := db.Order("name ASC").Find(&out).Error; err != nil {
				return nil, err
			}
			return out, nil
		},
	})
}

type idURI struct {
	ID string `uri:"id" binding:"required"`
}

type deletedOut struct {
	ID string `json:"id"`
}

func (m *Module) MountAdmin(admin *gin.RouterGroup) {
	e := httpez.New(admin)

	httpez.RegisterAction[Category, *Category](e, m.db, httpez.Action[Category, *Category]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, db *gorm.DB, in *Category) (*Category, error) {
			in.ID = utils.NewID()
			in.Name = strings.TrimSpace(in.Name)
			if in.Name == "" {
				return nil, httpez.BadRequest("name is required")
			}
			if err := db.Create(in).Error; err != nil {
				return nil, err
			}
			return in, nil
		},
	})

	httpez.RegisterAction[idURI, deletedOut](e, m.db, httpez.Action[idURI, deletedOut]{
		Method: http.MethodDelete,
		Path:   "/categories/:id",
		Binder: httpez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, db *gorm.DB, in *idURI) (deletedOut, error) {
			res := db.Where("id = ?", in.ID).Delete(&Category{})
			if res.Error != nil {
				return deletedOut{}, res.Error
			}
			if res.RowsAffected == 0 {
				return deletedOut{}, httpez.NotFound("category not found")
			}
			return deletedOut{ID: in.ID}, nil
		},
	})
}
