package favorite

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"syriazone/internal/feature/product"
	httpez "syriazone/internal/transport/http/ez"
)

type Module struct{ db *gorm.DB }

func NewModule(db *gorm.DB) *Module { return &Module{db: db} }

func (*Module) Priority() int { return 40 }

// 重复收藏撞唯一索引 → 400 already exists
func (m *Module) MountAPI(_, authed *gin.RouterGroup) {
	httpez.Crud(httpez.CrudConfig[Favorite]{
		DB:          m.db,
		Group:       authed.Group("/Favorite"),
		Path:        "",
		New:         func() *Favorite { return &Favorite{} },
		AllowCreate: true,
		AllowList:   true,
		AllowDelete: true,
		OrderBy:     "created_at DESC",
		Hooks: httpez.CrudHooks[Favorite]{
			BeforeCreate: func(c *gin.Context, f *Favorite) error {
				ok, err := product.Exists(m.db.WithContext(c.Request.Context()), f.ProductID)
				if err != nil {
					return err
				}
				if !ok {
					return httpez.NotFound("product not found")
				}
				return nil
			},
		},
	})
}
