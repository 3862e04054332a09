package cart

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"syriazone/internal/feature/product"
	httpez "syriazone/internal/transport/http/ez"
)

type Module struct{ db *gorm.DB }

func NewModule(db *gorm.DB) *Module { return &Module{db: db} }

func (*Module) Priority() int { return 30 }

func (m *Module) MountAPI(_, authed *gin.RouterGroup) {
	httpez.Crud(httpez.CrudConfig[CartItem]{
		DB:          m.db,
		Group:       authed.Group("/Cart"),
		Path:        "",
		New:         func() *CartItem { return &CartItem{} },
		AllowCreate: true,
		AllowList:   true,
		AllowGet:    true,
		AllowDelete: true,
		OrderBy:     "created_at DESC",
		Hooks: httpez.CrudHooks[CartItem]{
			BeforeCreate: func(c *gin.Context, it *CartItem) error {
				if it.Quantity <= 0 {
					it.Quantity = 1
				}
				ok, err := product.Exists(m.db.WithContext(c.Request.Context()), it.ProductID)
				if err != nil {
					return err
				}
				if !ok {
					return httpez.NotFound("product not found")
				}
				return nil
			},
			Create: Merge,
		},
	})
}

// Merge 同一用户同一商品只保留一行，重复加入累加数量（不超过 MaxQuantity）。
// 并发首插撞唯一索引时退回累加。
func Merge(_ *gin.Context, db *gorm.DB, it *CartItem) error {
	bump := func(tx *gorm.DB) (bool, error) {
		res := tx.Model(&CartItem{}).
			Where("user_id = ? AND product_id = ?", it.UserID, it.ProductID).
			UpdateColumn("quantity", gorm.Expr("LEAST(quantity + ?, ?)", it.Quantity, MaxQuantity))
		if res.Error != nil {
			return false, res.Error
		}
		if res.RowsAffected == 0 {
			return false, nil
		}
		return true, tx.Where("user_id = ? AND product_id = ?", it.UserID, it.ProductID).First(it).Error
	}

	merged, err := bump(db)
	if err != nil || merged {
		return err
	}
	err = db.Create(it).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		_, err = bump(db)
	}
	return err
}
