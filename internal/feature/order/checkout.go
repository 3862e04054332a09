package order

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"syriazone/internal/feature/cart"
	"syriazone/internal/feature/product"
	httpez "syriazone/internal/transport/http/ez"
	"syriazone/pkg/utils"
)

type cartLine struct {
	ProductID string
	Name      string
	Price     float64
	Quantity  int
}

// Checkout 把购物车转成订单：按当前价格算总价、写明细、清空购物车，同一事务。
// 购物车行 FOR UPDATE：并发下单时后到的一方等前一单提交，再读到空购物车
func Checkout(_ *gin.Context, db *gorm.DB, o *Order) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var lines []cartLine
		err := tx.Table(cart.CartItem{}.TableName()+" AS ci").
			Select("ci.product_id, p.name, p.price, ci.quantity").
			Joins("JOIN "+product.Product{}.TableName()+" AS p ON p.id = ci.product_id").
			Where("ci.user_id = ?", o.UserID).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Scan(&lines).Error
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return httpez.BadRequest("cart is empty")
		}

		o.Status = StatusPending
		o.Total = 0
		o.Items = make([]OrderItem, 0, len(lines))
		for _, l := range lines {
			o.Total += l.Price * float64(l.Quantity)
			o.Items = append(o.Items, OrderItem{
				ID:        utils.NewID(),
				OrderID:   o.ID,
				ProductID: l.ProductID,
				Name:      l.Name,
				UnitPrice: l.Price,
				Quantity:  l.Quantity,
			})
		}
		if err := tx.Create(o).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", o.UserID).Delete(&cart.CartItem{}).Error
	})
}
