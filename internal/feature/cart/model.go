package cart

import "time"

// MaxQuantity 单个商品在购物车里的数量上限，合并时同样截断
const MaxQuantity = 999

type CartItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"uniqueIndex:uniq_cart_user_product;size:36;not null" json:"userId"`
	ProductID string    `gorm:"uniqueIndex:uniq_cart_user_product;size:36;not null" json:"productId" binding:"required"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity" binding:"gte=0,lte=999"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (CartItem) TableName() string { return "cart_items" }
