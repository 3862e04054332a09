package feature

import (
	"gorm.io/gorm"

	"syriazone/internal/feature/cart"
	"syriazone/internal/feature/category"
	"syriazone/internal/feature/favorite"
	"syriazone/internal/feature/order"
	"syriazone/internal/feature/payment"
	"syriazone/internal/feature/product"
)

// Models 目录/交易相关表，交给 database.Migrate
func Models() []any {
	return []any{
		&category.Category{},
		&product.Product{},
		&cart.CartItem{},
		&favorite.Favorite{},
		&order.Order{},
		&order.OrderItem{},
		&payment.Payment{},
	}
}

// Modules 交给 router.Register；各模块自己决定挂用户端还是管理端
func Modules(db *gorm.DB) []any {
	return []any{
		category.NewModule(db),
		product.NewModule(db),
		cart.NewModule(db),
		favorite.NewModule(db),
		order.NewModule(db),
		payment.NewModule(db),
	}
}
