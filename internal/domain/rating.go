package domain

import (
	"context"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type ProductRating struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" json:"userId"`
	ProductID string    `gorm:"index;size:36;not null" json:"productId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"size:1000" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (ProductRating) TableName() string { return "product_ratings" }

type RatingRepository interface {
	Create(ctx context.Context, r *ProductRating) error
	ListByProduct(ctx context.Context, productID string) ([]ProductRating, error)
	// Average 没有评分时返回 0
	Average(ctx context.Context, productID string) (float64, error)
	// ProductExists 评分必须指向已存在的商品
	ProductExists(ctx context.Context, productID string) (bool, error)
}
