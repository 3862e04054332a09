package repo

import (
	"context"

	"gorm.io/gorm"

	"syriazone/internal/domain"
)

type RatingRepo struct{ db *gorm.DB }

func NewRatingRepo(db *gorm.DB) *RatingRepo { return &RatingRepo{db: db} }

var _ domain.RatingRepository = (*RatingRepo)(nil)

func (r *RatingRepo) Create(ctx context.Context, pr *domain.ProductRating) error {
	return r.db.WithContext(ctx).Create(pr).Error
}

func (r *RatingRepo) ListByProduct(ctx context.Context, productID string) ([]domain.ProductRating, error) {
	out := []domain.ProductRating{}
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at desc").Find(&out).Error
	return out, err
}

func (r *RatingRepo) ProductExists(ctx context.Context, productID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("products").Where("id = ?", productID).Count(&n).Error
	return n > 0, err
}

// Average 没有评分时为 0
func (r *RatingRepo) Average(ctx context.Context, productID string) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Model(&domain.ProductRating{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	return avg, err
}
