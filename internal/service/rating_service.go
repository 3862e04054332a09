package service

import (
	"context"
	"strings"

	"syriazone/internal/domain"
	"syriazone/pkg/utils"
)

type AddRatingInput struct {
	ProductID string
	Rating    int
	Comment   string
}

type RatingService struct{ ratings domain.RatingRepository }

func NewRatingService(ratings domain.RatingRepository) *RatingService {
	return &RatingService{ratings: ratings}
}

func (s *RatingService) Add(ctx context.Context, actor domain.Actor, in AddRatingInput) (*domain.ProductRating, error) {
	if actor.UserID == "" {
		return nil, domain.Unauthorized("unauthorized")
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.Validation("productId is required")
	}
	if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
		return nil, domain.Validation("rating must be between 1 and 5")
	}
	ok, err := s.ratings.ProductExists(ctx, strings.TrimSpace(in.ProductID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NotFound("product not found")
	}
	r := &domain.ProductRating{
		ID:        utils.NewID(),
		UserID:    actor.UserID,
		ProductID: strings.TrimSpace(in.ProductID),
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.ratings.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *RatingService) ListByProduct(ctx context.Context, productID string) ([]domain.ProductRating, error) {
	return s.ratings.ListByProduct(ctx, productID)
}

func (s *RatingService) Average(ctx context.Context, productID string) (float64, error) {
	return s.ratings.Average(ctx, productID)
}
