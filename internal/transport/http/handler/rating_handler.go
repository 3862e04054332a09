package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"syriazone/internal/domain"
	"syriazone/internal/service"
	httpez "syriazone/internal/transport/http/ez"
	mdw "syriazone/internal/transport/http/middleware"
)

type RatingHandler struct{ ratings *service.RatingService }

func NewRatingHandler(r *service.RatingService) *RatingHandler { return &RatingHandler{ratings: r} }

type addRatingReq struct {
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"   binding:"max=1000"`
}

type averageOut struct {
	ProductID string  `json:"productId"`
	Average   float64 `json:"average"`
}

type productURI struct {
	ProductID string `uri:"productId" binding:"required"`
}

func (h *RatingHandler) Mount(public, authed *gin.RouterGroup) {
	ezPub := httpez.New(public.Group("/Rating"))
	ezAuth := httpez.New(authed.Group("/Rating"))

	// rating 范围由 service 校验，返回统一的 Validation 文案
	httpez.RegisterAction[addRatingReq, *domain.ProductRating](ezAuth, nil, httpez.Action[addRatingReq, *domain.ProductRating]{
		Method: http.MethodPost,
		Path:   "/add",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *addRatingReq) (*domain.ProductRating, error) {
			return h.ratings.Add(c.Request.Context(), mdw.CurrentActor(c), service.AddRatingInput{
				ProductID: in.ProductID,
				Rating:    in.Rating,
				Comment:   in.Comment,
			})
		},
	})

	httpez.RegisterAction[productURI, []domain.ProductRating](ezPub, nil, httpez.Action[productURI, []domain.ProductRating]{
		Method: http.MethodGet,
		Path:   "/product/:productId",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, _ *gorm.DB, in *productURI) ([]domain.ProductRating, error) {
			return h.ratings.ListByProduct(c.Request.Context(), in.ProductID)
		},
	})

	httpez.RegisterAction[productURI, averageOut](ezPub, nil, httpez.Action[productURI, averageOut]{
		Method: http.MethodGet,
		Path:   "/avg/:productId",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, _ *gorm.DB, in *productURI) (averageOut, error) {
			avg, err := h.ratings.Average(c.Request.Context(), in.ProductID)
			if err != nil {
				return averageOut{}, err
			}
			return averageOut{ProductID: in.ProductID, Average: avg}, nil
		},
	})
}
