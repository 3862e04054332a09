package product

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"syriazone/internal/domain"
	httpez "syriazone/internal/transport/http/ez"
	mdw "syriazone/internal/transport/http/middleware"
)

// Module 商品：公开目录 + 商家自己的商品 CRUD（按 vendor_id 隔离）
type Module struct{ db *gorm.DB }

func NewModule(db *gorm.DB) *Module { return &Module{db: db} }

func (*Module) Priority() int { return 20 }

type publicQ struct {
	Offset     int    `form:"offset,default=0" binding:"min=0"`
	Limit      int    `form:"limit,default=20"`
	CategoryID string `form:"categoryId"`
	StoreID    string `form:"storeId"`
	Q          string `form:"q"`
}

type catalogOut struct {
	Total int64     `json:"total"`
	Items []Product `json:"items"`
}

type idURI struct {
	ID string `uri:"id" binding:"required"`
}

func (m *Module) MountAPI(public, authed *gin.RouterGroup) {
	pub := httpez.New(public.Group("/Products"))

	httpez.RegisterAction[publicQ, catalogOut](pub, m.db, httpez.Action[publicQ, catalogOut]{
		Method: http.MethodGet,
		Path:   "/public",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, db *gorm.DB, in *publicQ) (catalogOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := db.Model(&Product{})
			if in.CategoryID != "" {
				q = q.Where("category_id = ?", in.CategoryID)
			}
			if in.StoreID != "" {
				q = q.Where("store_id = ?", in.StoreID)
			}
			if s := strings.TrimSpace(in.Q); s != "" {
				q = q.Where("name LIKE ?", "%"+s+"%")
			}
			q = q.Session(&gorm.Session{})

			var out catalogOut
			if err := q.Count(&out.Total).Error; err != nil {
				return catalogOut{}, err
			}
			out.Items = make([]Product, 0, in.Limit)
			if err := q.Order("created_at DESC").Limit(in.Limit).Offset(in.Offset).Find(&out.Items).Error; err != nil {
				return catalogOut{}, err
			}
			return out, nil
		},
	})

	httpez.RegisterAction[idURI, *Product](pub, m.db, httpez.Action[idURI, *Product]{
		Method: http.MethodGet,
		Path:   "/public/:id",
		Binder: httpez.BindURI,
		Handler: func(c *gin.Context, db *gorm.DB, in *idURI) (*Product, error) {
			var p Product
			if err := db.Where("id = ?", in.ID).First(&p).Error; err != nil {
				return nil, err
			}
			return &p, nil
		},
	})

	// 商家自己的商品
	vendor := authed.Group("/Products", mdw.RequireRole(domain.RoleVendor, domain.RoleSuperAdmin))
	httpez.Crud(httpez.CrudConfig[Product]{
		DB:         m.db,
		Group:      vendor,
		Path:       "",
		New:        func() *Product { return &Product{} },
		OwnerField: "VendorID",
		OrderBy:    "created_at DESC",
		// store_id 不在列表里：商品不能换店
		UpdateColumns: []string{"name", "description", "price", "stock", "image_urls", "category_id"},
		Hooks: httpez.CrudHooks[Product]{
			BeforeCreate: m.beforeCreate,
			BeforeUpdate: func(c *gin.Context, p *Product) error {
				return m.checkCategory(c, p.CategoryID)
			},
		},
	})
}

// 必须先开店；店铺与分类都以库里为准
func (m *Module) beforeCreate(c *gin.Context, p *Product) error {
	db := m.db.WithContext(c.Request.Context())

	var st domain.Store
	err := db.Select("id").Where("user_id = ?", p.VendorID).Take(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httpez.BadRequest("create a store first")
	}
	if err != nil {
		return err
	}
	p.StoreID = st.ID
	return m.checkCategory(c, p.CategoryID)
}

// 分类可空；非空必须存在
func (m *Module) checkCategory(c *gin.Context, id string) error {
	if id == "" {
		return nil
	}
	var n int64
	if err := m.db.WithContext(c.Request.Context()).Table("categories").Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return httpez.BadRequest("category not found")
	}
	return nil
}

// Exists 其他模块（购物车/收藏/评分）校验商品 id
func Exists(db *gorm.DB, id string) (bool, error) {
	var n int64
	if err := db.Model(&Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
