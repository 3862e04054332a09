package order

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	httpez "syriazone/internal/transport/http/ez"
)

type Module struct{ db *gorm.DB }

func NewModule(db *gorm.DB) *Module { return &Module{db: db} }

func (*Module) Priority() int { return 50 }

func (m *Module) MountAPI(_, authed *gin.RouterGroup) {
	httpez.Crud(httpez.CrudConfig[Order]{
		DB:          m.db,
		Group:       authed.Group("/Order"),
		Path:        "",
		New:         func() *Order { return &Order{} },
		AllowCreate: true,
		AllowList:   true,
		AllowGet:    true,
		OrderBy:     "created_at DESC",
		Hooks: httpez.CrudHooks[Order]{
			Create: Checkout,
		},
	})
}

type listQ struct {
	Offset int    `form:"offset,default=0" binding:"min=0"`
	Limit  int    `form:"limit,default=20"`
	Status string `form:"status"`
	UserID string `form:"userId"`
}

type listOut struct {
	Total int64   `json:"total"`
	Items []Order `json:"items"`
}

type statusIn struct {
	Status Status `json:"status" binding:"required"`
}

func (m *Module) MountAdmin(admin *gin.RouterGroup) {
	e := httpez.New(admin)

	httpez.RegisterAction[listQ, listOut](e, m.db, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: httpez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, db *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			q := db.Model(&Order{})
			if in.Status != "" {
				q = q.Where("status = ?", in.Status)
			}
			if in.UserID != "" {
				q = q.Where("user_id = ?", in.UserID)
			}
			q = q.Session(&gorm.Session{})

			var out listOut
			if err := q.Count(&out.Total).Error; err != nil {
				return listOut{}, err
			}
			out.Items = make([]Order, 0, in.Limit)
			if err := q.Order("created_at DESC").Limit(in.Limit).Offset(in.Offset).Find(&out.Items).Error; err != nil {
				return listOut{}, err
			}
			return out, nil
		},
	})

	// 状态从 JSON body 取
	httpez.RegisterAction[statusIn, *Order](e, m.db, httpez.Action[statusIn, *Order]{
		Method: http.MethodPut,
		Path:   "/orders/:id/status",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, db *gorm.DB, in *statusIn) (*Order, error) {
			if !in.Status.Valid() {
				return nil, httpez.BadRequest("invalid status")
			}
			id := c.Param("id")
			res := db.Model(&Order{}).Where("id = ?", id).Update("status", in.Status)
			if res.Error != nil {
				return nil, res.Error
			}
			if res.RowsAffected == 0 {
				return nil, httpez.NotFound("order not found")
			}
			var o Order
			if err := db.Where("id = ?", id).First(&o).Error; err != nil {
				return nil, err
			}
			return &o, nil
		},
	})
}
