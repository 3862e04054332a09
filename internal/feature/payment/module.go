package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"syriazone/internal/feature/order"
	httpez "syriazone/internal/transport/http/ez"
)

type Module struct{ db *gorm.DB }

func NewModule(db *gorm.DB) *Module { return &Module{db: db} }

func (*Module) Priority() int { return 60 }

func (m *Module) MountAPI(_, authed *gin.RouterGroup) {
	httpez.Crud(httpez.CrudConfig[Payment]{
		DB:          m.db,
		Group:       authed.Group("/Payment"),
		Path:        "",
		New:         func() *Payment { return &Payment{} },
		AllowCreate: true,
		AllowList:   true,
		AllowGet:    true,
		OrderBy:     "created_at DESC",
		Hooks: httpez.CrudHooks[Payment]{
			BeforeCreate: m.beforeCreate,
		},
	})
}

// 只能给自己的订单付款；状态一律从 Pending 开始
func (m *Module) beforeCreate(c *gin.Context, p *Payment) error {
	p.Status = StatusPending
	var n int64
	err := m.db.WithContext(c.Request.Context()).Model(&order.Order{}).
		Where("id = ? AND user_id = ?", p.OrderID, p.UserID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return httpez.NotFound("order not found")
	}
	return nil
}

type idURI struct {
	ID string `uri:"id" binding:"required"`
}

type ConfirmOut struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

func (m *Module) MountAdmin(admin *gin.RouterGroup) {
	httpez.RegisterAction[idURI, *ConfirmOut](httpez.New(admin), m.db, httpez.Action[idURI, *ConfirmOut]{
		Method: http.MethodPost,
		Path:   "/payments/:id/confirm",
		Binder: httpez.BindURI,
		Auth:   true,
		Handler: func(c *gin.Context, db *gorm.DB, in *idURI) (*ConfirmOut, error) {
			return Confirm(db, in.ID)
		},
	})
}

// Confirm Pending → Success；条件更新，重复确认不会覆盖其他状态
func Confirm(db *gorm.DB, id string) (*ConfirmOut, error) {
	res := db.Model(&Payment{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", StatusSuccess)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := db.Model(&Payment{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, httpez.NotFound("payment not found")
		}
		return nil, httpez.BadRequest("payment is not pending")
	}
	return &ConfirmOut{ID: id, Status: StatusSuccess}, nil
}
