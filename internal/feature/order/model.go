package order

import "time"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	UserID    string      `gorm:"index;size:36;not null" json:"userId"`
	Total     float64     `gorm:"not null;default:0" json:"total"`
	Status    Status      `gorm:"size:16;not null;default:Pending" json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"createdAt"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 下单时的商品快照
type OrderItem struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	OrderID   string  `gorm:"index;size:36;not null" json:"orderId"`
	ProductID string  `gorm:"size:36;not null" json:"productId"`
	Name      string  `gorm:"size:200" json:"name"`
	UnitPrice float64 `gorm:"not null" json:"unitPrice"`
	Quantity  int     `gorm:"not null" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_items" }
