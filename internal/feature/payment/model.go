package payment

import "time"

type Status string

const (
	StatusPending Status = "Pending"
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

type Payment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" json:"userId"`
	OrderID   string    `gorm:"index;size:36;not null" json:"orderId" binding:"required"`
	Amount    float64   `gorm:"not null" json:"amount" binding:"gt=0"`
	Status    Status    `gorm:"size:16;not null;default:Pending" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }
