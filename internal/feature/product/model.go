package product

import "time"

type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	VendorID    string    `gorm:"index;size:36;not null" json:"vendorId"`
	StoreID     string    `gorm:"index;size:36;not null" json:"storeId"`
	CategoryID  string    `gorm:"index;size:36" json:"categoryId"`
	Name        string    `gorm:"size:200;not null" json:"name" binding:"required,max=200"`
	Description string    `gorm:"size:2000" json:"description" binding:"max=2000"`
	Price       float64   `gorm:"not null;default:0" json:"price" binding:"gte=0"`
	Stock       int       `gorm:"not null;default:0" json:"stock" binding:"gte=0"`
	ImageURLs   []string  `gorm:"serializer:json;type:text" json:"imageUrls" binding:"max=10"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Product) TableName() string { return "products" }
