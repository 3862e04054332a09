package favorite

import "time"

type Favorite struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"uniqueIndex:uniq_fav_user_product;size:36;not null" json:"userId"`
	ProductID string    `gorm:"uniqueIndex:uniq_fav_user_product;size:36;not null" json:"productId" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Favorite) TableName() string { return "favorites" }
