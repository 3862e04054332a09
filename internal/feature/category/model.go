package category

import "time"

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name" binding:"required,max=100"`
	Description string    `gorm:"size:500" json:"description" binding:"max=500"`
	ImageURL    string    `gorm:"size:512" json:"imageUrl" binding:"max=512"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Category) TableName() string { return "categories" }
