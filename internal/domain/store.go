package domain

import (
	"context"
	"time"
)

type Store struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"uniqueIndex;size:36;not null" json:"userId"`
	Name          string    `gorm:"size:100;not null" json:"name"`
	Description   string    `gorm:"size:500" json:"description"`
	Logo          string    `gorm:"size:512" json:"logo"`
	Phone         string    `gorm:"size:32" json:"phone"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	LastUpdatedAt time.Time `gorm:"autoUpdateTime" json:"lastUpdatedAt"`
}

func (Store) TableName() string { return "stores" }

type StoreRepository interface {
	// CreateForUser 在同一事务内：锁用户行、校验 has_store、插入店铺、置位 has_store。
	// 用户不存在返回 Validation（user not found），已有店铺返回 Conflict。
	CreateForUser(ctx context.Context, s *Store) error
	FindByUserID(ctx context.Context, userID string) (*Store, error)
	Update(ctx context.Context, s *Store) error
	// DeleteForUser 删除店铺并复位 has_store；没有店铺返回 (false, nil)
	DeleteForUser(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]Store, int64, error)
}
