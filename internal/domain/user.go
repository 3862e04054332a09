package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	FullName     string         `gorm:"size:128" json:"fullName"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string         `gorm:"size:191;not null" json:"-"`
	PhoneNumber  string         `gorm:"size:32" json:"phoneNumber"`
	Role         Role           `gorm:"size:16;not null;default:Customer" json:"role"`
	HasStore     bool           `gorm:"not null;default:false" json:"hasAStore"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// Actor 当前请求的身份（来自已校验的 access token）
type Actor struct {
	UserID   string
	Role     Role
	HasStore bool
}

func (a Actor) IsAdmin() bool { return a.Role == RoleSuperAdmin }

// CanActFor 本人或超管
func (a Actor) CanActFor(userID string) bool {
	return a.UserID != "" && (a.UserID == userID || a.IsAdmin())
}

// UserRepository 凭证存储；查不到返回 (nil, nil)
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, offset, limit int, q string) ([]User, int64, error)
	UpdateProfile(ctx context.Context, id, fullName, phone string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	SoftDelete(ctx context.Context, id string) (bool, error)
}
