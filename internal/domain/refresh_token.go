package domain

import (
	"context"
	"time"
)

// RefreshToken 只存 token 的 SHA-256，明文只在签发时返回一次
type RefreshToken struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"index;size:36;not null"`
	TokenHash string    `gorm:"uniqueIndex;size:64;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	Revoked   bool      `gorm:"not null;default:false"`
	RevokedAt *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// Usable 存在、未吊销、未过期
func (t *RefreshToken) Usable(now time.Time) bool {
	return t != nil && !t.Revoked && t.ExpiresAt.After(now)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, t *RefreshToken) error
	FindByHash(ctx context.Context, hash string) (*RefreshToken, error)
	// Rotate 吊销 oldHash 并写入 next；oldHash 已被吊销时返回 Unauthorized
	Rotate(ctx context.Context, oldHash string, next *RefreshToken) error
	Revoke(ctx context.Context, hash string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}
