package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"syriazone/internal/core/cache"
	"syriazone/internal/domain"
)

// Profile 对外的用户视图（不含密码哈希）
type Profile struct {
	ID          string      `json:"id"`
	FullName    string      `json:"fullName"`
	Email       string      `json:"email"`
	PhoneNumber string      `json:"phoneNumber"`
	HasAStore   bool        `json:"hasAStore"`
	Role        domain.Role `json:"role"`
	CreatedAt   time.Time   `json:"createdAt"`
}

func ProfileOf(u *domain.User) Profile {
	return Profile{
		ID:          u.ID,
		FullName:    u.FullName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		HasAStore:   u.HasStore,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

// ProfileCache redis 读穿缓存；C 为 nil 时直接回源
type ProfileCache struct {
	C   *cache.Cache
	TTL time.Duration
	L   *zap.Logger
}

func profileKey(id string) string { return "profile:" + id }

func (p *ProfileCache) get(ctx context.Context, id string, load func(context.Context) (*Profile, error)) (*Profile, error) {
	if p == nil || p.C == nil {
		return load(ctx)
	}
	return cache.GetOrLoadJSON(p.C, ctx, profileKey(id), p.TTL, load)
}

func (p *ProfileCache) invalidate(ctx context.Context, id string) {
	if p == nil || p.C == nil {
		return
	}
	if err := p.C.Invalidate(ctx, profileKey(id)); err != nil && p.L != nil {
		p.L.Warn("profile cache invalidate failed", zap.String("uid", id), zap.Error(err))
	}
}
