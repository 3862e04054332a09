package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"syriazone/internal/domain"
)

type RefreshTokenRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRefreshTokenRepo(db *gorm.DB) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db, now: time.Now}
}

var _ domain.RefreshTokenRepository = (*RefreshTokenRepo)(nil)

func (r *RefreshTokenRepo) Create(ctx context.Context, t *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *RefreshTokenRepo) FindByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := r.db.WithContext(ctx).First(&t, "token_hash = ?", hash).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RefreshTokenRepo) revoke(tx *gorm.DB, hash string) *gorm.DB {
	return tx.Model(&domain.RefreshToken{}).
		Where("token_hash = ? AND revoked = ?", hash, false).
		Updates(map[string]any{"revoked": true, "revoked_at": r.now()})
}

// Rotate 条件更新作为 CAS：并发刷新同一 token 只有一个成功
func (r *RefreshTokenRepo) Rotate(ctx context.Context, oldHash string, next *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := r.revoke(tx, oldHash)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.Unauthorized("invalid refresh token")
		}
		return tx.Create(next).Error
	})
}

// Revoke 幂等
func (r *RefreshTokenRepo) Revoke(ctx context.Context, hash string) error {
	return r.revoke(r.db.WithContext(ctx), hash).Error
}

func (r *RefreshTokenRepo) RevokeAllForUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&domain.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Updates(map[string]any{"revoked": true, "revoked_at": r.now()}).Error
}
