package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"syriazone/internal/domain"
)

type StoreRepo struct{ db *gorm.DB }

func NewStoreRepo(db *gorm.DB) *StoreRepo { return &StoreRepo{db: db} }

var _ domain.StoreRepository = (*StoreRepo)(nil)

// lockOwner 锁住店主行，串行化同一用户的建店/删店
func lockOwner(tx *gorm.DB, userID string) (*domain.User, error) {
	var u domain.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "has_store").
		First(&u, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.Validation("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateForUser 检查标记、插入店铺、置位标记在同一事务内完成
func (r *StoreRepo) CreateForUser(ctx context.Context, s *domain.Store) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := lockOwner(tx, s.UserID)
		if err != nil {
			return err
		}
		if u.HasStore {
			return domain.Conflict("user already has a store")
		}
		if err := tx.Create(s).Error; err != nil {
			// stores.user_id 唯一索引兜底
			if isDupKey(err) {
				return &domain.Error{Kind: domain.KindConflict, Msg: "user already has a store", Err: err}
			}
			return err
		}
		return tx.Model(&domain.User{}).Where("id = ?", s.UserID).Update("has_store", true).Error
	})
}

func (r *StoreRepo) FindByUserID(ctx context.Context, userID string) (*domain.Store, error) {
	var s domain.Store
	err := r.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update 按 user_id 定位，只改可编辑字段
func (r *StoreRepo) Update(ctx context.Context, s *domain.Store) error {
	return r.db.WithContext(ctx).Model(&domain.Store{}).Where("user_id = ?", s.UserID).
		Select("name", "description", "logo", "phone", "last_updated_at").
		Updates(s).Error
}

func (r *StoreRepo) DeleteForUser(ctx context.Context, userID string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockOwner(tx, userID); err != nil {
			// 用户已不在也要允许清理遗留店铺
			if domain.KindOf(err) != domain.KindValidation {
				return err
			}
		}
		res := tx.Where("user_id = ?", userID).Delete(&domain.Store{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return tx.Model(&domain.User{}).Where("id = ?", userID).Update("has_store", false).Error
	})
	return deleted, err
}

func (r *StoreRepo) List(ctx context.Context, offset, limit int) ([]domain.Store, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Store{}).Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	stores := make([]domain.Store, 0, limit)
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&stores).Error; err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}
