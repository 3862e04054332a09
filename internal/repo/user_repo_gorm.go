package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"syriazone/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if isDupKey(err) {
		return &domain.Error{Kind: domain.KindConflict, Msg: "email already registered", Err: err}
	}
	return err
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List q 按 email/姓名模糊搜
func (r *UserRepo) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if s := strings.TrimSpace(q); s != "" {
		like := "%" + s + "%"
		tx = tx.Where("email LIKE ? OR full_name LIKE ?", like, like)
	}
	tx = tx.Session(&gorm.Session{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, 0, limit)
	if err := tx.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id, fullName, phone string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Updates(map[string]any{"full_name": fullName, "phone_number": phone}).Error
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Update("password_hash", hash).Error
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	return res.RowsAffected > 0, res.Error
}
