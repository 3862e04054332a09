// Package memrepo 内存版仓储，供 service / http 测试使用，语义与 gorm 实现一致
package memrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"syriazone/internal/domain"
)

type Users struct {
	mu    sync.Mutex
	byID  map[string]*domain.User
	email map[string]string
}

func NewUsers() *Users {
	return &Users{byID: map[string]*domain.User{}, email: map[string]string{}}
}

var _ domain.UserRepository = (*Users)(nil)

func (r *Users) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.email[u.Email]; ok {
		return domain.Conflict("email already registered")
	}
	cp := *u
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	r.byID[u.ID] = &cp
	r.email[u.Email] = u.ID
	return nil
}

func (r *Users) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *Users) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	id, ok := r.email[email]
	r.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

func (r *Users) List(_ context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		if q != "" && !strings.Contains(u.Email, q) && !strings.Contains(u.FullName, q) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.User{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (r *Users) UpdateProfile(_ context.Context, id, fullName, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.FullName, u.PhoneNumber = fullName, phone
	}
	return nil
}

func (r *Users) UpdatePasswordHash(_ context.Context, id, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (r *Users) SoftDelete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	delete(r.byID, id)
	delete(r.email, u.Email)
	return true, nil
}

// Put 直接写入（测试预置数据，如旧摘要密码）
func (r *Users) Put(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = &u
	r.email[u.Email] = u.ID
}

type Tokens struct {
	mu     sync.Mutex
	byHash map[string]*domain.RefreshToken
	Now    func() time.Time
}

func NewTokens() *Tokens {
	return &Tokens{byHash: map[string]*domain.RefreshToken{}, Now: time.Now}
}

var _ domain.RefreshTokenRepository = (*Tokens)(nil)

func (r *Tokens) Create(_ context.Context, t *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byHash[t.TokenHash]; ok {
		return domain.Conflict("duplicate token")
	}
	cp := *t
	r.byHash[t.TokenHash] = &cp
	return nil
}

func (r *Tokens) FindByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byHash[hash]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *Tokens) revokeLocked(hash string) bool {
	t, ok := r.byHash[hash]
	if !ok || t.Revoked {
		return false
	}
	now := r.Now()
	t.Revoked, t.RevokedAt = true, &now
	return true
}

func (r *Tokens) Rotate(_ context.Context, oldHash string, next *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.revokeLocked(oldHash) {
		return domain.Unauthorized("invalid refresh token")
	}
	cp := *next
	r.byHash[next.TokenHash] = &cp
	return nil
}

func (r *Tokens) Revoke(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revokeLocked(hash)
	return nil
}

func (r *Tokens) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h, t := range r.byHash {
		if t.UserID == userID {
			r.revokeLocked(h)
		}
	}
	return nil
}

// Expire 把 token 的过期时间改到 at
func (r *Tokens) Expire(hash string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byHash[hash]; ok {
		t.ExpiresAt = at
	}
}

// Stores 建店与标记翻转共享 Users 的锁，对应数据库事务里的行锁
type Stores struct {
	users  *Users
	byUser map[string]*domain.Store
}

func NewStores(users *Users) *Stores {
	return &Stores{users: users, byUser: map[string]*domain.Store{}}
}

var _ domain.StoreRepository = (*Stores)(nil)

func (r *Stores) CreateForUser(_ context.Context, s *domain.Store) error {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	u, ok := r.users.byID[s.UserID]
	if !ok {
		return domain.Validation("user not found")
	}
	if u.HasStore {
		return domain.Conflict("user already has a store")
	}
	if _, dup := r.byUser[s.UserID]; dup {
		return domain.Conflict("user already has a store")
	}
	now := time.Now()
	s.CreatedAt, s.LastUpdatedAt = now, now
	cp := *s
	r.byUser[s.UserID] = &cp
	u.HasStore = true
	return nil
}

func (r *Stores) FindByUserID(_ context.Context, userID string) (*domain.Store, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	s, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *Stores) Update(_ context.Context, s *domain.Store) error {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	cur, ok := r.byUser[s.UserID]
	if !ok {
		return nil
	}
	cur.Name, cur.Description, cur.Logo, cur.Phone = s.Name, s.Description, s.Logo, s.Phone
	cur.LastUpdatedAt = time.Now()
	return nil
}

func (r *Stores) DeleteForUser(_ context.Context, userID string) (bool, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	_, ok := r.byUser[userID]
	delete(r.byUser, userID)
	if u, found := r.users.byID[userID]; found {
		u.HasStore = false
	}
	return ok, nil
}

func (r *Stores) List(_ context.Context, offset, limit int) ([]domain.Store, int64, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	all := make([]domain.Store, 0, len(r.byUser))
	for _, s := range r.byUser {
		all = append(all, *s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.Store{}, total, nil
	}
	return all[offset:min(offset+limit, len(all))], total, nil
}

// Count 店铺总数
func (r *Stores) Count() int {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	return len(r.byUser)
}

type Ratings struct {
	mu       sync.Mutex
	rows     []domain.ProductRating
	products map[string]struct{}
}

func NewRatings() *Ratings { return &Ratings{products: map[string]struct{}{}} }

// AddProduct 预置可评分的商品 id
func (r *Ratings) AddProduct(ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.products[id] = struct{}{}
	}
}

func (r *Ratings) ProductExists(_ context.Context, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.products[productID]
	return ok, nil
}

var _ domain.RatingRepository = (*Ratings)(nil)

func (r *Ratings) Create(_ context.Context, pr *domain.ProductRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr.CreatedAt = time.Now()
	r.rows = append(r.rows, *pr)
	return nil
}

func (r *Ratings) ListByProduct(_ context.Context, productID string) ([]domain.ProductRating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.ProductRating{}
	for _, x := range r.rows {
		if x.ProductID == productID {
			out = append(out, x)
		}
	}
	return out, nil
}

func (r *Ratings) Average(_ context.Context, productID string) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum, n int
	for _, x := range r.rows {
		if x.ProductID == productID {
			sum += x.Rating
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}
