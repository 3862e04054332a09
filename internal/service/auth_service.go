package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"syriazone/internal/core/auth"
	"syriazone/internal/core/events"
	"syriazone/internal/domain"
	"syriazone/pkg/utils"
)

const msgBadCredentials = "invalid email or password"

var (
	errBadCredentials = domain.Unauthorized(msgBadCredentials)
	errBadRefresh     = domain.Unauthorized("invalid refresh token")
)

type RegisterInput struct {
	FullName    string
	Email       string
	Password    string
	PhoneNumber string
	Role        domain.Role
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresAt    time.Time   `json:"expiresAt"`
	UserID       string      `json:"userId"`
	Role         domain.Role `json:"role"`
	HasAStore    bool        `json:"hasAStore"`
}

type TokenPair struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type AuthService struct {
	users      domain.UserRepository
	tokens     domain.RefreshTokenRepository
	jwt        *auth.JWTer
	refreshTTL time.Duration
	ev         *Emitter
	l          *zap.Logger
	now        func() time.Time
}

func NewAuthService(users domain.UserRepository, tokens domain.RefreshTokenRepository, j *auth.JWTer, refreshTTL time.Duration, ev *Emitter, l *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		jwt:        j,
		refreshTTL: refreshTTL,
		ev:         ev,
		l:          l.Named("auth"),
		now:        time.Now,
	}
}

func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Profile, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Validation("a valid email is required")
	}
	if in.Password == "" {
		return nil, domain.Validation("password is required")
	}
	role := in.Role
	if role == "" {
		role = domain.RoleCustomer
	}
	if !role.SelfAssignable() {
		return nil, domain.Validation("role not allowed")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("email already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:           utils.NewID(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: hash,
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Role:         role,
		CreatedAt:    s.now(),
	}
	// 并发注册同一邮箱由唯一索引兜底 → Conflict
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.ev.emit(ctx, events.TopicUsers, events.TypeUserRegistered, u.ID, map[string]any{"email": u.Email, "role": u.Role})
	p := ProfileOf(u)
	return &p, nil
}

// Login 邮箱不存在和密码错误返回同一个错误，耗时也一致
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := NormalizeEmail(in.Email)
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		utils.BurnCompare(in.Password)
		s.l.Debug("login rejected", zap.String("reason", "unknown email"))
		return nil, errBadCredentials
	}
	ok, needsRehash := utils.VerifyPassword(in.Password, u.PasswordHash)
	if !ok {
		s.l.Debug("login rejected", zap.String("reason", "password mismatch"), zap.String("uid", u.ID))
		return nil, errBadCredentials
	}
	if needsRehash {
		s.upgradeHash(ctx, u.ID, in.Password)
	}

	tok, exp, err := s.jwt.Issue(u.ID, string(u.Role), u.HasStore)
	if err != nil {
		return nil, err
	}
	refresh, err := s.mintRefresh(ctx, u.ID, nil)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:        tok,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		UserID:       u.ID,
		Role:         u.Role,
		HasAStore:    u.HasStore,
	}, nil
}

// upgradeHash 旧 SHA-256 摘要登录成功后换成 bcrypt，失败下次再试
func (s *AuthService) upgradeHash(ctx context.Context, uid, password string) {
	hash, err := utils.HashPassword(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, uid, hash)
	}
	if err != nil {
		s.l.Warn("password rehash failed", zap.String("uid", uid), zap.Error(err))
		return
	}
	s.l.Info("legacy password digest upgraded", zap.String("uid", uid))
}

// mintRefresh rotateFrom 非空时在同一事务里吊销旧 token
func (s *AuthService) mintRefresh(ctx context.Context, uid string, rotateFrom *string) (string, error) {
	plain, hash, err := auth.NewRefreshToken()
	if err != nil {
		return "", err
	}
	now := s.now()
	rt := &domain.RefreshToken{
		ID:        utils.NewID(),
		UserID:    uid,
		TokenHash: hash,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if rotateFrom != nil {
		err = s.tokens.Rotate(ctx, *rotateFrom, rt)
	} else {
		err = s.tokens.Create(ctx, rt)
	}
	if err != nil {
		return "", err
	}
	return plain, nil
}

// Refresh 不存在 / 已吊销 / 已过期统一返回 invalid refresh token
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, errBadRefresh
	}
	hash := auth.HashRefreshToken(refreshToken)
	rt, err := s.tokens.FindByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if !rt.Usable(s.now()) {
		return nil, errBadRefresh
	}
	u, err := s.users.FindByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errBadRefresh
	}

	next, err := s.mintRefresh(ctx, u.ID, &hash)
	if err != nil {
		if domain.KindOf(err) == domain.KindUnauthorized {
			return nil, errBadRefresh
		}
		return nil, err
	}
	tok, exp, err := s.jwt.Issue(u.ID, string(u.Role), u.HasStore)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Token: tok, RefreshToken: next, ExpiresAt: exp}, nil
}

// Logout 吊销 refresh token，重复调用无副作用
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	return s.tokens.Revoke(ctx, auth.HashRefreshToken(refreshToken))
}
