package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"syriazone/internal/core/events"
	"syriazone/internal/domain"
)

type UpdateProfileInput struct {
	FullName    string
	PhoneNumber string
}

type UserService struct {
	users    domain.UserRepository
	tokens   domain.RefreshTokenRepository
	profiles *ProfileCache
	ev       *Emitter
	l        *zap.Logger
}

func NewUserService(users domain.UserRepository, tokens domain.RefreshTokenRepository, profiles *ProfileCache, ev *Emitter, l *zap.Logger) *UserService {
	return &UserService{users: users, tokens: tokens, profiles: profiles, ev: ev, l: l.Named("user")}
}

func (s *UserService) load(id string) func(context.Context) (*Profile, error) {
	return func(ctx context.Context) (*Profile, error) {
		u, err := s.users.FindByID(ctx, id)
		if err != nil || u == nil {
			return nil, err
		}
		p := ProfileOf(u)
		return &p, nil
	}
}

func (s *UserService) Get(ctx context.Context, id string) (*Profile, error) {
	p, err := s.profiles.get(ctx, id, s.load(id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("user not found")
	}
	return p, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, in UpdateProfileInput) (*Profile, error) {
	u, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("user not found")
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = u.FullName
	}
	phone := strings.TrimSpace(in.PhoneNumber)
	if phone == "" {
		phone = u.PhoneNumber
	}
	if err := s.users.UpdateProfile(ctx, u.ID, name, phone); err != nil {
		return nil, err
	}
	s.profiles.invalidate(ctx, u.ID)

	u.FullName, u.PhoneNumber = name, phone
	p := ProfileOf(u)
	return &p, nil
}

func (s *UserService) List(ctx context.Context, offset, limit int, q string) ([]Profile, int64, error) {
	users, total, err := s.users.List(ctx, offset, limit, q)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Profile, 0, len(users))
	for i := range users {
		out = append(out, ProfileOf(&users[i]))
	}
	return out, total, nil
}

// Ban 软删用户并吊销全部 refresh token；已签发的 access token 到期自然失效
func (s *UserService) Ban(ctx context.Context, id string) error {
	ok, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("user not found")
	}
	if err := s.tokens.RevokeAllForUser(ctx, id); err != nil {
		return err
	}
	s.profiles.invalidate(ctx, id)
	s.ev.emit(ctx, events.TopicUsers, events.TypeUserBanned, id, nil)
	s.l.Info("user banned", zap.String("uid", id))
	return nil
}
