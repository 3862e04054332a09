package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"syriazone/internal/core/events"
	"syriazone/internal/domain"
	"syriazone/pkg/utils"
)

const (
	maxStoreName = 100
	maxStoreDesc = 500
)

type CreateStoreInput struct {
	UserID      string
	Name        string
	Description string
	Logo        string
	Phone       string
}

type UpdateStoreInput struct {
	Name        *string
	Description *string
	Logo        *string
	Phone       *string
}

type StoreService struct {
	stores   domain.StoreRepository
	profiles *ProfileCache
	ev       *Emitter
	l        *zap.Logger
}

func NewStoreService(stores domain.StoreRepository, profiles *ProfileCache, ev *Emitter, l *zap.Logger) *StoreService {
	return &StoreService{stores: stores, profiles: profiles, ev: ev, l: l.Named("store")}
}

func validateStore(name, desc string) error {
	if name == "" {
		return domain.Validation("store name is required")
	}
	if utf8.RuneCountInString(name) > maxStoreName {
		return domain.Validation("store name is too long")
	}
	if utf8.RuneCountInString(desc) > maxStoreDesc {
		return domain.Validation("store description is too long")
	}
	return nil
}

// Create 一人一店由仓储层事务 + 唯一索引保证，这里不看 token 里可能过期的 hasStore
func (s *StoreService) Create(ctx context.Context, actor domain.Actor, in CreateStoreInput) (*domain.Store, error) {
	target := strings.TrimSpace(in.UserID)
	if target == "" {
		target = actor.UserID
	}
	if !actor.CanActFor(target) {
		return nil, domain.Forbidden("cannot create a store for another user")
	}
	st := &domain.Store{
		ID:          utils.NewID(),
		UserID:      target,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Logo:        strings.TrimSpace(in.Logo),
		Phone:       strings.TrimSpace(in.Phone),
	}
	if err := validateStore(st.Name, st.Description); err != nil {
		return nil, err
	}
	if err := s.stores.CreateForUser(ctx, st); err != nil {
		return nil, err
	}
	s.profiles.invalidate(ctx, target)
	s.ev.emit(ctx, events.TopicStores, events.TypeStoreCreated, target, map[string]string{"storeId": st.ID, "name": st.Name})
	s.l.Info("store created", zap.String("uid", target), zap.String("store", st.ID))
	return st, nil
}

func (s *StoreService) GetByUser(ctx context.Context, userID string) (*domain.Store, error) {
	st, err := s.stores.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.NotFound("store not found")
	}
	return st, nil
}

func (s *StoreService) Update(ctx context.Context, actor domain.Actor, userID string, in UpdateStoreInput) (*domain.Store, error) {
	if !actor.CanActFor(userID) {
		return nil, domain.Forbidden("cannot modify another user's store")
	}
	st, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		st.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		st.Description = strings.TrimSpace(*in.Description)
	}
	if in.Logo != nil {
		st.Logo = strings.TrimSpace(*in.Logo)
	}
	if in.Phone != nil {
		st.Phone = strings.TrimSpace(*in.Phone)
	}
	if err := validateStore(st.Name, st.Description); err != nil {
		return nil, err
	}
	if err := s.stores.Update(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Delete 删除店铺并复位 hasAStore
func (s *StoreService) Delete(ctx context.Context, actor domain.Actor, userID string) error {
	if !actor.CanActFor(userID) {
		return domain.Forbidden("cannot delete another user's store")
	}
	ok, err := s.stores.DeleteForUser(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFound("store not found")
	}
	s.profiles.invalidate(ctx, userID)
	s.ev.emit(ctx, events.TopicStores, events.TypeStoreDeleted, userID, nil)
	return nil
}

func (s *StoreService) List(ctx context.Context, offset, limit int) ([]domain.Store, int64, error) {
	return s.stores.List(ctx, offset, limit)
}
