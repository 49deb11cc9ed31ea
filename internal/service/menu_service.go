package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"bistro/internal/dto"
	"bistro/internal/model"
	"bistro/internal/repository"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const menuCacheKey = "menu:all"

type MenuService interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.MenuItem, error)
	Create(ctx context.Context, req dto.MenuItemRequest) (*dto.InsertResult, error)
	Update(ctx context.Context, id primitive.ObjectID, req dto.MenuItemRequest) (*dto.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*dto.DeleteResult, error)
}

type menuService struct {
	repo repository.MenuRepository
	rdb  *redis.Client // nil disables the cache
	ttl  time.Duration
}

func NewMenuService(repo repository.MenuRepository, rdb *redis.Client, ttl time.Duration) MenuService {
	return &menuService{repo: repo, rdb: rdb, ttl: ttl}
}

// List serves the full menu cache-aside; cache errors fall through to the store.
func (s *menuService) List(ctx context.Context) ([]model.MenuItem, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, menuCacheKey).Bytes(); err == nil {
			var items []model.MenuItem
			if jsonErr := json.Unmarshal(cached, &items); jsonErr == nil {
				return items, nil
			}
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if b, jsonErr := json.Marshal(items); jsonErr == nil {
			_ = s.rdb.Set(context.WithoutCancel(ctx), menuCacheKey, b, s.ttl).Err()
		}
	}
	return items, nil
}

// Get returns nil without error when no item has the id.
func (s *menuService) Get(ctx context.Context, id primitive.ObjectID) (*model.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return item, err
}

func (s *menuService) Create(ctx context.Context, req dto.MenuItemRequest) (*dto.InsertResult, error) {
	id, err := s.repo.Insert(ctx, toMenuItem(req))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	res := insertResult(id)
	return &res, nil
}

func (s *menuService) Update(ctx context.Context, id primitive.ObjectID, req dto.MenuItemRequest) (*dto.UpdateResult, error) {
	c, err := s.repo.Update(ctx, id, toMenuItem(req))
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updateResult(c), nil
}

func (s *menuService) Delete(ctx context.Context, id primitive.ObjectID) (*dto.DeleteResult, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	res := deleteResult(n)
	return &res, nil
}

func (s *menuService) invalidate(ctx context.Context) {
	if s.rdb != nil {
		_ = s.rdb.Del(context.WithoutCancel(ctx), menuCacheKey).Err()
	}
}

func toMenuItem(req dto.MenuItemRequest) *model.MenuItem {
	return &model.MenuItem{
		Name:     req.Name,
		Price:    req.Price.InexactFloat64(),
		Category: req.Category,
		Recipe:   req.Recipe,
		Image:    req.Image,
	}
}
