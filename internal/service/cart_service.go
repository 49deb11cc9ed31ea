package service

import (
	"context"
	"errors"

	"bistro/internal/dto"
	"bistro/internal/model"
	"bistro/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartService methods take the caller's email as actor; see checkOwner.
type CartService interface {
	List(ctx context.Context, actor, email string) ([]model.CartItem, error)
	Add(ctx context.Context, actor string, req dto.CartItemRequest) (*dto.InsertResult, error)
	Remove(ctx context.Context, actor string, id primitive.ObjectID) (*dto.DeleteResult, error)
}

type cartService struct{ repo repository.CartRepository }

func NewCartService(repo repository.CartRepository) CartService {
	return &cartService{repo: repo}
}

func (s *cartService) List(ctx context.Context, actor, email string) ([]model.CartItem, error) {
	if err := checkOwner(actor, email); err != nil {
		return nil, err
	}
	return s.repo.ListByEmail(ctx, email)
}

func (s *cartService) Add(ctx context.Context, actor string, req dto.CartItemRequest) (*dto.InsertResult, error) {
	if err := checkOwner(actor, req.Email); err != nil {
		return nil, err
	}
	item := &model.CartItem{
		Email:  req.Email,
		MenuID: req.MenuID,
		Name:   req.Name,
		Image:  req.Image,
		Price:  req.Price.InexactFloat64(),
	}
	id, err := s.repo.Insert(ctx, item)
	if err != nil {
		return nil, err
	}
	res := insertResult(id)
	return &res, nil
}

// Remove deletes one cart entry. With an actor, the entry must belong to it;
// a missing entry yields deletedCount 0 either way.
func (s *cartService) Remove(ctx context.Context, actor string, id primitive.ObjectID) (*dto.DeleteResult, error) {
	if actor != "" {
		item, err := s.repo.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			res := deleteResult(0)
			return &res, nil
		}
		if err != nil {
			return nil, err
		}
		if err := checkOwner(actor, item.Email); err != nil {
			return nil, err
		}
	}
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	res := deleteResult(n)
	return &res, nil
}
