package service

import (
	"context"
	"errors"

	"bistro/internal/dto"
	"bistro/internal/model"
	"bistro/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgUserExists = "User already Exists"

type UserService interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
	AdminStatus(ctx context.Context, actor, email string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	Register(ctx context.Context, req dto.CreateUserRequest) (*dto.CreateUserResponse, error)
	Promote(ctx context.Context, id primitive.ObjectID) (*dto.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*dto.DeleteResult, error)
	SeedAdmin(ctx context.Context, email, name string) (*dto.UpdateResult, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

// IsAdmin reports whether email belongs to a stored user with the admin role.
// An unknown email is not an error.
func (s *userService) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}

func (s *userService) AdminStatus(ctx context.Context, actor, email string) (bool, error) {
	if actor != email {
		return false, ErrForbidden
	}
	return s.IsAdmin(ctx, email)
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// Register inserts the user unless the email is already known. A concurrent
// registration losing the unique-index race is reported the same way.
func (s *userService) Register(ctx context.Context, req dto.CreateUserRequest) (*dto.CreateUserResponse, error) {
	exists := &dto.CreateUserResponse{Message: msgUserExists, InsertedID: nil}

	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return exists, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	u := &model.User{Email: req.Email, Name: req.Name, Photo: req.Photo}
	id, err := s.repo.Insert(ctx, u)
	if errors.Is(err, repository.ErrDuplicate) {
		return exists, nil
	}
	if err != nil {
		return nil, err
	}
	hex := id.Hex()
	return &dto.CreateUserResponse{Acknowledged: true, InsertedID: &hex}, nil
}

func (s *userService) Promote(ctx context.Context, id primitive.ObjectID) (*dto.UpdateResult, error) {
	c, err := s.repo.SetRole(ctx, id, model.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return updateResult(c), nil
}

func (s *userService) Delete(ctx context.Context, id primitive.ObjectID) (*dto.DeleteResult, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	res := deleteResult(n)
	return &res, nil
}

// SeedAdmin bootstraps an administrator outside the HTTP surface.
func (s *userService) SeedAdmin(ctx context.Context, email, name string) (*dto.UpdateResult, error) {
	c, err := s.repo.UpsertAdmin(ctx, email, name)
	if err != nil {
		return nil, err
	}
	return updateResult(c), nil
}
