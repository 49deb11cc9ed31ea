package service

import (
	"context"

	"bistro/internal/model"
	"bistro/internal/repository"
)

type ReviewService interface {
	List(ctx context.Context) ([]model.Review, error)
}

type reviewService struct{ repo repository.ReviewRepository }

func NewReviewService(repo repository.ReviewRepository) ReviewService {
	return &reviewService{repo: repo}
}

func (s *reviewService) List(ctx context.Context) ([]model.Review, error) {
	return s.repo.List(ctx)
}
