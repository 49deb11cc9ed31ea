package repository

import (
	"context"

	"bistro/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewRepository interface {
	List(ctx context.Context) ([]model.Review, error)
}

type reviewRepo struct{ coll *mongo.Collection }

func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepo{coll: db.Collection(CollReviews)}
}

func (r *reviewRepo) List(ctx context.Context) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.coll, bson.M{})
}
