package repository

import (
	"context"
	"fmt"

	"bistro/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CartRepository interface {
	ListByEmail(ctx context.Context, email string) ([]model.CartItem, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.CartItem, error)
	Insert(ctx context.Context, item *model.CartItem) (primitive.ObjectID, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error)
}

type cartRepo struct{ coll *mongo.Collection }

func NewCartRepository(db *mongo.Database) CartRepository {
	return &cartRepo{coll: db.Collection(CollCarts)}
}

func (r *cartRepo) ListByEmail(ctx context.Context, email string) ([]model.CartItem, error) {
	return findAll[model.CartItem](ctx, r.coll, bson.M{"email": email})
}

func (r *cartRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.CartItem, error) {
	return findOne[model.CartItem](ctx, r.coll, bson.M{"_id": id})
}

func (r *cartRepo) Insert(ctx context.Context, item *model.CartItem) (primitive.ObjectID, error) {
	id, err := insertOne(ctx, r.coll, item)
	if err != nil {
		return id, err
	}
	item.ID = id
	return id, nil
}

func (r *cartRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return deleteByID(ctx, r.coll, id)
}

func (r *cartRepo) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("%s: delete many: %w", r.coll.Name(), err)
	}
	return res.DeletedCount, nil
}
