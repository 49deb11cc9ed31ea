package repository

import (
	"context"

	"bistro/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type MenuRepository interface {
	List(ctx context.Context) ([]model.MenuItem, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.MenuItem, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.MenuItem, error)
	Insert(ctx context.Context, item *model.MenuItem) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, item *model.MenuItem) (UpdateCounts, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type menuRepo struct{ coll *mongo.Collection }

func NewMenuRepository(db *mongo.Database) MenuRepository {
	return &menuRepo{coll: db.Collection(CollMenu)}
}

func (r *menuRepo) List(ctx context.Context) ([]model.MenuItem, error) {
	return findAll[model.MenuItem](ctx, r.coll, bson.M{})
}

func (r *menuRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.MenuItem, error) {
	return findOne[model.MenuItem](ctx, r.coll, bson.M{"_id": id})
}

func (r *menuRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.MenuItem, error) {
	return findAll[model.MenuItem](ctx, r.coll, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *menuRepo) Insert(ctx context.Context, item *model.MenuItem) (primitive.ObjectID, error) {
	id, err := insertOne(ctx, r.coll, item)
	if err != nil {
		return id, err
	}
	item.ID = id
	return id, nil
}

// Update replaces every editable field; _id is left untouched.
func (r *menuRepo) Update(ctx context.Context, id primitive.ObjectID, item *model.MenuItem) (UpdateCounts, error) {
	return updateByID(ctx, r.coll, id, bson.M{
		"name":     item.Name,
		"price":    item.Price,
		"category": item.Category,
		"recipe":   item.Recipe,
		"image":    item.Image,
	})
}

func (r *menuRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return deleteByID(ctx, r.coll, id)
}

func (r *menuRepo) Count(ctx context.Context) (int64, error) {
	return estimatedCount(ctx, r.coll)
}
