package repository

import (
	"context"
	"fmt"

	"bistro/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Insert(ctx context.Context, u *model.User) (primitive.ObjectID, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role string) (UpdateCounts, error)
	UpsertAdmin(ctx context.Context, email, name string) (UpdateCounts, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type userRepo struct{ coll *mongo.Collection }

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepo{coll: db.Collection(CollUsers)}
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, r.coll, bson.M{"email": email})
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	return findAll[model.User](ctx, r.coll, bson.M{})
}

func (r *userRepo) Insert(ctx context.Context, u *model.User) (primitive.ObjectID, error) {
	id, err := insertOne(ctx, r.coll, u)
	if err != nil {
		return id, err
	}
	u.ID = id
	return id, nil
}

func (r *userRepo) SetRole(ctx context.Context, id primitive.ObjectID, role string) (UpdateCounts, error) {
	return updateByID(ctx, r.coll, id, bson.M{"role": role})
}

// UpsertAdmin creates the user when missing and grants the admin role either way.
func (r *userRepo) UpsertAdmin(ctx context.Context, email, name string) (UpdateCounts, error) {
	update := bson.M{
		"$set":         bson.M{"role": model.RoleAdmin},
		"$setOnInsert": bson.M{"email": email, "name": name},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	if err != nil {
		return UpdateCounts{}, fmt.Errorf("%s: upsert admin: %w", r.coll.Name(), err)
	}
	return toCounts(res), nil
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	return deleteByID(ctx, r.coll, id)
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	return estimatedCount(ctx, r.coll)
}
