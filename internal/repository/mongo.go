package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names shared by repositories, indexes and the $lookup stage.
const (
	CollUsers    = "users"
	CollMenu     = "menu"
	CollReviews  = "reviews"
	CollCarts    = "carts"
	CollPayments = "payments"
)

var (
	// ErrNotFound is returned by single-document lookups that match nothing.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when an insert violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidID is returned for strings that are not 24-char hex ObjectIDs.
	ErrInvalidID = errors.New("invalid id")
)

// UpdateCounts is the driver-agnostic outcome of a single-document update.
type UpdateCounts struct {
	Matched    int64
	Modified   int64
	Upserted   int64
	UpsertedID *primitive.ObjectID
}

// ParseID converts a hex string into an ObjectID.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, hex)
	}
	return id, nil
}

// ParseIDs converts every element, failing on the first malformed one.
func ParseIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := ParseID(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// findAll decodes every document matching filter. It never returns a nil slice
// so empty collections serialize as [].
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", coll.Name(), err)
	}
	if out == nil {
		out = make([]T, 0)
	}
	return out, nil
}

// findOne decodes the first matching document or returns ErrNotFound.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter interface{}) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: find one: %w", coll.Name(), err)
	}
	return &doc, nil
}

func insertOne(ctx context.Context, coll *mongo.Collection, doc interface{}) (primitive.ObjectID, error) {
	res, err := coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicate
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s: insert: %w", coll.Name(), err)
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func updateByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, set bson.M, opts ...*options.UpdateOptions) (UpdateCounts, error) {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts...)
	if err != nil {
		return UpdateCounts{}, fmt.Errorf("%s: update: %w", coll.Name(), err)
	}
	return toCounts(res), nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID) (int64, error) {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("%s: delete: %w", coll.Name(), err)
	}
	return res.DeletedCount, nil
}

func estimatedCount(ctx context.Context, coll *mongo.Collection) (int64, error) {
	n, err := coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", coll.Name(), err)
	}
	return n, nil
}

func toCounts(res *mongo.UpdateResult) UpdateCounts {
	c := UpdateCounts{
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount,
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		c.UpsertedID = &id
	}
	return c
}
