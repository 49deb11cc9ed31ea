package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the handlers rely on. CreateOne is a no-op
// for an index that already exists with the same spec.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := []struct {
		coll  string
		model mongo.IndexModel
	}{
		// one user document per email
		{CollUsers, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		}},
		{CollCarts, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("idx_carts_email"),
		}},
		{CollPayments, mongo.IndexModel{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_payments_email_date"),
		}},
	}
	for _, s := range specs {
		if _, err := db.Collection(s.coll).Indexes().CreateOne(ctx, s.model); err != nil {
			return fmt.Errorf("index on %s: %w", s.coll, err)
		}
	}
	return nil
}
