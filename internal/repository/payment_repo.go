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

type PaymentRepository interface {
	ListByEmail(ctx context.Context, email string) ([]model.Payment, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Payment, error)
	Insert(ctx context.Context, p *model.Payment) (primitive.ObjectID, error)
	Count(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	OrderStats(ctx context.Context) ([]model.OrderStat, error)
}

type paymentRepo struct{ coll *mongo.Collection }

func NewPaymentRepository(db *mongo.Database) PaymentRepository {
	return &paymentRepo{coll: db.Collection(CollPayments)}
}

func (r *paymentRepo) ListByEmail(ctx context.Context, email string) ([]model.Payment, error) {
	return findAll[model.Payment](ctx, r.coll, bson.M{"email": email},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
}

func (r *paymentRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Payment, error) {
	return findOne[model.Payment](ctx, r.coll, bson.M{"_id": id})
}

func (r *paymentRepo) Insert(ctx context.Context, p *model.Payment) (primitive.ObjectID, error) {
	id, err := insertOne(ctx, r.coll, p)
	if err != nil {
		return id, err
	}
	p.ID = id
	return id, nil
}

func (r *paymentRepo) Count(ctx context.Context) (int64, error) {
	return estimatedCount(ctx, r.coll)
}

// TotalRevenue sums price over every payment; 0 when the collection is empty.
func (r *paymentRepo) TotalRevenue(ctx context.Context) (float64, error) {
	var rows []struct {
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	if err := r.aggregate(ctx, revenuePipeline(), &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].TotalRevenue, nil
}

// OrderStats groups every purchased menu item by category. Ids that no longer
// resolve to a menu document fall out at the second $unwind.
func (r *paymentRepo) OrderStats(ctx context.Context) ([]model.OrderStat, error) {
	rows := make([]model.OrderStat, 0)
	if err := r.aggregate(ctx, orderStatsPipeline(), &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = make([]model.OrderStat, 0)
	}
	return rows, nil
}

func (r *paymentRepo) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("%s: aggregate: %w", r.coll.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("%s: aggregate decode: %w", r.coll.Name(), err)
	}
	return nil
}

func revenuePipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$price"}}},
		}}},
	}
}

// $toObjectId accepts both ObjectIDs and legacy hex strings in menuItemIds.
func orderStatsPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$unwind", Value: "$menuItemIds"}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "menuId", Value: bson.D{{Key: "$toObjectId", Value: "$menuItemIds"}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CollMenu},
			{Key: "localField", Value: "menuId"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "menuItems"},
		}}},
		{{Key: "$unwind", Value: "$menuItems"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$menuItems.category"},
			{Key: "quantity", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "revenue", Value: bson.D{{Key: "$sum", Value: "$menuItems.price"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "category", Value: "$_id"},
			{Key: "quantity", Value: "$quantity"},
			{Key: "revenue", Value: "$revenue"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "category", Value: 1}}}},
	}
}
