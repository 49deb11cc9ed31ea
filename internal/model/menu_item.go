package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// MenuItem is a dish offered by the restaurant.
// Price is stored as a BSON double so aggregation pipelines can $sum it.
type MenuItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Price    float64            `bson:"price" json:"price"`
	Category string             `bson:"category" json:"category"`
	Recipe   string             `bson:"recipe" json:"recipe"`
	Image    string             `bson:"image" json:"image"`
}
