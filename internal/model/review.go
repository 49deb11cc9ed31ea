package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review is a customer testimonial. There is no write path for reviews.
type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name    string             `bson:"name" json:"name"`
	Details string             `bson:"details" json:"details"`
	Rating  float64            `bson:"rating" json:"rating"`
}
