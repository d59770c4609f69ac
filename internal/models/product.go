package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo is an asset-host reference: the object id used for deletion and the
// public URL served to clients.
type Photo struct {
	ID        string `bson:"id" json:"id"`
	SecureURL string `bson:"secure_url" json:"secure_url"`
}

// Review is embedded in Product. At most one review per user.
type Review struct {
	User    primitive.ObjectID `bson:"user" json:"user"`
	Name    string             `bson:"name" json:"name"`
	Rating  int                `bson:"rating" json:"rating"`
	Comment string             `bson:"comment" json:"comment"`
}

type Product struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Price           float64            `bson:"price" json:"price"`
	Description     string             `bson:"description" json:"description"`
	Category        string             `bson:"category" json:"category"`
	Brand           string             `bson:"brand" json:"brand"`
	Stock           int                `bson:"stock" json:"stock"`
	Photos          []Photo            `bson:"photos" json:"photos"`
	Reviews         []Review           `bson:"reviews" json:"reviews"`
	Ratings         float64            `bson:"ratings" json:"ratings"`
	NumberOfReviews int                `bson:"numberOfReviews" json:"numberOfReviews"`
	User            primitive.ObjectID `bson:"user,omitempty" json:"user"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
