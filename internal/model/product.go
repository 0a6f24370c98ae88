package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product 商品
type Product struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Label       string        `bson:"label" json:"label"` // 由 name 派生的唯一 slug
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	CategoryID  bson.ObjectID `bson:"category_id" json:"category_id"`
	CreatedByID bson.ObjectID `bson:"created_by_id" json:"created_by_id"`
	Price       float64       `bson:"price" json:"price"`
	Quantity    int64         `bson:"quantity" json:"quantity"`
	InStock     bool          `bson:"in_stock" json:"in_stock"`
	Image       string        `bson:"image,omitempty" json:"image,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`

	Category  *Category `bson:"category,omitempty" json:"category,omitempty"`
	CreatedBy *User     `bson:"created_by,omitempty" json:"created_by,omitempty"`
}
