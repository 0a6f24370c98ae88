package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Category 商品分类
//
// CreatedBy / Products / ProductCount 由仓储层关系展开填充，
// 不直接存储在 categories 集合中。
type Category struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Label       string        `bson:"label" json:"label"` // 由 name 派生的唯一 slug
	Description string        `bson:"description,omitempty" json:"description,omitempty"`
	IsActive    bool          `bson:"is_active" json:"is_active"`
	CreatedByID bson.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`

	CreatedBy    *User      `bson:"created_by,omitempty" json:"created_by,omitempty"`
	Products     []*Product `bson:"products,omitempty" json:"products,omitempty"`
	ProductCount int64      `bson:"product_count,omitempty" json:"product_count"`
}
