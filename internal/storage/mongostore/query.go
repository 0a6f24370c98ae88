package mongostore

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// SortOrder 排序方向
type SortOrder int

const (
	SortAsc  SortOrder = 1
	SortDesc SortOrder = -1
)

// PageOptions 分页参数
type PageOptions struct {
	Limit  int64
	Offset int64
}

// DefaultPage 默认分页：每页 10 条，从头开始
func DefaultPage() PageOptions {
	return PageOptions{Limit: 10, Offset: 0}
}

// Pagination 分页元数据
type Pagination struct {
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int64 `json:"items_per_page"`
	CurrentPage  int64 `json:"current_page"`
	TotalPages   int64 `json:"total_pages"`
}

// Page 分页查询结果
type Page[T any] struct {
	Items      []*T       `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// paginate 计算分页元数据
// currentPage = ceil(offset/limit) + 1；totalPages = ceil(totalItems/limit)
func paginate(totalItems, offset, limit int64) Pagination {
	return Pagination{
		TotalItems:   totalItems,
		ItemsPerPage: limit,
		CurrentPage:  (offset+limit-1)/limit + 1,
		TotalPages:   (totalItems + limit - 1) / limit,
	}
}

// Relation 关系展开描述符
//
// 描述如何把引用字段解析为被引用实体的数据：声明式描述符由
// 仓储层编译为显式的 $lookup / $addFields 聚合阶段，而不是交给
// 驱动隐式 populate。
type Relation struct {
	Path         string // 输出字段名，如 "created_by"
	From         string // 外部 Collection 名
	LocalField   string // 本地引用字段，如 "created_by_id"
	ForeignField string // 外部匹配字段，通常 "_id"
	Fields       []string // 被引用文档的投影字段，空则全量
	Filter       bson.D   // 被引用文档的过滤条件
	Single       bool     // 一对一：展开为单个文档
	Limit        int64    // 一对多：最多带出的文档数
	Count        bool     // 只输出匹配文档数量
}

// FindOptions 查询选项：过滤、投影、关系展开、排序
type FindOptions struct {
	Filter    bson.D
	Fields    []string
	Relations []Relation
	SortBy    string
	SortOrder SortOrder

	// Optimized 为 true 时跳过关系展开，直接走普通 Find，
	// 用于读密集的列表场景
	Optimized bool
}

// stages 把关系描述符编译为聚合阶段
func (rel Relation) stages() []bson.D {
	lookup := bson.D{
		{Key: "from", Value: rel.From},
		{Key: "localField", Value: rel.LocalField},
		{Key: "foreignField", Value: rel.ForeignField},
		{Key: "as", Value: rel.Path},
	}

	var sub mongo.Pipeline
	if len(rel.Filter) > 0 {
		sub = append(sub, bson.D{{Key: "$match", Value: rel.Filter}})
	}
	if rel.Count {
		sub = append(sub, bson.D{{Key: "$count", Value: "n"}})
	} else {
		if rel.Limit > 0 {
			sub = append(sub, bson.D{{Key: "$limit", Value: rel.Limit}})
		}
		if len(rel.Fields) > 0 {
			sub = append(sub, bson.D{{Key: "$project", Value: projection(rel.Fields)}})
		}
	}
	if len(sub) > 0 {
		lookup = append(lookup, bson.E{Key: "pipeline", Value: sub})
	}

	stages := []bson.D{{{Key: "$lookup", Value: lookup}}}

	switch {
	case rel.Count:
		// [{n: 42}] → 42，无匹配时为 0
		stages = append(stages, bson.D{{Key: "$addFields", Value: bson.D{{
			Key: rel.Path,
			Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$first", Value: "$" + rel.Path + ".n"}},
				0,
			}}},
		}}}})
	case rel.Single:
		stages = append(stages, bson.D{{Key: "$addFields", Value: bson.D{{
			Key:   rel.Path,
			Value: bson.D{{Key: "$first", Value: "$" + rel.Path}},
		}}}})
	}

	return stages
}

// projection 字段列表转 $project 文档
func projection(fields []string) bson.D {
	doc := bson.D{}
	for _, f := range fields {
		doc = append(doc, bson.E{Key: f, Value: 1})
	}
	return doc
}
