// Package service 实体服务层
//
// 每个实体服务组合通用仓储 Repo[T] 与实体自身的业务规则：
// 凭证校验、唯一性检查、关系展开集合、库存/状态翻转。
// 控制流：HTTP 适配器 → 实体服务 → 通用仓储 → MongoDB。
package service

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"shop-admin/internal/apperr"
	"shop-admin/internal/model"
	"shop-admin/internal/storage/mongostore"
)

// QueryOptions 列表查询过滤与排序输入
type QueryOptions struct {
	Search    string
	Category  string // category 的十六进制 ObjectID
	InStock   *bool
	Role      model.UserRole
	SortBy    string
	SortOrder mongostore.SortOrder
	IsActive  *bool
}

// sortBy 默认按创建时间排序
func (q QueryOptions) sortBy() string {
	if q.SortBy == "" {
		return "created_at"
	}
	return q.SortBy
}

// searchFilter 自由文本搜索：对给定字段做大小写不敏感的模式匹配。
// 提供搜索词时替换其它过滤条件。
func searchFilter(search string, fields ...string) bson.D {
	or := bson.A{}
	for _, f := range fields {
		or = append(or, bson.D{{Key: f, Value: bson.D{
			{Key: "$regex", Value: search},
			{Key: "$options", Value: "i"},
		}}})
	}
	return bson.D{{Key: "$or", Value: or}}
}

// parseID 解析十六进制 ObjectID，非法时返回 BadRequest
func parseID(hex, name string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, apperr.BadRequest("Invalid %s", name)
	}
	return id, nil
}
