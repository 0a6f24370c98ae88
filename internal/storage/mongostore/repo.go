package mongostore

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"shop-admin/internal/apperr"
	"shop-admin/internal/storage"
)

// Repo 通用仓储：对单个实体 Collection 的统一查询/变更入口
//
// 分页算术、关系展开描述符和标签唯一性检查集中在这里，
// 避免在各实体服务中重复查询组装逻辑。
type Repo[T any] struct {
	store  *Store
	col    *mongo.Collection
	entity string // 实体名，用于错误消息，如 "Category"
}

// NewRepo 创建实体仓储
func NewRepo[T any](store *Store, colName, entity string) *Repo[T] {
	return &Repo[T]{store: store, col: store.col(colName), entity: entity}
}

// Store 返回底层存储实例
func (r *Repo[T]) Store() *Store {
	return r.store
}

// Count 统计匹配过滤条件的文档数，无副作用
func (r *Repo[T]) Count(ctx context.Context, filter bson.D) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	n, err := r.col.CountDocuments(ctx, filter)
	return n, wrapError(err)
}

// ListAll 返回匹配的全部文档（不分页）
func (r *Repo[T]) ListAll(ctx context.Context, opts FindOptions) ([]*T, error) {
	return r.find(ctx, opts, nil)
}

// ListPage 返回分页结果 {items, pagination}
func (r *Repo[T]) ListPage(ctx context.Context, opts FindOptions, page PageOptions) (*Page[T], error) {
	if page.Limit <= 0 {
		page = DefaultPage()
	}

	items, err := r.find(ctx, opts, &page)
	if err != nil {
		return nil, err
	}

	total, err := r.Count(ctx, opts.Filter)
	if err != nil {
		return nil, err
	}

	return &Page[T]{Items: items, Pagination: paginate(total, page.Offset, page.Limit)}, nil
}

// Get 查找单个文档，不存在时返回 (nil, nil)
func (r *Repo[T]) Get(ctx context.Context, opts FindOptions) (*T, error) {
	if opts.Optimized || len(opts.Relations) == 0 {
		findOpts := options.FindOne()
		if len(opts.Fields) > 0 {
			findOpts = findOpts.SetProjection(projection(opts.Fields))
		}
		return findOne[T](ctx, r.col, r.filter(opts), findOpts)
	}

	page := PageOptions{Limit: 1}
	items, err := r.find(ctx, opts, &page)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// GetOrError 查找单个文档，不存在时返回 NotFound
func (r *Repo[T]) GetOrError(ctx context.Context, opts FindOptions) (*T, error) {
	entity, err := r.Get(ctx, opts)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, apperr.NotFound("This %s record could not be found", strings.ToLower(r.entity))
	}
	return entity, nil
}

// Insert 插入文档，唯一键冲突时返回 Conflict
func (r *Repo[T]) Insert(ctx context.Context, doc *T) error {
	if err := insertOne(ctx, r.col, doc); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return apperr.Conflict("%s with this name already exists", r.entity)
		}
		return err
	}
	return nil
}

// Save 按 _id 整体保存文档，目标不存在时返回 NotFound
func (r *Repo[T]) Save(ctx context.Context, id bson.ObjectID, doc *T) error {
	if err := replaceByID(ctx, r.col, id, doc); err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			return apperr.NotFound("This %s record could not be found", strings.ToLower(r.entity))
		case errors.Is(err, storage.ErrDuplicate):
			return apperr.Conflict("%s with this name already exists", r.entity)
		}
		return err
	}
	return nil
}

// UpdateFields 按 _id 更新部分字段
func (r *Repo[T]) UpdateFields(ctx context.Context, id bson.ObjectID, update bson.D) error {
	if err := updateFields(ctx, r.col, id, update); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("This %s record could not be found", strings.ToLower(r.entity))
		}
		return err
	}
	return nil
}

// Delete 删除并返回匹配的文档，无匹配时返回 NotFound
func (r *Repo[T]) Delete(ctx context.Context, filter bson.D) (*T, error) {
	var deleted T
	err := r.col.FindOneAndDelete(ctx, filter).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("%s not found", r.entity)
		}
		return nil, wrapError(err)
	}
	return &deleted, nil
}

// CheckLabel 标签唯一性预检：已有同名派生 slug 时返回 Conflict
//
// 唯一索引仍是最终防线，这里的预检让冲突在写入前就以
// 明确的业务错误暴露出来。
func (r *Repo[T]) CheckLabel(ctx context.Context, label string) error {
	n, err := r.Count(ctx, bson.D{{Key: "label", Value: label}})
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict("%s with this name already exists", r.entity)
	}
	return nil
}

// find 组装并执行查询
//
// 需要关系展开时走聚合管道（$match → $sort → $skip/$limit →
// $lookup 阶段 → $project），否则走普通 Find。
func (r *Repo[T]) find(ctx context.Context, opts FindOptions, page *PageOptions) ([]*T, error) {
	if opts.Optimized || len(opts.Relations) == 0 {
		findOpts := options.Find()
		if opts.SortBy != "" {
			findOpts = findOpts.SetSort(bson.D{{Key: opts.SortBy, Value: int(r.sortOrder(opts))}})
		}
		if len(opts.Fields) > 0 {
			findOpts = findOpts.SetProjection(projection(opts.Fields))
		}
		if page != nil {
			findOpts = findOpts.SetSkip(page.Offset).SetLimit(page.Limit)
		}
		return findMany[T](ctx, r.col, r.filter(opts), findOpts)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: r.filter(opts)}},
	}
	if opts.SortBy != "" {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: opts.SortBy, Value: int(r.sortOrder(opts))}}}})
	}
	if page != nil {
		if page.Offset > 0 {
			pipeline = append(pipeline, bson.D{{Key: "$skip", Value: page.Offset}})
		}
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: page.Limit}})
	}
	for _, rel := range opts.Relations {
		pipeline = append(pipeline, rel.stages()...)
	}
	if len(opts.Fields) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: projection(opts.Fields)}})
	}

	return aggregate[T](ctx, r.col, pipeline)
}

func (r *Repo[T]) filter(opts FindOptions) bson.D {
	if opts.Filter == nil {
		return bson.D{}
	}
	return opts.Filter
}

func (r *Repo[T]) sortOrder(opts FindOptions) SortOrder {
	if opts.SortOrder == 0 {
		return SortDesc
	}
	return opts.SortOrder
}
