package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"shop-admin/internal/auth"
	"shop-admin/internal/model"
	"shop-admin/internal/storage/mongostore"
)

// CategoryService 分类服务
type CategoryService struct {
	repo *mongostore.Repo[model.Category]
}

// NewCategoryService 创建分类服务
func NewCategoryService(store *mongostore.Store) *CategoryService {
	return &CategoryService{
		repo: mongostore.NewRepo[model.Category](store, mongostore.ColCategories, "Category"),
	}
}

// defaultRelations 分类的固定关系展开集合：
// 创建者、最多 5 条商品预览、商品总数
func (s *CategoryService) defaultRelations() []mongostore.Relation {
	return []mongostore.Relation{
		{
			Path:         "created_by",
			From:         mongostore.ColUsers,
			LocalField:   "created_by_id",
			ForeignField: "_id",
			Fields:       []string{"full_name", "email", "profile_image"},
			Single:       true,
		},
		{
			Path:         "products",
			From:         mongostore.ColProducts,
			LocalField:   "_id",
			ForeignField: "category_id",
			Fields:       []string{"name", "description", "price", "in_stock", "image"},
			Limit:        5,
		},
		{
			Path:         "product_count",
			From:         mongostore.ColProducts,
			LocalField:   "_id",
			ForeignField: "category_id",
			Count:        true,
		},
	}
}

// CreateCategoryInput 创建分类输入
type CreateCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetAll 分页列出分类
func (s *CategoryService) GetAll(ctx context.Context, page mongostore.PageOptions, q QueryOptions) (*mongostore.Page[model.Category], error) {
	filter := bson.D{}
	if q.IsActive != nil {
		filter = append(filter, bson.E{Key: "is_active", Value: *q.IsActive})
	}
	if q.Search != "" {
		filter = searchFilter(q.Search, "name", "label", "description")
	}

	return s.repo.ListPage(ctx, mongostore.FindOptions{
		Filter:    filter,
		Relations: s.defaultRelations(),
		SortBy:    q.sortBy(),
		SortOrder: q.SortOrder,
	}, page)
}

// GetByID 按 ID 获取分类（含关系展开），不存在时返回 NotFound
func (s *CategoryService) GetByID(ctx context.Context, id bson.ObjectID) (*model.Category, error) {
	return s.repo.GetOrError(ctx, mongostore.FindOptions{
		Filter:    bson.D{{Key: "_id", Value: id}},
		Relations: s.defaultRelations(),
	})
}

// Create 创建分类并盖上创建者身份
func (s *CategoryService) Create(ctx context.Context, authUser *auth.AuthUser, in CreateCategoryInput) (*model.Category, error) {
	creatorID, err := parseID(authUser.ID, "user id")
	if err != nil {
		return nil, err
	}

	label := model.MakeLabel(in.Name)
	if err := s.repo.CheckLabel(ctx, label); err != nil {
		return nil, err
	}

	now := time.Now()
	category := &model.Category{
		ID:          bson.NewObjectID(),
		Name:        in.Name,
		Label:       label,
		Description: in.Description,
		IsActive:    true,
		CreatedByID: creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update 在事务内更新分类
//
// 名称变化时重新派生 label 并预检唯一性；任何一步失败都会
// 回滚事务并重新抛出原始错误。
func (s *CategoryService) Update(ctx context.Context, id bson.ObjectID, in CreateCategoryInput) (*model.Category, error) {
	var category *model.Category

	err := s.repo.Store().WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		category, err = s.repo.GetOrError(ctx, mongostore.FindOptions{
			Filter: bson.D{{Key: "_id", Value: id}},
		})
		if err != nil {
			return err
		}

		if in.Name != "" && in.Name != category.Name {
			label := model.MakeLabel(in.Name)
			if label != category.Label {
				if err := s.repo.CheckLabel(ctx, label); err != nil {
					return err
				}
			}
			category.Name = in.Name
			category.Label = label
		}
		if in.Description != "" {
			category.Description = in.Description
		}
		category.UpdatedAt = time.Now()

		return s.repo.Save(ctx, category.ID, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类，无匹配时返回 NotFound
func (s *CategoryService) Delete(ctx context.Context, id bson.ObjectID) (*model.Category, error) {
	return s.repo.Delete(ctx, bson.D{{Key: "_id", Value: id}})
}

// ToggleStatus 在事务内翻转启用状态
func (s *CategoryService) ToggleStatus(ctx context.Context, id bson.ObjectID) (*model.Category, error) {
	var category *model.Category

	err := s.repo.Store().WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		category, err = s.repo.GetOrError(ctx, mongostore.FindOptions{
			Filter: bson.D{{Key: "_id", Value: id}},
		})
		if err != nil {
			return err
		}

		category.IsActive = !category.IsActive
		category.UpdatedAt = time.Now()
		return s.repo.Save(ctx, category.ID, category)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}
