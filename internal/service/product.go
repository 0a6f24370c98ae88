package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"shop-admin/internal/apperr"
	"shop-admin/internal/auth"
	"shop-admin/internal/model"
	"shop-admin/internal/storage/mongostore"
)

// ProductService 商品服务
type ProductService struct {
	repo       *mongostore.Repo[model.Product]
	categories *CategoryService
}

// NewProductService 创建商品服务
func NewProductService(store *mongostore.Store, categories *CategoryService) *ProductService {
	return &ProductService{
		repo:       mongostore.NewRepo[model.Product](store, mongostore.ColProducts, "Product"),
		categories: categories,
	}
}

// defaultRelations 商品的固定关系展开集合：所属分类、创建者
func (s *ProductService) defaultRelations() []mongostore.Relation {
	return []mongostore.Relation{
		{
			Path:         "category",
			From:         mongostore.ColCategories,
			LocalField:   "category_id",
			ForeignField: "_id",
			Fields:       []string{"name", "description"},
			Single:       true,
		},
		{
			Path:         "created_by",
			From:         mongostore.ColUsers,
			LocalField:   "created_by_id",
			ForeignField: "_id",
			Fields:       []string{"full_name", "email", "profile_image"},
			Single:       true,
		},
	}
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	CategoryID  string  `json:"category_id"`
	Image       string  `json:"image"`
	InStock     *bool   `json:"in_stock"`
}

// UpdateProductInput 更新商品输入，nil / 空值表示保持原值
type UpdateProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Quantity    *int64   `json:"quantity"`
	CategoryID  string   `json:"category_id"`
	Image       string   `json:"image"`
	InStock     *bool    `json:"in_stock"`
}

// GetAll 分页列出商品
func (s *ProductService) GetAll(ctx context.Context, page mongostore.PageOptions, q QueryOptions) (*mongostore.Page[model.Product], error) {
	filter := bson.D{}
	if q.InStock != nil {
		filter = append(filter, bson.E{Key: "in_stock", Value: *q.InStock})
	}
	if q.Category != "" {
		categoryID, err := parseID(q.Category, "category")
		if err != nil {
			return nil, err
		}
		filter = append(filter, bson.E{Key: "category_id", Value: categoryID})
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

// GetByID 按 ID 获取商品（含关系展开），不存在时返回 NotFound
func (s *ProductService) GetByID(ctx context.Context, id bson.ObjectID) (*model.Product, error) {
	return s.repo.GetOrError(ctx, mongostore.FindOptions{
		Filter:    bson.D{{Key: "_id", Value: id}},
		Relations: s.defaultRelations(),
	})
}

// Create 创建商品
//
// 先确认引用的分类存在（否则 NotFound），再盖上创建者身份写入。
func (s *ProductService) Create(ctx context.Context, authUser *auth.AuthUser, in CreateProductInput) (*model.Product, error) {
	creatorID, err := parseID(authUser.ID, "user id")
	if err != nil {
		return nil, err
	}
	categoryID, err := parseID(in.CategoryID, "category")
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	if in.Price < 0 || in.Quantity < 0 {
		return nil, apperr.BadRequest("Price and quantity must be non-negative")
	}

	label := model.MakeLabel(in.Name)
	if err := s.repo.CheckLabel(ctx, label); err != nil {
		return nil, err
	}

	inStock := true
	if in.InStock != nil {
		inStock = *in.InStock
	}

	now := time.Now()
	product := &model.Product{
		ID:          bson.NewObjectID(),
		Name:        in.Name,
		Label:       label,
		Description: in.Description,
		CategoryID:  categoryID,
		CreatedByID: creatorID,
		Price:       in.Price,
		Quantity:    in.Quantity,
		InStock:     inStock,
		Image:       in.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update 在事务内更新商品
//
// 分类引用在触碰目标文档之前校验，确保失败的更新在任何拓扑下
// 都不会留下半成品状态。
func (s *ProductService) Update(ctx context.Context, id bson.ObjectID, in UpdateProductInput) (*model.Product, error) {
	var product *model.Product

	err := s.repo.Store().WithTransaction(ctx, func(ctx context.Context) error {
		var categoryID *bson.ObjectID
		if in.CategoryID != "" {
			parsed, err := parseID(in.CategoryID, "category")
			if err != nil {
				return err
			}
			if _, err := s.categories.GetByID(ctx, parsed); err != nil {
				return err
			}
			categoryID = &parsed
		}
		if in.Price != nil && *in.Price < 0 {
			return apperr.BadRequest("Price must be non-negative")
		}
		if in.Quantity != nil && *in.Quantity < 0 {
			return apperr.BadRequest("Quantity must be non-negative")
		}

		var err error
		product, err = s.repo.GetOrError(ctx, mongostore.FindOptions{
			Filter: bson.D{{Key: "_id", Value: id}},
		})
		if err != nil {
			return err
		}

		if in.Name != "" && in.Name != product.Name {
			label := model.MakeLabel(in.Name)
			if label != product.Label {
				if err := s.repo.CheckLabel(ctx, label); err != nil {
					return err
				}
			}
			product.Name = in.Name
			product.Label = label
		}
		if in.Description != "" {
			product.Description = in.Description
		}
		if categoryID != nil {
			product.CategoryID = *categoryID
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.Quantity != nil {
			product.Quantity = *in.Quantity
		}
		if in.InStock != nil {
			product.InStock = *in.InStock
		}
		if in.Image != "" {
			product.Image = in.Image
		}
		product.UpdatedAt = time.Now()

		return s.repo.Save(ctx, product.ID, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 在事务内删除商品
func (s *ProductService) Delete(ctx context.Context, id bson.ObjectID) error {
	return s.repo.Store().WithTransaction(ctx, func(ctx context.Context) error {
		_, err := s.repo.Delete(ctx, bson.D{{Key: "_id", Value: id}})
		return err
	})
}

// ToggleStock 在事务内翻转库存标记
func (s *ProductService) ToggleStock(ctx context.Context, id bson.ObjectID) (*model.Product, error) {
	var product *model.Product

	err := s.repo.Store().WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		product, err = s.repo.GetOrError(ctx, mongostore.FindOptions{
			Filter: bson.D{{Key: "_id", Value: id}},
		})
		if err != nil {
			return err
		}

		product.InStock = !product.InStock
		product.UpdatedAt = time.Now()
		return s.repo.Save(ctx, product.ID, product)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// SetImage 更新商品图片引用（对象存储 key 或外部 URL）
func (s *ProductService) SetImage(ctx context.Context, id bson.ObjectID, image string) (*model.Product, error) {
	product, err := s.repo.GetOrError(ctx, mongostore.FindOptions{
		Filter: bson.D{{Key: "_id", Value: id}},
	})
	if err != nil {
		return nil, err
	}

	product.Image = image
	product.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, product.ID, product); err != nil {
		return nil, err
	}
	return product, nil
}
