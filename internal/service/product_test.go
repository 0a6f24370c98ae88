package service

import (
	"context"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"shop-admin/internal/apperr"
	"shop-admin/internal/model"
)

func TestProductCreate(t *testing.T) {
	categories, products, users := newCatalogFixture(t)
	ctx := context.Background()
	admin := authUserFor(seedUser(t, users, "admin@example.com", model.UserRoleAdmin))

	category, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Phones"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}

	product, err := products.Create(ctx, admin, CreateProductInput{
		Name:       "Fold Phone 5",
		Price:      1299.99,
		Quantity:   10,
		CategoryID: category.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.Label != "fold-phone-5" {
		t.Errorf("label = %q", product.Label)
	}
	if !product.InStock {
		t.Error("in_stock should default to true")
	}

	// 引用不存在的分类
	_, err = products.Create(ctx, admin, CreateProductInput{
		Name: "Orphan", CategoryID: bson.NewObjectID().Hex(),
	})
	if !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("missing category: %v, want 404", err)
	}

	// 非法分类 ID
	_, err = products.Create(ctx, admin, CreateProductInput{Name: "Bad", CategoryID: "not-hex"})
	if !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("malformed category id: %v, want 400", err)
	}

	// 负数价格
	_, err = products.Create(ctx, admin, CreateProductInput{
		Name: "Negative", Price: -1, CategoryID: category.ID.Hex(),
	})
	if !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("negative price: %v, want 400", err)
	}
}

func TestProductUpdate(t *testing.T) {
	categories, products, users := newCatalogFixture(t)
	ctx := context.Background()
	admin := authUserFor(seedUser(t, users, "admin@example.com", model.UserRoleAdmin))

	category, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Laptops"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	product, err := products.Create(ctx, admin, CreateProductInput{
		Name: "Thin Laptop", Price: 999, Quantity: 5, CategoryID: category.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 部分更新：只改价格，其余字段保持原值
	newPrice := 899.0
	updated, err := products.Update(ctx, product.ID, UpdateProductInput{Price: &newPrice})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 899 || updated.Name != "Thin Laptop" || updated.Quantity != 5 {
		t.Errorf("after partial update: %+v", updated)
	}

	// 指向不存在分类的更新失败，且目标保持未修改
	badPrice := 1.0
	_, err = products.Update(ctx, product.ID, UpdateProductInput{
		Price:      &badPrice,
		CategoryID: bson.NewObjectID().Hex(),
	})
	if !apperr.IsStatus(err, http.StatusNotFound) {
		t.Fatalf("update with missing category: %v, want 404", err)
	}

	reloaded, err := products.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Price != 899 {
		t.Errorf("failed update must not modify the product, price = %v", reloaded.Price)
	}
}

func TestProductToggleStockAndDelete(t *testing.T) {
	categories, products, users := newCatalogFixture(t)
	ctx := context.Background()
	admin := authUserFor(seedUser(t, users, "admin@example.com", model.UserRoleAdmin))

	category, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Cameras"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	product, err := products.Create(ctx, admin, CreateProductInput{
		Name: "Mirrorless X", Price: 650, Quantity: 2, CategoryID: category.ID.Hex(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	toggled, err := products.ToggleStock(ctx, product.ID)
	if err != nil {
		t.Fatalf("ToggleStock: %v", err)
	}
	if toggled.InStock {
		t.Error("first toggle should mark out of stock")
	}

	if err := products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err = products.Delete(ctx, product.ID)
	if !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("second delete: %v, want 404", err)
	}
}

func TestProductRelationsAndFilters(t *testing.T) {
	categories, products, users := newCatalogFixture(t)
	ctx := context.Background()
	creator := seedUser(t, users, "admin@example.com", model.UserRoleAdmin)
	admin := authUserFor(creator)

	catA, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Audio"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}
	catB, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Video"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}

	outOfStock := false
	if _, err := products.Create(ctx, admin, CreateProductInput{
		Name: "Headphones", Price: 99, Quantity: 10, CategoryID: catA.ID.Hex(),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := products.Create(ctx, admin, CreateProductInput{
		Name: "Soundbar", Price: 199, Quantity: 0, CategoryID: catA.ID.Hex(), InStock: &outOfStock,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := products.Create(ctx, admin, CreateProductInput{
		Name: "Projector", Price: 499, Quantity: 3, CategoryID: catB.ID.Hex(),
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 分类过滤
	page, err := products.GetAll(ctx, mongostorePage(10, 0), QueryOptions{Category: catA.ID.Hex()})
	if err != nil {
		t.Fatalf("GetAll by category: %v", err)
	}
	if page.Pagination.TotalItems != 2 {
		t.Errorf("category A products = %d, want 2", page.Pagination.TotalItems)
	}

	// 库存过滤
	inStock := true
	page, err = products.GetAll(ctx, mongostorePage(10, 0), QueryOptions{InStock: &inStock})
	if err != nil {
		t.Fatalf("GetAll in stock: %v", err)
	}
	if page.Pagination.TotalItems != 2 {
		t.Errorf("in-stock products = %d, want 2", page.Pagination.TotalItems)
	}

	// 关系展开
	if len(page.Items) == 0 {
		t.Fatal("expected items")
	}
	item := page.Items[0]
	if item.Category == nil || item.Category.Name == "" {
		t.Errorf("category relation = %+v", item.Category)
	}
	if item.CreatedBy == nil || item.CreatedBy.Email != creator.Email {
		t.Errorf("created_by relation = %+v", item.CreatedBy)
	}

	// 搜索（大小写不敏感，匹配名称/label/描述）
	page, err = products.GetAll(ctx, mongostorePage(10, 0), QueryOptions{Search: "SOUND"})
	if err != nil {
		t.Fatalf("GetAll search: %v", err)
	}
	if page.Pagination.TotalItems != 1 {
		t.Errorf("search hits = %d, want 1", page.Pagination.TotalItems)
	}
}
