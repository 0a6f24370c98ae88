package service

import (
	"context"
	"net/http"
	"testing"

	"shop-admin/internal/apperr"
	"shop-admin/internal/model"
)

func newCatalogFixture(t *testing.T) (*CategoryService, *ProductService, *UserService) {
	store := newTestStore(t)
	categories := NewCategoryService(store)
	products := NewProductService(store, categories)
	users := NewUserService(store, testAuthConfig())
	return categories, products, users
}

func TestCategoryCreate(t *testing.T) {
	categories, _, users := newCatalogFixture(t)
	ctx := context.Background()
	admin := authUserFor(seedUser(t, users, "admin@example.com", model.UserRoleAdmin))

	category, err := categories.Create(ctx, admin, CreateCategoryInput{
		Name:        "Home Appliances",
		Description: "Kitchen and cleaning",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if category.Label != "home-appliances" {
		t.Errorf("label = %q, want home-appliances", category.Label)
	}
	if !category.IsActive {
		t.Error("new categories should be active")
	}

	// 同名派生同一 label，预检冲突
	_, err = categories.Create(ctx, admin, CreateCategoryInput{Name: "home APPLIANCES"})
	if !apperr.IsStatus(err, http.StatusConflict) {
		t.Errorf("duplicate label: %v, want 409", err)
	}
}

func TestCategoryUpdateRenamesLabel(t *testing.T) {
	categories, _, users := newCatalogFixture(t)
	ctx := context.Background()
	admin := authUserFor(seedUser(t, users, "admin@example.com", model.UserRoleAdmin))

	category, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Books"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := categories.Update(ctx, category.ID, CreateCategoryInput{Name: "Audio Books"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Label != "audio-books" {
		t.Errorf("label = %q, want audio-books", updated.Label)
	}

	// 描述单独更新不触碰 label
	updated, err = categories.Update(ctx, category.ID, CreateCategoryInput{Description: "narrated"})
	if err != nil {
		t.Fatalf("Update description: %v", err)
	}
	if updated.Label != "audio-books" || updated.Description != "narrated" {
		t.Errorf("after description update: %+v", updated)
	}

	// 更名撞到已有 label
	other, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Comics"})
	if err != nil {
		t.Fatalf("Create comics: %v", err)
	}
	_, err = categories.Update(ctx, other.ID, CreateCategoryInput{Name: "Audio Books"})
	if !apperr.IsStatus(err, http.StatusConflict) {
		t.Errorf("rename onto existing label: %v, want 409", err)
	}
}

func TestCategoryRelations(t *testing.T) {
	categories, products, users := newCatalogFixture(t)
	ctx := context.Background()
	creator := seedUser(t, users, "admin@example.com", model.UserRoleAdmin)
	admin := authUserFor(creator)

	category, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Gadgets"})
	if err != nil {
		t.Fatalf("Create category: %v", err)
	}

	// 7 个商品：预览最多 5 条，计数应为 7
	for i := 0; i < 7; i++ {
		_, err := products.Create(ctx, admin, CreateProductInput{
			Name:       "Gadget " + string(rune('A'+i)),
			Price:      9.99,
			Quantity:   3,
			CategoryID: category.ID.Hex(),
		})
		if err != nil {
			t.Fatalf("Create product #%d: %v", i, err)
		}
	}

	got, err := categories.GetByID(ctx, category.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ProductCount != 7 {
		t.Errorf("product_count = %d, want 7", got.ProductCount)
	}
	if len(got.Products) != 5 {
		t.Errorf("products preview = %d, want 5", len(got.Products))
	}
	if got.CreatedBy == nil || got.CreatedBy.Email != creator.Email {
		t.Errorf("created_by = %+v", got.CreatedBy)
	}
	if got.CreatedBy != nil && got.CreatedBy.Password != "" {
		t.Error("created_by projection must not include the password")
	}
}

func TestCategoryToggleAndDelete(t *testing.T) {
	categories, _, users := newCatalogFixture(t)
	ctx := context.Background()
	admin := authUserFor(seedUser(t, users, "admin@example.com", model.UserRoleAdmin))

	category, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Seasonal"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	toggled, err := categories.ToggleStatus(ctx, category.ID)
	if err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}
	if toggled.IsActive {
		t.Error("first toggle should deactivate")
	}

	deleted, err := categories.Delete(ctx, category.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted.Name != "Seasonal" {
		t.Errorf("deleted = %+v", deleted)
	}

	_, err = categories.Delete(ctx, category.ID)
	if !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("second delete: %v, want 404", err)
	}
}

func TestCategorySearchReplacesFilters(t *testing.T) {
	categories, _, users := newCatalogFixture(t)
	ctx := context.Background()
	admin := authUserFor(seedUser(t, users, "admin@example.com", model.UserRoleAdmin))

	a, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Outdoor Gear"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := categories.Create(ctx, admin, CreateCategoryInput{Name: "Indoor Plants"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := categories.ToggleStatus(ctx, a.ID); err != nil {
		t.Fatalf("ToggleStatus: %v", err)
	}

	inactive := false
	// search 提供时覆盖 is_active 过滤
	page, err := categories.GetAll(ctx, mongostorePage(10, 0), QueryOptions{IsActive: &inactive, Search: "outdoor"})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if page.Pagination.TotalItems != 1 {
		t.Errorf("search hits = %d, want 1", page.Pagination.TotalItems)
	}

	active := true
	page, err = categories.GetAll(ctx, mongostorePage(10, 0), QueryOptions{IsActive: &active})
	if err != nil {
		t.Fatalf("GetAll active: %v", err)
	}
	if page.Pagination.TotalItems != 1 {
		t.Errorf("active categories = %d, want 1", page.Pagination.TotalItems)
	}
}
