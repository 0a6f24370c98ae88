// Package main 数据库种子工具
//
// 幂等：管理员已存在时跳过创建，示例目录数据仅在 -samples 时写入。
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"shop-admin/internal/apperr"
	"shop-admin/internal/auth"
	"shop-admin/internal/config"
	"shop-admin/internal/model"
	"shop-admin/internal/service"
	"shop-admin/internal/storage/mongostore"
)

func main() {
	var (
		adminEmail    = flag.String("admin-email", envOr("ADMIN_EMAIL", "admin@example.com"), "管理员邮箱")
		adminPassword = flag.String("admin-password", envOr("ADMIN_PASSWORD", ""), "管理员初始密码")
		samples       = flag.Bool("samples", false, "写入示例分类和商品")
	)
	flag.Parse()

	if *adminPassword == "" {
		log.Fatal("admin password is required (-admin-password or ADMIN_PASSWORD)")
	}

	cfg := config.Load()
	log.Printf("Seeding database... [env=%s]", cfg.Env)

	store, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := service.NewUserService(store, cfg.Auth)
	admin, err := ensureAdmin(ctx, users, *adminEmail, *adminPassword)
	if err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}

	if *samples {
		if err := seedSamples(ctx, store, admin); err != nil {
			log.Fatalf("Failed to seed samples: %v", err)
		}
	}

	log.Println("Seed complete")
}

// ensureAdmin 确保管理员存在，已存在时直接返回
func ensureAdmin(ctx context.Context, users *service.UserService, email, password string) (*model.User, error) {
	admin, err := users.Create(ctx, service.CreateUserInput{
		FullName: "Admin",
		Email:    email,
		Password: password,
		Role:     model.UserRoleAdmin,
	})
	if err == nil {
		log.Printf("Created admin user: %s", email)
		return admin, nil
	}
	if !apperr.IsStatus(err, http.StatusConflict) {
		return nil, err
	}

	log.Printf("Admin user already exists: %s", email)
	return users.GetByEmail(ctx, email)
}

// seedSamples 写入示例分类和商品，已存在的跳过
func seedSamples(ctx context.Context, store *mongostore.Store, admin *model.User) error {
	authUser := &auth.AuthUser{
		ID:       admin.ID.Hex(),
		Email:    admin.Email,
		IsActive: true,
		Role:     admin.Role,
	}

	categories := service.NewCategoryService(store)
	products := service.NewProductService(store, categories)

	sampleCategories := []service.CreateCategoryInput{
		{Name: "Electronics", Description: "Phones, laptops and accessories"},
		{Name: "Books", Description: "Fiction and non-fiction"},
		{Name: "Home & Garden", Description: "Furniture and tools"},
	}

	for _, in := range sampleCategories {
		category, err := categories.Create(ctx, authUser, in)
		if err != nil {
			if apperr.IsStatus(err, http.StatusConflict) {
				log.Printf("Category already exists: %s", in.Name)
				continue
			}
			return err
		}
		log.Printf("Created category: %s", category.Name)

		sampleProducts := []service.CreateProductInput{
			{Name: in.Name + " Starter", Description: "Sample product", Price: 19.99, Quantity: 100, CategoryID: category.ID.Hex()},
			{Name: in.Name + " Deluxe", Description: "Sample product", Price: 89.99, Quantity: 25, CategoryID: category.ID.Hex()},
		}
		for _, p := range sampleProducts {
			if _, err := products.Create(ctx, authUser, p); err != nil {
				if apperr.IsStatus(err, http.StatusConflict) {
					continue
				}
				return err
			}
			log.Printf("Created product: %s", p.Name)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
