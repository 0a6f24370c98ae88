package service

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"shop-admin/internal/auth"
	"shop-admin/internal/model"
	"shop-admin/internal/storage/mongostore"
)

// 服务层测试需要本地 MongoDB，不可用时跳过。
// 连接地址可用 TEST_MONGO_URI 覆盖。

func testAuthConfig() auth.Config {
	cfg := auth.DefaultConfig()
	cfg.JWTSecret = "test-secret"
	cfg.BcryptCost = 4
	cfg.TOTPSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"
	return cfg
}

// newTestStore 连接本地 MongoDB，不可用时跳过测试
func newTestStore(t *testing.T) *mongostore.Store {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	dbName := fmt.Sprintf("shop_admin_svc_test_%d", time.Now().UnixNano())
	store, err := mongostore.NewStore(uri, dbName)
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store.Database().Drop(ctx)
		store.Close()
	})
	return store
}

// seedUser 直接通过服务创建一个激活用户
func seedUser(t *testing.T, users *UserService, email string, role model.UserRole) *model.User {
	t.Helper()
	user, err := users.Create(context.Background(), CreateUserInput{
		FullName: "Test User",
		Email:    email,
		Password: "password-123",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func mongostorePage(limit, offset int64) mongostore.PageOptions {
	return mongostore.PageOptions{Limit: limit, Offset: offset}
}

func authUserFor(user *model.User) *auth.AuthUser {
	return &auth.AuthUser{
		ID:       user.ID.Hex(),
		Email:    user.Email,
		IsActive: user.IsActive,
		Role:     user.Role,
	}
}
