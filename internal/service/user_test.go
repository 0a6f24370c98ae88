package service

import (
	"context"
	"net/http"
	"testing"

	"shop-admin/internal/apperr"
	"shop-admin/internal/auth"
	"shop-admin/internal/model"
)

func TestUserCreate(t *testing.T) {
	users := NewUserService(newTestStore(t), testAuthConfig())
	ctx := context.Background()

	user := seedUser(t, users, "jane@example.com", "")
	if user.Role != model.UserRoleCustomer {
		t.Errorf("default role = %q, want customer", user.Role)
	}
	if !user.IsActive {
		t.Error("new users should be active")
	}
	if user.Password == "password-123" {
		t.Error("password must be stored hashed")
	}

	// 重复邮箱
	_, err := users.Create(ctx, CreateUserInput{FullName: "Dup", Email: "jane@example.com", Password: "password-123"})
	if !apperr.IsStatus(err, http.StatusConflict) {
		t.Errorf("duplicate email: %v, want 409", err)
	}
	if err.Error() != "User already exists." {
		t.Errorf("unexpected message: %q", err.Error())
	}

	// 非法角色
	_, err = users.Create(ctx, CreateUserInput{FullName: "Bad", Email: "bad@example.com", Password: "password-123", Role: "superuser"})
	if !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("invalid role: %v, want 400", err)
	}

	// 非法邮箱
	_, err = users.Create(ctx, CreateUserInput{FullName: "Bad", Email: "not-an-email", Password: "password-123"})
	if !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("invalid email: %v, want 400", err)
	}

	// 密码过短
	_, err = users.Create(ctx, CreateUserInput{FullName: "Bad", Email: "short@example.com", Password: "short"})
	if !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("short password: %v, want 400", err)
	}
}

func TestUserChangePassword(t *testing.T) {
	users := NewUserService(newTestStore(t), testAuthConfig())
	ctx := context.Background()
	user := seedUser(t, users, "jane@example.com", model.UserRoleCustomer)

	// 当前密码错误
	err := users.ChangePassword(ctx, user.ID, ChangePasswordInput{
		CurrentPassword: "wrong",
		Password:        "new-password",
		ConfirmPassword: "new-password",
	})
	if !apperr.IsStatus(err, http.StatusConflict) || err.Error() != "Current password is incorrect." {
		t.Errorf("wrong current password: %v", err)
	}

	// 新密码与当前密码相同
	err = users.ChangePassword(ctx, user.ID, ChangePasswordInput{
		CurrentPassword: "password-123",
		Password:        "password-123",
		ConfirmPassword: "password-123",
	})
	if !apperr.IsStatus(err, http.StatusConflict) || err.Error() != "Current password cannot be used as new password." {
		t.Errorf("password reuse: %v", err)
	}

	// 成功修改
	err = users.ChangePassword(ctx, user.ID, ChangePasswordInput{
		CurrentPassword: "password-123",
		Password:        "new-password",
		ConfirmPassword: "new-password",
	})
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	reloaded, err := users.GetByEmail(ctx, "jane@example.com")
	if err != nil || reloaded == nil {
		t.Fatalf("reload: %v", err)
	}
	if !auth.CheckPassword("new-password", reloaded.Password) {
		t.Error("new password should verify after change")
	}
}

func TestUserUpdateProfile(t *testing.T) {
	users := NewUserService(newTestStore(t), testAuthConfig())
	ctx := context.Background()
	user := seedUser(t, users, "jane@example.com", model.UserRoleCustomer)

	updated, err := users.UpdateProfile(ctx, user.ID, UpdateProfileInput{PhoneNumber: "+8613800000000"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.PhoneNumber != "+8613800000000" {
		t.Errorf("phone = %q", updated.PhoneNumber)
	}
	// 未提供的字段保持原值
	if updated.FullName != "Test User" {
		t.Errorf("full name changed unexpectedly: %q", updated.FullName)
	}
}

func TestUserToggleActiveAndDelete(t *testing.T) {
	users := NewUserService(newTestStore(t), testAuthConfig())
	ctx := context.Background()
	user := seedUser(t, users, "jane@example.com", model.UserRoleCustomer)

	toggled, err := users.ToggleActive(ctx, user.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if toggled.IsActive {
		t.Error("first toggle should deactivate")
	}

	toggled, err = users.ToggleActive(ctx, user.ID)
	if err != nil {
		t.Fatalf("second ToggleActive: %v", err)
	}
	if !toggled.IsActive {
		t.Error("second toggle should reactivate")
	}

	if err := users.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	_, err = users.GetByID(ctx, user.ID)
	if !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("after delete: %v, want 404", err)
	}
}

func TestUserGetAllFilters(t *testing.T) {
	users := NewUserService(newTestStore(t), testAuthConfig())
	ctx := context.Background()

	seedUser(t, users, "admin@example.com", model.UserRoleAdmin)
	seedUser(t, users, "alice@example.com", model.UserRoleCustomer)
	seedUser(t, users, "bob@example.com", model.UserRoleCustomer)

	page, err := users.GetAll(ctx, mongostorePage(10, 0), QueryOptions{Role: model.UserRoleCustomer})
	if err != nil {
		t.Fatalf("GetAll role filter: %v", err)
	}
	if page.Pagination.TotalItems != 2 {
		t.Errorf("customers = %d, want 2", page.Pagination.TotalItems)
	}

	// search 覆盖其它过滤条件，大小写不敏感
	page, err = users.GetAll(ctx, mongostorePage(10, 0), QueryOptions{Role: model.UserRoleAdmin, Search: "ALICE"})
	if err != nil {
		t.Fatalf("GetAll search: %v", err)
	}
	if page.Pagination.TotalItems != 1 {
		t.Errorf("search hits = %d, want 1", page.Pagination.TotalItems)
	}
	if len(page.Items) == 1 && page.Items[0].Email != "alice@example.com" {
		t.Errorf("search hit = %q", page.Items[0].Email)
	}
}
