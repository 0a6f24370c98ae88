package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"shop-admin/internal/apperr"
	"shop-admin/internal/auth"
	"shop-admin/internal/model"
)

func newAuthFixture(t *testing.T) (*AuthService, *UserService) {
	store := newTestStore(t)
	cfg := testAuthConfig()
	users := NewUserService(store, cfg)
	return NewAuthService(store, users, cfg), users
}

func TestValidateUser(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()
	seedUser(t, users, "jane@example.com", model.UserRoleCustomer)

	t.Run("unknown email", func(t *testing.T) {
		user, err := svc.ValidateUser(ctx, "nobody@example.com", "password-123")
		if err != nil || user != nil {
			t.Errorf("got (%+v, %v), want (nil, nil)", user, err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		user, err := svc.ValidateUser(ctx, "jane@example.com", "wrong")
		if err != nil || user != nil {
			t.Errorf("got (%+v, %v), want (nil, nil)", user, err)
		}
	})

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.ValidateUser(ctx, "jane@example.com", "password-123")
		if err != nil {
			t.Fatalf("ValidateUser: %v", err)
		}
		if user == nil {
			t.Fatal("expected a user")
		}
		if user.Password != "" {
			t.Error("returned user must not carry the password hash")
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		inactive := seedUser(t, users, "off@example.com", model.UserRoleCustomer)
		if _, err := users.ToggleActive(ctx, inactive.ID); err != nil {
			t.Fatalf("ToggleActive: %v", err)
		}

		_, err := svc.ValidateUser(ctx, "off@example.com", "password-123")
		if !apperr.IsStatus(err, http.StatusUnauthorized) {
			t.Errorf("inactive account: %v, want 401", err)
		}
	})
}

func TestLogin(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()
	user := seedUser(t, users, "jane@example.com", model.UserRoleAdmin)

	result, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "password-123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.AccessToken == "" {
		t.Fatal("expected an access token")
	}

	claims, err := auth.ParseToken(testAuthConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != user.ID.Hex() {
		t.Errorf("subject = %q, want %q", claims.Subject, user.ID.Hex())
	}
	if claims.Role != model.UserRoleAdmin {
		t.Errorf("role = %q", claims.Role)
	}

	// 凭证无效统一 401，不区分原因
	_, err = svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "wrong"})
	if !apperr.IsStatus(err, http.StatusUnauthorized) || err.Error() != "Invalid credentials" {
		t.Errorf("bad password: %v", err)
	}
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "password-123"})
	if !apperr.IsStatus(err, http.StatusUnauthorized) || err.Error() != "Invalid credentials" {
		t.Errorf("unknown email: %v", err)
	}
}

func TestForgotPassword(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()
	seedUser(t, users, "jane@example.com", model.UserRoleCustomer)

	if _, err := svc.ForgotPassword(ctx, "jane@example.com"); err != nil {
		t.Errorf("ForgotPassword: %v", err)
	}

	_, err := svc.ForgotPassword(ctx, "nobody@example.com")
	if !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("unknown email: %v, want 404", err)
	}
	if err.Error() != "User with email 'nobody@example.com' does not exist." {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestResetPassword(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()
	cfg := testAuthConfig()
	seedUser(t, users, "jane@example.com", model.UserRoleCustomer)

	otp, err := auth.GenerateOTP(cfg.TOTPSecret, time.Now())
	if err != nil {
		t.Fatalf("GenerateOTP: %v", err)
	}

	// 验证码错误
	_, err = svc.ResetPassword(ctx, ResetPasswordInput{
		Email: "jane@example.com", OTP: "000000",
		Password: "fresh-password", ConfirmPassword: "fresh-password",
	})
	if !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("bad OTP: %v, want 400", err)
	}

	// 新密码与当前密码相同
	_, err = svc.ResetPassword(ctx, ResetPasswordInput{
		Email: "jane@example.com", OTP: otp,
		Password: "password-123", ConfirmPassword: "password-123",
	})
	if !apperr.IsStatus(err, http.StatusConflict) {
		t.Errorf("password reuse: %v, want 409", err)
	}

	// 成功重置
	user, err := svc.ResetPassword(ctx, ResetPasswordInput{
		Email: "jane@example.com", OTP: otp,
		Password: "fresh-password", ConfirmPassword: "fresh-password",
	})
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if user.Password != "" {
		t.Error("returned user must not carry the password hash")
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "fresh-password"}); err != nil {
		t.Errorf("login with new password: %v", err)
	}

	// 未注册邮箱
	_, err = svc.ResetPassword(ctx, ResetPasswordInput{
		Email: "nobody@example.com", OTP: otp,
		Password: "fresh-password", ConfirmPassword: "fresh-password",
	})
	if !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("unknown email: %v, want 404", err)
	}
}
