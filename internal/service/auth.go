package service

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"shop-admin/internal/apperr"
	"shop-admin/internal/auth"
	"shop-admin/internal/model"
	"shop-admin/internal/storage/mongostore"
)

// AuthService 认证服务：凭证校验、登录签发令牌、密码找回/重置
type AuthService struct {
	repo  *mongostore.Repo[model.User]
	users *UserService
	cfg   auth.Config
}

// NewAuthService 创建认证服务
func NewAuthService(store *mongostore.Store, users *UserService, cfg auth.Config) *AuthService {
	return &AuthService{
		repo:  mongostore.NewRepo[model.User](store, mongostore.ColUsers, "User"),
		users: users,
		cfg:   cfg,
	}
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordInput 密码重置输入
type ResetPasswordInput struct {
	Email           string `json:"email"`
	OTP             string `json:"otp"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// LoginResult 登录结果
type LoginResult struct {
	User        *model.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

// ValidateUser 校验凭证
//
// 密码错误或用户不存在时返回 (nil, nil)；密码正确但账户未激活时
// 返回 Unauthorized。命中时返回脱敏后的用户（密码字段清空）。
func (s *AuthService) ValidateUser(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.Get(ctx, mongostore.FindOptions{
		Filter:    bson.D{{Key: "email", Value: email}},
		Optimized: true,
	})
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.Password) {
		return nil, nil
	}

	if !user.IsActive {
		return nil, apperr.Unauthorized("Your account is currently not active, contact support for assistance.")
	}

	sanitized := *user
	sanitized.Password = ""
	return &sanitized, nil
}

// Login 登录
//
// 凭证无效时返回 Unauthorized；成功时签发访问令牌
// （载荷 {id, email, is_active, role}）并异步写入最近登录时间。
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	user, err := s.ValidateUser(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	accessToken, err := auth.GenerateAccessToken(s.cfg, user)
	if err != nil {
		return nil, err
	}

	// 最近登录时间不阻塞登录响应
	go s.stampLastLogin(user.ID)

	return &LoginResult{User: user, AccessToken: accessToken}, nil
}

// stampLastLogin 写入最近登录时间
func (s *AuthService) stampLastLogin(userID bson.ObjectID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.repo.UpdateFields(ctx, userID, bson.D{{Key: "last_login", Value: time.Now()}})
	if err != nil {
		log.Printf("[auth] stamp last login for %s failed: %v", userID.Hex(), err)
	}
}

// ForgotPassword 签发限时一次性验证码
//
// 邮箱未注册时返回 NotFound。验证码的外部投递（邮件队列）
// 未实现，目前只签发。
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User with email '%s' does not exist.", email)
	}

	code, err := auth.GenerateOTP(s.cfg.TOTPSecret, time.Now())
	if err != nil {
		return nil, err
	}
	s.deliverResetCode(user, code)

	return user, nil
}

// deliverResetCode 投递验证码，邮件队列未实现
func (s *AuthService) deliverResetCode(user *model.User, code string) {
	// TODO: 接入邮件队列后把验证码发给 user.Email
	log.Printf("[auth] reset code issued for %s (delivery not implemented)", user.Email)
}

// ResetPassword 重置密码
//
// 验证码在配置窗口内校验失败返回 BadRequest；新密码与当前密码
// 相同返回 Conflict；成功时持久化新密码哈希并返回用户。
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) (*model.User, error) {
	user, err := s.repo.GetOrError(ctx, mongostore.FindOptions{
		Filter:    bson.D{{Key: "email", Value: in.Email}},
		Optimized: true,
	})
	if err != nil {
		return nil, err
	}

	if !auth.VerifyOTP(s.cfg.TOTPSecret, in.OTP, time.Now(), s.cfg.TOTPWindow) {
		return nil, apperr.BadRequest("Invalid OTP")
	}

	if len(in.ConfirmPassword) < minPasswordLen {
		return nil, apperr.BadRequest("Password must be at least 8 characters")
	}
	if auth.CheckPassword(in.ConfirmPassword, user.Password) {
		return nil, apperr.Conflict("Current password cannot be used as new password.")
	}

	hash, err := auth.HashPassword(in.ConfirmPassword, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	err = s.repo.UpdateFields(ctx, user.ID, bson.D{
		{Key: "password", Value: hash},
		{Key: "updated_at", Value: time.Now()},
	})
	if err != nil {
		return nil, err
	}

	sanitized := *user
	sanitized.Password = ""
	return &sanitized, nil
}
