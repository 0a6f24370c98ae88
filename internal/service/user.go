package service

import (
	"context"
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"shop-admin/internal/apperr"
	"shop-admin/internal/auth"
	"shop-admin/internal/model"
	"shop-admin/internal/storage/mongostore"
)

// minPasswordLen 新密码最短长度
const minPasswordLen = 8

// UserService 用户服务
type UserService struct {
	repo *mongostore.Repo[model.User]
	cfg  auth.Config
}

// NewUserService 创建用户服务
func NewUserService(store *mongostore.Store, cfg auth.Config) *UserService {
	return &UserService{
		repo: mongostore.NewRepo[model.User](store, mongostore.ColUsers, "User"),
		cfg:  cfg,
	}
}

// CreateUserInput 创建用户输入
type CreateUserInput struct {
	FullName     string         `json:"full_name"`
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	PhoneNumber  string         `json:"phone_number"`
	ProfileImage string         `json:"profile_image"`
	Role         model.UserRole `json:"role"`
}

// UpdateProfileInput 资料更新输入，只应用提供的字段
type UpdateProfileInput struct {
	FullName     string `json:"full_name"`
	PhoneNumber  string `json:"phone_number"`
	ProfileImage string `json:"profile_image"`
}

// ChangePasswordInput 修改密码输入
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// GetAll 分页列出用户
func (s *UserService) GetAll(ctx context.Context, page mongostore.PageOptions, q QueryOptions) (*mongostore.Page[model.User], error) {
	filter := bson.D{}
	if q.Role != "" {
		filter = append(filter, bson.E{Key: "role", Value: q.Role})
	}
	if q.IsActive != nil {
		filter = append(filter, bson.E{Key: "is_active", Value: *q.IsActive})
	}
	if q.Search != "" {
		filter = searchFilter(q.Search, "full_name", "email")
	}

	return s.repo.ListPage(ctx, mongostore.FindOptions{
		Filter:    filter,
		SortBy:    q.sortBy(),
		SortOrder: q.SortOrder,
	}, page)
}

// GetByID 按 ID 获取用户，不存在时返回 NotFound
func (s *UserService) GetByID(ctx context.Context, id bson.ObjectID) (*model.User, error) {
	return s.repo.GetOrError(ctx, mongostore.FindOptions{
		Filter: bson.D{{Key: "_id", Value: id}},
	})
}

// GetByEmail 按邮箱获取用户，不存在时返回 (nil, nil)
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.repo.Get(ctx, mongostore.FindOptions{
		Filter:    bson.D{{Key: "email", Value: email}},
		Optimized: true,
	})
}

// Create 创建用户，邮箱已注册时返回 Conflict
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperr.BadRequest("Invalid email address")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.BadRequest("Password must be at least 8 characters")
	}

	existing, err := s.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("User already exists.")
	}

	hash, err := auth.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = model.UserRoleCustomer
	}
	if !model.ValidRole(string(role)) {
		return nil, apperr.BadRequest("Invalid role")
	}

	now := time.Now()
	user := &model.User{
		ID:           bson.NewObjectID(),
		FullName:     in.FullName,
		Email:        in.Email,
		Password:     hash,
		IsActive:     true,
		PhoneNumber:  in.PhoneNumber,
		ProfileImage: in.ProfileImage,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 修改密码
//
// 当前密码不匹配或新密码与当前密码相同时返回 Conflict。
func (s *UserService) ChangePassword(ctx context.Context, userID bson.ObjectID, in ChangePasswordInput) error {
	if len(in.ConfirmPassword) < minPasswordLen {
		return apperr.BadRequest("Password must be at least 8 characters")
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(in.CurrentPassword, user.Password) {
		return apperr.Conflict("Current password is incorrect.")
	}
	if auth.CheckPassword(in.ConfirmPassword, user.Password) {
		return apperr.Conflict("Current password cannot be used as new password.")
	}

	hash, err := auth.HashPassword(in.ConfirmPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	return s.repo.UpdateFields(ctx, user.ID, bson.D{
		{Key: "password", Value: hash},
		{Key: "updated_at", Value: time.Now()},
	})
}

// UpdateProfile 更新资料，只应用提供的字段，其余保持不变
func (s *UserService) UpdateProfile(ctx context.Context, userID bson.ObjectID, in UpdateProfileInput) (*model.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.PhoneNumber != "" {
		user.PhoneNumber = in.PhoneNumber
	}
	if in.ProfileImage != "" {
		user.ProfileImage = in.ProfileImage
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, user.ID, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount 删除账户
func (s *UserService) DeleteAccount(ctx context.Context, userID bson.ObjectID) error {
	_, err := s.repo.Delete(ctx, bson.D{{Key: "_id", Value: userID}})
	return err
}

// ToggleActive 翻转激活状态并持久化
func (s *UserService) ToggleActive(ctx context.Context, userID bson.ObjectID) (*model.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.IsActive = !user.IsActive
	user.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, user.ID, user); err != nil {
		return nil, err
	}
	return user, nil
}
