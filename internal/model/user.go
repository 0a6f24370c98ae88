// Package model 业务实体定义
//
// 所有实体通过 bson tag 持久化到 MongoDB，通过 json tag 输出到 API。
// 密码字段 json:"-"，任何情况下不得序列化到响应。
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
)

// ValidRole 校验角色是否在枚举内
func ValidRole(r string) bool {
	switch UserRole(r) {
	case UserRoleAdmin, UserRoleCustomer:
		return true
	}
	return false
}

// User 用户
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string        `bson:"full_name" json:"full_name"`
	Email        string        `bson:"email" json:"email"`
	Password     string        `bson:"password" json:"-"` // bcrypt 哈希，禁止外泄
	IsActive     bool          `bson:"is_active" json:"is_active"`
	PhoneNumber  string        `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	ProfileImage string        `bson:"profile_image,omitempty" json:"profile_image,omitempty"`
	Role         UserRole      `bson:"role" json:"role"`
	LastLogin    *time.Time    `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}
