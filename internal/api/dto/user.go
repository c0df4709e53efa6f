package dto

import "time"

// RegisterDTO 注册
type RegisterDTO struct {
	Email       string  `json:"email" binding:"required,email"`
	Username    string  `json:"username" binding:"required,min=3,max=20"`
	Password    string  `json:"password" binding:"required,min=6,max=64"`
	DisplayName string  `json:"display_name" binding:"required,min=1,max=50"`
	Bio         *string `json:"bio,omitempty"`
}

// CredentialDTO 登录
type CredentialDTO struct {
	// 邮箱或用户名二选一
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	Password string  `json:"password" binding:"required"`
}

// TokenDTO 登录成功响应
type TokenDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserDTO 用户
type UserDTO struct {
	UserID      uint64     `json:"user_id"`
	Email       *string    `json:"email,omitempty"`
	Username    *string    `json:"username,omitempty"`
	DisplayName string     `json:"display_name"`
	AvatarURL   string     `json:"avatar_url"`
	Bio         *string    `json:"bio,omitempty"`
	Roles       []string   `json:"roles,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// UpdateProfileDTO 资料更新，字段为空表示不修改
type UpdateProfileDTO struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=1,max=50"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=200"`
}

// BanUserDTO 封禁/解封
type BanUserDTO struct {
	UserID uint64 `json:"user_id" binding:"required"`
	IsBan  bool   `json:"is_ban"`
}
