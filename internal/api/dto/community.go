package dto

// CommunitySettingsDTO 社区开关
type CommunitySettingsDTO struct {
	AllowInvites      bool `json:"allow_invites"`
	RequireApproval   bool `json:"require_approval"`
	AllowMemberPosts  bool `json:"allow_member_posts"`
	AllowMemberEvents bool `json:"allow_member_events"`
}

// CommunityCreateDTO 创建社区
type CommunityCreateDTO struct {
	Name        string                `json:"name" binding:"required,min=1,max=100"`
	Description string                `json:"description" binding:"max=500"`
	Category    string                `json:"category" binding:"max=50"`
	IsPrivate   bool                  `json:"is_private"`
	Settings    *CommunitySettingsDTO `json:"settings,omitempty"`
}

// CommunityUpdateDTO 更新社区资料与开关
type CommunityUpdateDTO struct {
	Description *string               `json:"description,omitempty" validate:"omitempty,max=500"`
	Category    *string               `json:"category,omitempty" validate:"omitempty,max=50"`
	IsPrivate   *bool                 `json:"is_private,omitempty"`
	Settings    *CommunitySettingsDTO `json:"settings,omitempty"`
}

// MemberActionDTO 审批/封禁等成员操作
type MemberActionDTO struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

// MemberRoleDTO 显式升降级
type MemberRoleDTO struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=admin moderator member"`
}
