package consts

const (
	DefaultAvatarURL = "default_avatar.png"
)

// Post 内容类型
const (
	PostTypeText         = "text"
	PostTypeImage        = "image"
	PostTypeLink         = "link"
	PostTypeAnnouncement = "announcement"
)

// Post 可见范围
const (
	VisibilityPublic    = "public"
	VisibilityCommunity = "community"
)

// 社区成员角色
const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

// 社区成员状态
const (
	MemberStatusActive  = "active"
	MemberStatusPending = "pending"
	MemberStatusBanned  = "banned"
)

// 统计周期
const (
	PeriodDaily   = "daily"
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
)

// 互动事件类型（Kafka engagement topic）
const (
	EngagementLike    = "like"
	EngagementComment = "comment"
	EngagementShare   = "share"
	EngagementView    = "view"
)

// 审查执行者：系统自动隐藏
const ModeratorSystem = "system"

// 全站角色
const (
	AppRoleUser  = "user"
	AppRoleAdmin = "admin"
)

// roles 表内置 ID
const (
	AppRoleUserID  uint64 = 1
	AppRoleAdminID uint64 = 2
)
