package mongo

import (
	"Mundero/internal/pkg/consts"
	"time"
)

// CommunitySettings 社区行为开关
type CommunitySettings struct {
	AllowInvites      bool `bson:"allow_invites" json:"allowInvites"`
	RequireApproval   bool `bson:"require_approval" json:"requireApproval"`
	AllowMemberPosts  bool `bson:"allow_member_posts" json:"allowMemberPosts"`
	AllowMemberEvents bool `bson:"allow_member_events" json:"allowMemberEvents"`
}

// CommunityStats 社区累计统计，运行累计值
type CommunityStats struct {
	TotalPosts    int `bson:"total_posts" json:"totalPosts"`
	TotalComments int `bson:"total_comments" json:"totalComments"`
	TotalLikes    int `bson:"total_likes" json:"totalLikes"`
	ActiveMembers int `bson:"active_members" json:"activeMembers"`
}

// Community 社区文档。OwnerID 唯一，由应用层保证。
type Community struct {
	ID          string            `bson:"_id,omitempty" json:"id"`
	Name        string            `bson:"name" json:"name"`
	Description string            `bson:"description" json:"description"`
	Category    string            `bson:"category" json:"category"`
	IsPrivate   bool              `bson:"is_private" json:"isPrivate"`
	OwnerID     uint64            `bson:"owner_id" json:"ownerId"`
	AdminIDs    []uint64          `bson:"admin_ids,omitempty" json:"adminIds"`
	MemberCount int               `bson:"member_count" json:"memberCount"`
	PostCount   int               `bson:"post_count" json:"postCount"`
	Settings    CommunitySettings `bson:"settings" json:"settings"`
	Stats       CommunityStats    `bson:"stats" json:"stats"`
	CreatedAt   time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updatedAt"`
}

// MemberPermissions 成员权限包，入会时按角色确定，
// 仅在显式升降级时重算，角色变动之外不自动派生。
type MemberPermissions struct {
	CanPost     bool `bson:"can_post" json:"canPost"`
	CanComment  bool `bson:"can_comment" json:"canComment"`
	CanInvite   bool `bson:"can_invite" json:"canInvite"`
	CanModerate bool `bson:"can_moderate" json:"canModerate"`
}

// Membership 社区成员关系，(community_id, user_id) 唯一
type Membership struct {
	ID          string            `bson:"_id,omitempty" json:"id"`
	CommunityID string            `bson:"community_id" json:"communityId"`
	UserID      uint64            `bson:"user_id" json:"userId"`
	Role        string            `bson:"role" json:"role"`
	Status      string            `bson:"status" json:"status"`
	Permissions MemberPermissions `bson:"permissions" json:"permissions"`
	JoinedAt    time.Time         `bson:"joined_at" json:"joinedAt"`
	UpdatedAt   time.Time         `bson:"updated_at" json:"updatedAt"`
}

// PermissionsForRole 角色到权限包的映射
func PermissionsForRole(role string, settings CommunitySettings) MemberPermissions {
	switch role {
	case consts.RoleOwner, consts.RoleAdmin:
		return MemberPermissions{CanPost: true, CanComment: true, CanInvite: true, CanModerate: true}
	case consts.RoleModerator:
		return MemberPermissions{CanPost: true, CanComment: true, CanInvite: settings.AllowInvites, CanModerate: true}
	default:
		return MemberPermissions{
			CanPost:    settings.AllowMemberPosts,
			CanComment: true,
			CanInvite:  settings.AllowInvites,
		}
	}
}
