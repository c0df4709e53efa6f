package mongo

import (
	"Mundero/internal/pkg/consts"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionsForRole(t *testing.T) {
	open := CommunitySettings{AllowInvites: true, AllowMemberPosts: true}
	locked := CommunitySettings{AllowInvites: false, AllowMemberPosts: false}

	// owner 与 admin 拿全量权限，不受社区开关影响
	for _, role := range []string{consts.RoleOwner, consts.RoleAdmin} {
		perms := PermissionsForRole(role, locked)
		assert.True(t, perms.CanPost, role)
		assert.True(t, perms.CanComment, role)
		assert.True(t, perms.CanInvite, role)
		assert.True(t, perms.CanModerate, role)
	}

	// moderator 可审核，邀请权跟随开关
	mod := PermissionsForRole(consts.RoleModerator, open)
	assert.True(t, mod.CanModerate)
	assert.True(t, mod.CanInvite)
	mod = PermissionsForRole(consts.RoleModerator, locked)
	assert.True(t, mod.CanPost)
	assert.False(t, mod.CanInvite)

	// member 发帖与邀请权跟随开关，评论始终允许
	member := PermissionsForRole(consts.RoleMember, open)
	assert.True(t, member.CanPost)
	assert.True(t, member.CanComment)
	assert.True(t, member.CanInvite)
	assert.False(t, member.CanModerate)

	member = PermissionsForRole(consts.RoleMember, locked)
	assert.False(t, member.CanPost)
	assert.True(t, member.CanComment)
	assert.False(t, member.CanInvite)

	// 未知角色按 member 处理
	unknown := PermissionsForRole("something-else", open)
	assert.Equal(t, PermissionsForRole(consts.RoleMember, open), unknown)
}
