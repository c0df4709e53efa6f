package kafka

import (
	"Mundero/internal/pkg/consts"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionTarget(t *testing.T) {
	field, key := actionTarget(consts.EngagementLike)
	assert.Equal(t, "likes", field)
	assert.Equal(t, consts.PostLikeKey, key)

	field, key = actionTarget(consts.EngagementComment)
	assert.Equal(t, "comments", field)
	assert.Equal(t, consts.PostCommentKey, key)

	field, key = actionTarget(consts.EngagementShare)
	assert.Equal(t, "shares", field)
	assert.Equal(t, consts.PostShareKey, key)

	field, key = actionTarget(consts.EngagementView)
	assert.Equal(t, "views", field)
	assert.Equal(t, consts.PostViewKey, key)

	field, key = actionTarget("bookmark")
	assert.Empty(t, field)
	assert.Empty(t, key)
}

func TestCommunityStatsField(t *testing.T) {
	assert.Equal(t, "total_likes", communityStatsField(consts.EngagementLike))
	assert.Equal(t, "total_comments", communityStatsField(consts.EngagementComment))
	// 转发与浏览不计入社区累计
	assert.Empty(t, communityStatsField(consts.EngagementShare))
	assert.Empty(t, communityStatsField(consts.EngagementView))
}
