package consts

const (
	UserSimpleInfoKey    = "user:simple:info:"
	FeedAnalyticsKey     = "analytics:feed:"    // + period
	ActivityMatrixKey    = "analytics:matrix:"  // + communityID ("global" 为空)
	AlertChannelKey      = "alert:channel"      // pubsub 预警推送
	FeedChannelKey       = "feed:channel:"      // + communityID，pubsub 新帖推送
	PostLikeKey          = "post:like:"
	PostCommentKey       = "post:comment:"
	PostShareKey         = "post:share:"
	PostViewKey          = "post:view:"
	CommunityMemberKey   = "community:member:count:"
	AlertGenerationLock  = "lock:alert:generation"
	AnalyticsRefreshLock = "lock:analytics:refresh"
)
