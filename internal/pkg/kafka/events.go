package kafka

// 事件类型常量
const (
	PostEventCreated = "created"
	PostEventDeleted = "deleted"
)

// EngagementEvent 互动事件，消费端以 $inc 方式累加计数
type EngagementEvent struct {
	PostID      string `json:"post_id"`
	ActorID     uint64 `json:"actor_id"`
	CommunityID string `json:"community_id,omitempty"`
	Action      string `json:"action"` // like / comment / share / view
	Delta       int    `json:"delta"`  // +1 或 -1
}

// PostEvent 帖子生命周期事件，驱动索引与内容审查
type PostEvent struct {
	PostID string `json:"post_id"`
	Type   string `json:"type"` // created / deleted
}
