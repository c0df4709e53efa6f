package mongo

import (
	"Mundero/internal/pkg/consts"
	"time"
)

// Engagement 帖子互动计数。
// 计数是运行累计值（由 Kafka 消费者按事件增减），不由子文档重算，
// 局部写入失败时允许与真实子记录数漂移。
type Engagement struct {
	Likes    int `bson:"likes" json:"likes"`
	Comments int `bson:"comments" json:"comments"`
	Shares   int `bson:"shares" json:"shares"`
	Views    int `bson:"views" json:"views"`
}

// LinkPreview 帖子首个链接的 og 元信息摘要
type LinkPreview struct {
	URL         string `bson:"url" json:"url"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description,omitempty" json:"description"`
	ImageURL    string `bson:"image_url,omitempty" json:"imageUrl"`
}

// Post MongoDB 帖子文档
type Post struct {
	ID            string       `bson:"_id,omitempty" json:"id"`
	AuthorID      uint64       `bson:"author_id" json:"authorId"`
	AuthorName    string       `bson:"author_name" json:"authorName"`
	CommunityID   string       `bson:"community_id,omitempty" json:"communityId"` // 为空表示无社区归属
	CommunityName string       `bson:"community_name,omitempty" json:"communityName"`
	Content       string       `bson:"content" json:"content"`
	ContentType   string       `bson:"content_type" json:"contentType"`
	Visibility    string       `bson:"visibility" json:"visibility"`
	MediaURLs     []string     `bson:"media_urls,omitempty" json:"mediaUrls"`
	LinkPreview   *LinkPreview `bson:"link_preview,omitempty" json:"linkPreview,omitempty"`
	Engagement    Engagement   `bson:"engagement" json:"engagement"`

	// 审查字段，仅由管理员或系统审查流程写入。
	// hidden 取反表示 isVisible，历史文档缺省即可见。
	Hidden           bool      `bson:"hidden,omitempty" json:"hidden"`
	HasReports       bool      `bson:"has_reports,omitempty" json:"hasReports"`
	ModeratedBy      string    `bson:"moderated_by,omitempty" json:"moderatedBy"`
	ModerationReason string    `bson:"moderation_reason,omitempty" json:"moderationReason"`
	ModeratedAt      time.Time `bson:"moderated_at,omitempty" json:"moderatedAt"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// normalizePost 文档边界的缺省值补全。
// 历史文档可能缺少类型与可见范围字段，业务层一律拿到补全后的结构。
func normalizePost(p *Post) *Post {
	if p == nil {
		return nil
	}
	if p.ContentType == "" {
		p.ContentType = consts.PostTypeText
	}
	if p.Visibility == "" {
		p.Visibility = consts.VisibilityPublic
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return p
}
