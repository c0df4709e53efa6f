package es

import "time"

// PostES 写入 ES 的帖子文档
type PostES struct {
	ID            string    `json:"id"`
	AuthorID      uint64    `json:"author_id"`
	AuthorName    string    `json:"author_name"`
	CommunityID   string    `json:"community_id,omitempty"`
	CommunityName string    `json:"community_name,omitempty"`
	Content       string    `json:"content"`
	ContentType   string    `json:"content_type"`
	Visibility    string    `json:"visibility"`
	Hidden        bool      `json:"hidden"`
	HasReports    bool      `json:"has_reports"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	SharesCount   int64     `json:"shares_count"`
	CreatedAt     time.Time `json:"created_at"`

	Sort []interface{} `json:"-"`
}
