package mongo

import (
	"time"
)

// Comment 帖子评论子文档
type Comment struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	PostID     string    `bson:"post_id" json:"postId"`
	AuthorID   uint64    `bson:"author_id" json:"authorId"`
	AuthorName string    `bson:"author_name" json:"authorName"`
	Content    string    `bson:"content" json:"content"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// Like 帖子点赞子文档，(post_id, user_id) 唯一
type Like struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	PostID    string    `bson:"post_id" json:"postId"`
	UserID    uint64    `bson:"user_id" json:"userId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Report 帖子举报记录
type Report struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	PostID     string    `bson:"post_id" json:"postId"`
	ReporterID uint64    `bson:"reporter_id" json:"reporterId"`
	Reason     string    `bson:"reason" json:"reason"`
	Resolved   bool      `bson:"resolved,omitempty" json:"resolved"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}
