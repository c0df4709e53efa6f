package dto

// CreatePostDTO 发帖请求
type CreatePostDTO struct {
	Content     string   `json:"content" binding:"required,min=1,max=5000"`
	ContentType string   `json:"content_type" binding:"omitempty,oneof=text image link announcement"`
	Visibility  string   `json:"visibility" binding:"omitempty,oneof=public community"`
	CommunityID string   `json:"community_id,omitempty"`
	MediaURLs   []string `json:"media_urls,omitempty" validate:"max=9"`
}

// UpdatePostDTO 编辑请求，仅作者可用
type UpdatePostDTO struct {
	Content string `json:"content" binding:"required,min=1,max=5000"`
}

// CommentCreateDTO 创建评论请求
type CommentCreateDTO struct {
	Content string `json:"content" binding:"required,max=1000"`
}

// SearchPostsQuery 搜索参数
type SearchPostsQuery struct {
	Keyword     string `form:"keyword" binding:"required,min=1"`
	CommunityID string `form:"community_id"`
	Page        int    `form:"page,default=1" binding:"min=1"`
	PageSize    int    `form:"page_size,default=20" binding:"min=1,max=100"`
}
