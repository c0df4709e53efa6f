package dto

import "time"

// FeedAnalyticsDTO 周期统计快照
type FeedAnalyticsDTO struct {
	Period         string             `json:"period"`
	TotalPosts     int                `json:"total_posts"`
	TotalLikes     int                `json:"total_likes"`
	TotalComments  int                `json:"total_comments"`
	TotalShares    int                `json:"total_shares"`
	EngagementRate float64            `json:"engagement_rate"`
	TopUsers       []*TopUserDTO      `json:"top_users"`
	CompanyStats   []*CompanyStatsDTO `json:"company_stats"`
	DailyActivity  []*DailyActivityDTO `json:"daily_activity"`
	TopPosts       []*TopPostDTO      `json:"top_posts"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// TopUserDTO 活跃作者，totalEngagement 只计点赞与评论
type TopUserDTO struct {
	UserID          uint64 `json:"user_id"`
	UserName        string `json:"user_name"`
	Posts           int    `json:"posts"`
	Likes           int    `json:"likes"`
	Comments        int    `json:"comments"`
	TotalEngagement int    `json:"total_engagement"`
}

// CompanyStatsDTO 按社区分组的统计
type CompanyStatsDTO struct {
	CompanyID      string  `json:"company_id"`
	Posts          int     `json:"posts"`
	Likes          int     `json:"likes"`
	Comments       int     `json:"comments"`
	Shares         int     `json:"shares"`
	ActiveUsers    int     `json:"active_users"`
	EngagementRate float64 `json:"engagement_rate"`
}

// DailyActivityDTO 按自然日分桶，空日保留零值
type DailyActivityDTO struct {
	Date     string `json:"date"`
	Posts    int    `json:"posts"`
	Likes    int    `json:"likes"`
	Comments int    `json:"comments"`
	Shares   int    `json:"shares"`
}

// TopPostDTO 热帖，totalEngagement 计点赞+评论+转发
type TopPostDTO struct {
	PostID          string    `json:"post_id"`
	AuthorID        uint64    `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	Preview         string    `json:"preview"`
	Likes           int       `json:"likes"`
	Comments        int       `json:"comments"`
	Shares          int       `json:"shares"`
	TotalEngagement int       `json:"total_engagement"`
	CreatedAt       time.Time `json:"created_at"`
}

// MatrixCellDTO 活跃度矩阵单元
type MatrixCellDTO struct {
	Posts        int `json:"posts"`
	Interactions int `json:"interactions"`
	Users        int `json:"users"`
}

// ActivityMatrixDTO 滚动 7 天的 7×24 活跃度矩阵
type ActivityMatrixDTO struct {
	Cells      [7][24]MatrixCellDTO `json:"cells"`
	DayTotals  [7]MatrixCellDTO     `json:"day_totals"`
	HourTotals [24]MatrixCellDTO    `json:"hour_totals"`
	Start      time.Time            `json:"start"`
	End        time.Time            `json:"end"`
}
