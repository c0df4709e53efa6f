package service

import (
	"Mundero/internal/pkg/mongo"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePost(id string, authorID uint64, authorName, communityID string, likes, comments, shares int, createdAt time.Time) *mongo.Post {
	return &mongo.Post{
		ID:          id,
		AuthorID:    authorID,
		AuthorName:  authorName,
		CommunityID: communityID,
		Content:     "content of " + id,
		Engagement: mongo.Engagement{
			Likes:    likes,
			Comments: comments,
			Shares:   shares,
		},
		CreatedAt: createdAt,
	}
}

func TestEngagementRate(t *testing.T) {
	assert.Equal(t, 0.0, engagementRate(10, 5, 3, 0), "零帖定义为 0，不是 NaN")
	assert.Equal(t, 6.0, engagementRate(10, 5, 3, 3))
	// (10+7+5)/3 = 7.333... 四舍五入到两位
	assert.Equal(t, 7.33, engagementRate(10, 7, 5, 3))
	assert.Equal(t, 0.0, engagementRate(0, 0, 0, 10))
}

func TestTopNStableAndIdempotent(t *testing.T) {
	items := []int{3, 1, 4, 1, 5, 9, 2, 6}
	key := func(v int) float64 { return float64(v) }

	first := topN(items, 3, key)
	second := topN(items, 3, key)
	assert.Equal(t, []int{9, 6, 5}, first)
	assert.Equal(t, first, second)
	// 原切片不被排序副作用污染
	assert.Equal(t, []int{3, 1, 4, 1, 5, 9, 2, 6}, items)

	// 同分保持输入顺序
	type pair struct {
		name  string
		score float64
	}
	pairs := []pair{{"a", 2}, {"b", 2}, {"c", 5}, {"d", 2}}
	got := topN(pairs, 4, func(p pair) float64 { return p.score })
	assert.Equal(t, []pair{{"c", 5}, {"a", 2}, {"b", 2}, {"d", 2}}, got)

	// limit 超长时整体返回
	assert.Len(t, topN(items, 100, key), len(items))
}

func TestGetTopUsersExcludesShares(t *testing.T) {
	svc := &AnalyticsServiceImpl{}
	now := time.Now()

	// A: likes 6 + comments 5 = 11，shares 不计
	// B: likes 10 + comments 0 = 10，shares 100 也不能翻盘
	records := []*mongo.Post{
		makePost("p1", 1, "alice", "", 4, 3, 0, now),
		makePost("p2", 1, "alice", "", 2, 2, 0, now),
		makePost("p3", 2, "bob", "", 10, 0, 100, now),
	}

	users := svc.GetTopUsers(records, 10)
	require.Len(t, users, 2)

	assert.Equal(t, uint64(1), users[0].UserID)
	assert.Equal(t, 11, users[0].TotalEngagement)
	assert.Equal(t, 2, users[0].Posts)

	assert.Equal(t, uint64(2), users[1].UserID)
	assert.Equal(t, 10, users[1].TotalEngagement)

	// 各作者帖数之和等于总记录数
	total := 0
	for _, u := range users {
		total += u.Posts
	}
	assert.Equal(t, len(records), total)
}

func TestGetTopUsersLimit(t *testing.T) {
	svc := &AnalyticsServiceImpl{}
	now := time.Now()
	records := make([]*mongo.Post, 0, 15)
	for i := 0; i < 15; i++ {
		records = append(records, makePost("p", uint64(i+1), "u", "", i, 0, 0, now))
	}

	users := svc.GetTopUsers(records, 5)
	assert.Len(t, users, 5)
	assert.Equal(t, 14, users[0].TotalEngagement)
}

func TestGetCompanyInsights(t *testing.T) {
	svc := &AnalyticsServiceImpl{}
	now := time.Now()

	records := []*mongo.Post{
		makePost("p1", 1, "alice", "c1", 4, 2, 0, now),
		makePost("p2", 2, "bob", "c1", 2, 0, 0, now),
		makePost("p3", 1, "alice", "c2", 20, 10, 0, now),
		// 无社区归属，整体排除
		makePost("p4", 3, "carol", "", 100, 100, 100, now),
	}

	stats := svc.GetCompanyInsights(records)
	require.Len(t, stats, 2)

	// c2 互动率 30，排在 c1 (8/2=4) 之前
	assert.Equal(t, "c2", stats[0].CompanyID)
	assert.Equal(t, 30.0, stats[0].EngagementRate)
	assert.Equal(t, 1, stats[0].ActiveUsers)

	assert.Equal(t, "c1", stats[1].CompanyID)
	assert.Equal(t, 4.0, stats[1].EngagementRate)
	assert.Equal(t, 2, stats[1].ActiveUsers)
	assert.Equal(t, 2, stats[1].Posts)
}

func TestGetDailyActivityZeroFilled(t *testing.T) {
	svc := &AnalyticsServiceImpl{}
	end := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -7)

	records := []*mongo.Post{
		makePost("p1", 1, "alice", "", 3, 1, 0, start.AddDate(0, 0, 1)),
		makePost("p2", 2, "bob", "", 1, 0, 2, start.AddDate(0, 0, 1)),
		// 窗口之外的记录落不进任何桶
		makePost("p3", 3, "carol", "", 9, 9, 9, end.AddDate(0, 0, 3)),
	}

	buckets := svc.GetDailyActivity(records, start, end)
	// [start, end] 含头含尾
	require.Len(t, buckets, 8)

	assert.Equal(t, start.Format("2006-01-02"), buckets[0].Date)
	assert.Equal(t, end.Format("2006-01-02"), buckets[7].Date)

	assert.Equal(t, 2, buckets[1].Posts)
	assert.Equal(t, 4, buckets[1].Likes)
	assert.Equal(t, 1, buckets[1].Comments)
	assert.Equal(t, 2, buckets[1].Shares)

	for i, bucket := range buckets {
		if i == 1 {
			continue
		}
		assert.Zero(t, bucket.Posts, "空日保留零值桶: %s", bucket.Date)
	}
}

func TestGetTopPostsPreviewTruncated(t *testing.T) {
	svc := &AnalyticsServiceImpl{}
	now := time.Now()

	long := makePost("p1", 1, "alice", "", 5, 5, 5, now)
	long.Content = strings.Repeat("字", 150)
	short := makePost("p2", 2, "bob", "", 1, 1, 1, now)
	short.Content = "短内容"

	posts := svc.GetTopPosts([]*mongo.Post{long, short}, 10)
	require.Len(t, posts, 2)

	// 热帖口径计转发
	assert.Equal(t, "p1", posts[0].PostID)
	assert.Equal(t, 15, posts[0].TotalEngagement)

	preview := []rune(posts[0].Preview)
	assert.Len(t, preview, 103)
	assert.True(t, strings.HasSuffix(posts[0].Preview, "..."))

	assert.Equal(t, "短内容", posts[1].Preview)
}

func TestResolveTimeRange(t *testing.T) {
	svc := &AnalyticsServiceImpl{}

	start, end, err := svc.ResolveTimeRange("weekly")
	require.NoError(t, err)
	assert.InDelta(t, 7*24.0, end.Sub(start).Hours(), 0.01)

	start, end, err = svc.ResolveTimeRange("daily")
	require.NoError(t, err)
	assert.InDelta(t, 24.0, end.Sub(start).Hours(), 0.01)

	start, end, err = svc.ResolveTimeRange("monthly")
	require.NoError(t, err)
	assert.InDelta(t, 30*24.0, end.Sub(start).Hours(), 0.01)

	_, _, err = svc.ResolveTimeRange("quarterly")
	assert.ErrorIs(t, err, ErrPeriodInvalid)
}
