package service

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/mongo"
	"Mundero/internal/pkg/redis"
	"Mundero/internal/pkg/util"
	"context"
	log "log/slog"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTopN        = 10
	analyticsCacheTTL  = 10 * time.Minute
	activityWindowDays = 7
)

type AnalyticsService interface {
	// ResolveTimeRange 把统计周期换算为 [start, end]，end 固定为当前时刻
	ResolveTimeRange(period string) (time.Time, time.Time, error)
	// FetchPostsInWindow 查询失败时记日志并返回空集，与无数据不可区分
	FetchPostsInWindow(ctx context.Context, start, end time.Time, communityID string) []*mongo.Post
	GetFeedAnalytics(ctx context.Context, period string) (*dto.FeedAnalyticsDTO, error)
	// RefreshFeedAnalytics 实算并回写缓存，由定时任务驱动
	RefreshFeedAnalytics(ctx context.Context, period string) (*dto.FeedAnalyticsDTO, error)
	GetTopUsers(records []*mongo.Post, limit int) []*dto.TopUserDTO
	GetCompanyInsights(records []*mongo.Post) []*dto.CompanyStatsDTO
	GetDailyActivity(records []*mongo.Post, start, end time.Time) []*dto.DailyActivityDTO
	GetTopPosts(records []*mongo.Post, limit int) []*dto.TopPostDTO
}

type AnalyticsServiceImpl struct {
	postRepo mongo.PostRepo
}

func NewAnalyticsService(postRepo mongo.PostRepo) AnalyticsService {
	return &AnalyticsServiceImpl{postRepo: postRepo}
}

func (s *AnalyticsServiceImpl) ResolveTimeRange(period string) (time.Time, time.Time, error) {
	end := time.Now()
	switch period {
	case consts.PeriodDaily:
		return end.AddDate(0, 0, -1), end, nil
	case consts.PeriodWeekly:
		return end.AddDate(0, 0, -7), end, nil
	case consts.PeriodMonthly:
		return end.AddDate(0, 0, -30), end, nil
	default:
		return time.Time{}, time.Time{}, ErrPeriodInvalid
	}
}

func (s *AnalyticsServiceImpl) FetchPostsInWindow(ctx context.Context, start, end time.Time, communityID string) []*mongo.Post {
	records, err := s.postRepo.FindInWindow(ctx, start, end, communityID)
	if err != nil {
		log.ErrorContext(ctx, "fetch posts in window failed", "start", start, "end", end, "err", err)
		return []*mongo.Post{}
	}
	return records
}

// GetFeedAnalytics 优先读缓存，未命中时实算并回写
func (s *AnalyticsServiceImpl) GetFeedAnalytics(ctx context.Context, period string) (*dto.FeedAnalyticsDTO, error) {
	key := consts.FeedAnalyticsKey + period
	value, err := redis.GetValue(ctx, key)
	if err == nil && value != "" {
		var cached dto.FeedAnalyticsDTO
		if err = json.Unmarshal([]byte(value), &cached); err == nil {
			return &cached, nil
		}
	}
	return s.RefreshFeedAnalytics(ctx, period)
}

func (s *AnalyticsServiceImpl) RefreshFeedAnalytics(ctx context.Context, period string) (*dto.FeedAnalyticsDTO, error) {
	start, end, err := s.ResolveTimeRange(period)
	if err != nil {
		return nil, err
	}

	records := s.FetchPostsInWindow(ctx, start, end, "")

	totalLikes, totalComments, totalShares := 0, 0, 0
	for _, record := range records {
		totalLikes += record.Engagement.Likes
		totalComments += record.Engagement.Comments
		totalShares += record.Engagement.Shares
	}

	result := &dto.FeedAnalyticsDTO{
		Period:         period,
		TotalPosts:     len(records),
		TotalLikes:     totalLikes,
		TotalComments:  totalComments,
		TotalShares:    totalShares,
		EngagementRate: engagementRate(totalLikes, totalComments, totalShares, len(records)),
		GeneratedAt:    end,
	}

	// 四个子聚合只读同一份记录，无共享可变状态，可放心并发
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.TopUsers = s.GetTopUsers(records, defaultTopN)
		return nil
	})
	g.Go(func() error {
		result.CompanyStats = s.GetCompanyInsights(records)
		return nil
	})
	g.Go(func() error {
		result.DailyActivity = s.GetDailyActivity(records, start, end)
		return nil
	})
	g.Go(func() error {
		result.TopPosts = s.GetTopPosts(records, defaultTopN)
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}

	s.cacheSnapshot(ctx, period, result)
	return result, nil
}

// GetTopUsers 按作者聚合。totalEngagement 只计点赞与评论，
// 转发计入全局总量但不计入作者榜，两者口径不同且保持不同。
func (s *AnalyticsServiceImpl) GetTopUsers(records []*mongo.Post, limit int) []*dto.TopUserDTO {
	if limit <= 0 {
		limit = defaultTopN
	}

	byAuthor := make(map[uint64]*dto.TopUserDTO)
	order := make([]uint64, 0)
	for _, record := range records {
		entry, ok := byAuthor[record.AuthorID]
		if !ok {
			entry = &dto.TopUserDTO{
				UserID:   record.AuthorID,
				UserName: record.AuthorName,
			}
			byAuthor[record.AuthorID] = entry
			order = append(order, record.AuthorID)
		}
		entry.Posts++
		entry.Likes += record.Engagement.Likes
		entry.Comments += record.Engagement.Comments
	}

	users := make([]*dto.TopUserDTO, 0, len(order))
	for _, authorID := range order {
		entry := byAuthor[authorID]
		entry.TotalEngagement = entry.Likes + entry.Comments
		users = append(users, entry)
	}

	return topN(users, limit, func(u *dto.TopUserDTO) float64 {
		return float64(u.TotalEngagement)
	})
}

// GetCompanyInsights 按社区聚合，无社区归属的记录整体排除
func (s *AnalyticsServiceImpl) GetCompanyInsights(records []*mongo.Post) []*dto.CompanyStatsDTO {
	type companyAcc struct {
		stats   *dto.CompanyStatsDTO
		authors map[uint64]struct{}
	}

	byCompany := make(map[string]*companyAcc)
	order := make([]string, 0)
	for _, record := range records {
		if record.CommunityID == "" {
			continue
		}
		acc, ok := byCompany[record.CommunityID]
		if !ok {
			acc = &companyAcc{
				stats:   &dto.CompanyStatsDTO{CompanyID: record.CommunityID},
				authors: make(map[uint64]struct{}),
			}
			byCompany[record.CommunityID] = acc
			order = append(order, record.CommunityID)
		}
		acc.stats.Posts++
		acc.stats.Likes += record.Engagement.Likes
		acc.stats.Comments += record.Engagement.Comments
		acc.stats.Shares += record.Engagement.Shares
		acc.authors[record.AuthorID] = struct{}{}
	}

	stats := make([]*dto.CompanyStatsDTO, 0, len(order))
	for _, companyID := range order {
		acc := byCompany[companyID]
		acc.stats.ActiveUsers = len(acc.authors)
		acc.stats.EngagementRate = engagementRate(acc.stats.Likes, acc.stats.Comments, acc.stats.Shares, acc.stats.Posts)
		stats = append(stats, acc.stats)
	}

	return topN(stats, len(stats), func(c *dto.CompanyStatsDTO) float64 {
		return c.EngagementRate
	})
}

// GetDailyActivity 按自然日分桶，[start, end] 的每一天都有桶，空日保留零值
func (s *AnalyticsServiceImpl) GetDailyActivity(records []*mongo.Post, start, end time.Time) []*dto.DailyActivityDTO {
	buckets := make([]*dto.DailyActivityDTO, 0)
	byDate := make(map[string]*dto.DailyActivityDTO)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		bucket := &dto.DailyActivityDTO{Date: date}
		buckets = append(buckets, bucket)
		byDate[date] = bucket
	}

	for _, record := range records {
		bucket, ok := byDate[record.CreatedAt.Format("2006-01-02")]
		if !ok {
			continue
		}
		bucket.Posts++
		bucket.Likes += record.Engagement.Likes
		bucket.Comments += record.Engagement.Comments
		bucket.Shares += record.Engagement.Shares
	}

	return buckets
}

func (s *AnalyticsServiceImpl) GetTopPosts(records []*mongo.Post, limit int) []*dto.TopPostDTO {
	if limit <= 0 {
		limit = defaultTopN
	}

	posts := make([]*dto.TopPostDTO, 0, len(records))
	for _, record := range records {
		posts = append(posts, &dto.TopPostDTO{
			PostID:          record.ID,
			AuthorID:        record.AuthorID,
			AuthorName:      record.AuthorName,
			Preview:         util.TruncateContent(record.Content),
			Likes:           record.Engagement.Likes,
			Comments:        record.Engagement.Comments,
			Shares:          record.Engagement.Shares,
			TotalEngagement: record.Engagement.Likes + record.Engagement.Comments + record.Engagement.Shares,
			CreatedAt:       record.CreatedAt,
		})
	}

	return topN(posts, limit, func(p *dto.TopPostDTO) float64 {
		return float64(p.TotalEngagement)
	})
}

func (s *AnalyticsServiceImpl) cacheSnapshot(ctx context.Context, period string, snapshot *dto.FeedAnalyticsDTO) {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return
	}
	if err = redis.SetWithExpiration(ctx, consts.FeedAnalyticsKey+period, string(payload), analyticsCacheTTL); err != nil {
		log.WarnContext(ctx, "cache analytics snapshot failed", "period", period, "err", err)
	}
}

// engagementRate = round((L+C+S)/P*100)/100，P 为 0 时定义为 0
func engagementRate(likes, comments, shares, postCount int) float64 {
	if postCount == 0 {
		return 0
	}
	return util.Round2(float64(likes+comments+shares) / float64(postCount))
}

// topN 按 key 降序截取前 N，相同 key 保持输入顺序，重复调用结果一致
func topN[T any](items []T, limit int, key func(T) float64) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return key(sorted[i]) > key(sorted[j])
	})
	if limit > len(sorted) {
		limit = len(sorted)
	}
	return sorted[:limit]
}
