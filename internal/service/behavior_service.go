package service

import (
	"Mundero/internal/api/config"
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/mongo"
	"Mundero/internal/pkg/redis"
	"Mundero/internal/pkg/util"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

const (
	defaultAlertMax   = 10
	webhookTimeout    = 5 * time.Second
	// 合成的"上期值"比例，真实历史基线不在本系统范围内
	syntheticPrevRatio = 0.8
)

type BehaviorService interface {
	// GetActivityMatrix 固定取最近 7 天，与统计周期无关
	GetActivityMatrix(ctx context.Context, communityID string) (*dto.ActivityMatrixDTO, error)
	GenerateAlerts(ctx context.Context) ([]*mongo.Alert, error)
	GetAlerts(ctx context.Context, communityID string, max int) ([]*mongo.Alert, error)
	DismissAlert(ctx context.Context, id string) error
}

type BehaviorServiceImpl struct {
	analytics  AnalyticsService
	alertRepo  mongo.AlertRepo
	webhookURL string
	webhook    *resty.Client
}

func NewBehaviorService(analytics AnalyticsService, alertRepo mongo.AlertRepo, cfg *config.Config) BehaviorService {
	return &BehaviorServiceImpl{
		analytics:  analytics,
		alertRepo:  alertRepo,
		webhookURL: cfg.Alert.WebhookURL,
		webhook:    resty.New().SetTimeout(webhookTimeout),
	}
}

func (s *BehaviorServiceImpl) GetActivityMatrix(ctx context.Context, communityID string) (*dto.ActivityMatrixDTO, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -activityWindowDays)
	records := s.analytics.FetchPostsInWindow(ctx, start, end, communityID)

	matrix := &dto.ActivityMatrixDTO{Start: start, End: end}

	// 每个格子一份作者集合，边际合计取并集避免重复计数
	cellAuthors := make(map[string]map[uint64]struct{})
	for _, record := range records {
		day := int(record.CreatedAt.Weekday())
		hour := record.CreatedAt.Hour()

		cell := &matrix.Cells[day][hour]
		cell.Posts++
		cell.Interactions += record.Engagement.Likes + record.Engagement.Comments + record.Engagement.Shares

		key := fmt.Sprintf("%d-%d", day, hour)
		if cellAuthors[key] == nil {
			cellAuthors[key] = make(map[uint64]struct{})
		}
		cellAuthors[key][record.AuthorID] = struct{}{}
	}

	for day := 0; day < 7; day++ {
		dayAuthors := make(map[uint64]struct{})
		for hour := 0; hour < 24; hour++ {
			authors := cellAuthors[fmt.Sprintf("%d-%d", day, hour)]
			matrix.Cells[day][hour].Users = len(authors)

			matrix.DayTotals[day].Posts += matrix.Cells[day][hour].Posts
			matrix.DayTotals[day].Interactions += matrix.Cells[day][hour].Interactions
			for author := range authors {
				dayAuthors[author] = struct{}{}
			}
		}
		matrix.DayTotals[day].Users = len(dayAuthors)
	}

	for hour := 0; hour < 24; hour++ {
		hourAuthors := make(map[uint64]struct{})
		for day := 0; day < 7; day++ {
			matrix.HourTotals[hour].Posts += matrix.Cells[day][hour].Posts
			matrix.HourTotals[hour].Interactions += matrix.Cells[day][hour].Interactions
			for author := range cellAuthors[fmt.Sprintf("%d-%d", day, hour)] {
				hourAuthors[author] = struct{}{}
			}
		}
		matrix.HourTotals[hour].Users = len(hourAuthors)
	}

	return matrix, nil
}

// GenerateAlerts 对周快照做一次性阈值评估。
// 逐条落库，无事务，部分失败的已写入预警不回滚。
func (s *BehaviorServiceImpl) GenerateAlerts(ctx context.Context) ([]*mongo.Alert, error) {
	snapshot, err := s.analytics.RefreshFeedAnalytics(ctx, consts.PeriodWeekly)
	if err != nil {
		return nil, err
	}

	alerts := s.evaluateThresholds(snapshot)

	saved := make([]*mongo.Alert, 0, len(alerts))
	for _, alert := range alerts {
		if err = s.alertRepo.SaveAlert(ctx, alert); err != nil {
			log.ErrorContext(ctx, "save alert failed", "alertID", alert.ID, "err", err)
			continue
		}
		saved = append(saved, alert)

		s.publishAlert(ctx, alert)
		if alert.Priority == mongo.AlertPriorityHigh || alert.Priority == mongo.AlertPriorityCritical {
			s.pushWebhook(ctx, alert)
		}
	}
	return saved, nil
}

func (s *BehaviorServiceImpl) GetAlerts(ctx context.Context, communityID string, max int) ([]*mongo.Alert, error) {
	if max <= 0 {
		max = defaultAlertMax
	}
	return s.alertRepo.ListAlerts(ctx, communityID, max)
}

func (s *BehaviorServiceImpl) DismissAlert(ctx context.Context, id string) error {
	return s.alertRepo.DismissAlert(ctx, id)
}

// evaluateThresholds 固定阈值表，纯函数
func (s *BehaviorServiceImpl) evaluateThresholds(snapshot *dto.FeedAnalyticsDTO) []*mongo.Alert {
	now := time.Now()
	alerts := make([]*mongo.Alert, 0)

	if snapshot.TotalPosts > 50 {
		alerts = append(alerts, newAlert(mongo.AlertTypeGrowth, mongo.AlertPriorityMedium,
			"发帖量增长", fmt.Sprintf("最近一周发帖 %d 条，超过增长阈值", snapshot.TotalPosts),
			float64(snapshot.TotalPosts), now))
	}
	if snapshot.EngagementRate < 2 {
		alerts = append(alerts, newAlert(mongo.AlertTypeDrop, mongo.AlertPriorityHigh,
			"互动率下滑", fmt.Sprintf("最近一周互动率 %.2f，低于预警线", snapshot.EngagementRate),
			snapshot.EngagementRate, now))
	}
	if len(snapshot.TopUsers) > 0 {
		top := snapshot.TopUsers[0]
		alert := newAlert(mongo.AlertTypeTopUser, mongo.AlertPriorityLow,
			"本周活跃作者", fmt.Sprintf("%s 以 %d 互动居首", top.UserName, top.TotalEngagement),
			float64(top.TotalEngagement), now)
		alert.Metadata.EntityName = top.UserName
		alerts = append(alerts, alert)
	}
	if len(snapshot.CompanyStats) > 0 {
		top := snapshot.CompanyStats[0]
		alert := newAlert(mongo.AlertTypeTopCompany, mongo.AlertPriorityLow,
			"本周活跃社区", fmt.Sprintf("社区 %s 互动率 %.2f 居首", top.CompanyID, top.EngagementRate),
			top.EngagementRate, now)
		alert.Metadata.EntityName = top.CompanyID
		alert.Metadata.CommunityID = top.CompanyID
		alerts = append(alerts, alert)
	}
	if snapshot.TotalLikes > 1000 {
		alerts = append(alerts, newAlert(mongo.AlertTypeAnomaly, mongo.AlertPriorityHigh,
			"点赞量异常", fmt.Sprintf("最近一周点赞 %d，超出常规区间", snapshot.TotalLikes),
			float64(snapshot.TotalLikes), now))
	}
	if snapshot.TotalComments >= 500 {
		alerts = append(alerts, newAlert(mongo.AlertTypeMilestone, mongo.AlertPriorityMedium,
			"评论里程碑", fmt.Sprintf("最近一周评论达到 %d 条", snapshot.TotalComments),
			float64(snapshot.TotalComments), now))
	}

	return alerts
}

func newAlert(alertType, priority, title, description string, value float64, now time.Time) *mongo.Alert {
	// TODO: 用上一期快照缓存里的真实值替换合成的环比基数
	previous := util.Round2(value * syntheticPrevRatio)
	percentage := 0.0
	if previous != 0 {
		percentage = util.Round2((value - previous) / previous * 100)
	}
	return &mongo.Alert{
		ID:          fmt.Sprintf("%s-%d", alertType, now.UnixMilli()),
		Type:        alertType,
		Priority:    priority,
		Title:       title,
		Description: description,
		Metadata: mongo.AlertMetadata{
			Value:         value,
			PreviousValue: previous,
			Percentage:    percentage,
		},
		CreatedAt: now,
	}
}

// publishAlert 推给在线 WebSocket 订阅者
func (s *BehaviorServiceImpl) publishAlert(ctx context.Context, alert *mongo.Alert) {
	payload, err := json.Marshal(alert)
	if err != nil {
		return
	}
	if err = redis.Publish(ctx, consts.AlertChannelKey, string(payload)); err != nil {
		log.WarnContext(ctx, "publish alert failed", "alertID", alert.ID, "err", err)
	}
}

func (s *BehaviorServiceImpl) pushWebhook(ctx context.Context, alert *mongo.Alert) {
	if s.webhookURL == "" {
		return
	}
	resp, err := s.webhook.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(alert).
		Post(s.webhookURL)
	if err != nil {
		log.WarnContext(ctx, "alert webhook failed", "alertID", alert.ID, "err", err)
		return
	}
	if resp.IsError() {
		log.WarnContext(ctx, "alert webhook rejected", "alertID", alert.ID, "status", resp.Status())
	}
}
