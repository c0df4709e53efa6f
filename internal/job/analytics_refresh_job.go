package job

import (
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/logger"
	"Mundero/internal/pkg/redis"
	"Mundero/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// AnalyticsRefreshJob 周期性重算统计快照并回写缓存
type AnalyticsRefreshJob struct {
	analyticsSvc service.AnalyticsService
}

func NewAnalyticsRefreshJob(analyticsSvc service.AnalyticsService) *AnalyticsRefreshJob {
	return &AnalyticsRefreshJob{analyticsSvc: analyticsSvc}
}

func (s *AnalyticsRefreshJob) Run() {
	traceID := "job-analytics-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	// 多实例部署时只允许一个实例刷新
	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.AnalyticsRefreshLock, lockValue, time.Minute*3, 1)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.AnalyticsRefreshLock, lockValue)

	for _, period := range []string{consts.PeriodDaily, consts.PeriodWeekly, consts.PeriodMonthly} {
		if _, err = s.analyticsSvc.RefreshFeedAnalytics(ctx, period); err != nil {
			log.ErrorContext(ctx, "refresh analytics failed", "period", period, "err", err)
		}
	}
	log.InfoContext(ctx, "analytics snapshots refreshed")
}
