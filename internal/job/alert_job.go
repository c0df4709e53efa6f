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

// AlertJob 周期性评估阈值并生成预警
type AlertJob struct {
	behaviorSvc service.BehaviorService
}

func NewAlertJob(behaviorSvc service.BehaviorService) *AlertJob {
	return &AlertJob{behaviorSvc: behaviorSvc}
}

func (s *AlertJob) Run() {
	traceID := "job-alert-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	lockValue := uuid.NewString()
	locked, err := redis.TryLock(ctx, consts.AlertGenerationLock, lockValue, time.Minute*1, 1)
	if err != nil || !locked {
		return
	}
	defer redis.UnLock(ctx, consts.AlertGenerationLock, lockValue)

	alerts, err := s.behaviorSvc.GenerateAlerts(ctx)
	if err != nil {
		log.ErrorContext(ctx, "generate alerts failed", "err", err)
		return
	}
	if len(alerts) > 0 {
		log.InfoContext(ctx, "alerts generated", "count", len(alerts))
	}
}
