package cron

import (
	"Mundero/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine              *cron.Cron
	analyticsRefreshJob *job.AnalyticsRefreshJob
	alertJob            *job.AlertJob
}

func NewCronManager(analyticsRefreshJob *job.AnalyticsRefreshJob, alertJob *job.AlertJob) *Manager {
	return &Manager{
		engine:              cron.New(cron.WithSeconds()),
		analyticsRefreshJob: analyticsRefreshJob,
		alertJob:            alertJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("0 */5 * * * *", s.analyticsRefreshJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("0 */2 * * * *", s.alertJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
