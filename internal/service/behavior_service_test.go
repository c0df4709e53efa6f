package service

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/mongo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnalytics struct {
	AnalyticsService
	records []*mongo.Post
}

func (s *stubAnalytics) FetchPostsInWindow(ctx context.Context, start, end time.Time, communityID string) []*mongo.Post {
	return s.records
}

func TestEvaluateThresholds(t *testing.T) {
	svc := &BehaviorServiceImpl{}

	snapshot := &dto.FeedAnalyticsDTO{
		TotalPosts:     51,
		TotalLikes:     1200,
		TotalComments:  500,
		EngagementRate: 1.5,
	}

	alerts := svc.evaluateThresholds(snapshot)
	require.Len(t, alerts, 4)

	byType := make(map[string]*mongo.Alert)
	for _, alert := range alerts {
		byType[alert.Type] = alert
	}

	growth, ok := byType[mongo.AlertTypeGrowth]
	require.True(t, ok)
	assert.Equal(t, mongo.AlertPriorityMedium, growth.Priority)
	assert.Equal(t, 51.0, growth.Metadata.Value)

	drop, ok := byType[mongo.AlertTypeDrop]
	require.True(t, ok)
	assert.Equal(t, mongo.AlertPriorityHigh, drop.Priority)
	assert.Equal(t, 1.5, drop.Metadata.Value)

	anomaly, ok := byType[mongo.AlertTypeAnomaly]
	require.True(t, ok)
	assert.Equal(t, mongo.AlertPriorityHigh, anomaly.Priority)

	milestone, ok := byType[mongo.AlertTypeMilestone]
	require.True(t, ok)
	assert.Equal(t, mongo.AlertPriorityMedium, milestone.Priority)
}

func TestEvaluateThresholdsBoundaries(t *testing.T) {
	svc := &BehaviorServiceImpl{}

	// 全部处在阈值内侧：50 帖、2.0 互动率、1000 赞、499 评论
	snapshot := &dto.FeedAnalyticsDTO{
		TotalPosts:     50,
		TotalLikes:     1000,
		TotalComments:  499,
		EngagementRate: 2.0,
	}
	assert.Empty(t, svc.evaluateThresholds(snapshot))

	// 评论 500 是闭区间边界，触发里程碑
	snapshot.TotalComments = 500
	alerts := svc.evaluateThresholds(snapshot)
	require.Len(t, alerts, 1)
	assert.Equal(t, mongo.AlertTypeMilestone, alerts[0].Type)
}

func TestEvaluateThresholdsTopEntities(t *testing.T) {
	svc := &BehaviorServiceImpl{}

	snapshot := &dto.FeedAnalyticsDTO{
		EngagementRate: 5.0,
		TopUsers: []*dto.TopUserDTO{
			{UserID: 7, UserName: "alice", TotalEngagement: 42},
		},
		CompanyStats: []*dto.CompanyStatsDTO{
			{CompanyID: "c9", EngagementRate: 8.5},
		},
	}

	alerts := svc.evaluateThresholds(snapshot)
	require.Len(t, alerts, 2)

	assert.Equal(t, mongo.AlertTypeTopUser, alerts[0].Type)
	assert.Equal(t, mongo.AlertPriorityLow, alerts[0].Priority)
	assert.Equal(t, "alice", alerts[0].Metadata.EntityName)
	assert.Equal(t, 42.0, alerts[0].Metadata.Value)

	assert.Equal(t, mongo.AlertTypeTopCompany, alerts[1].Type)
	assert.Equal(t, "c9", alerts[1].Metadata.EntityName)
	assert.Equal(t, "c9", alerts[1].Metadata.CommunityID)
}

func TestNewAlertSynthesizedPrevious(t *testing.T) {
	now := time.Now()
	alert := newAlert(mongo.AlertTypeGrowth, mongo.AlertPriorityMedium, "t", "d", 100, now)

	assert.Equal(t, 100.0, alert.Metadata.Value)
	assert.Equal(t, 80.0, alert.Metadata.PreviousValue)
	assert.Equal(t, 25.0, alert.Metadata.Percentage)
	assert.Contains(t, alert.ID, mongo.AlertTypeGrowth+"-")
	assert.Equal(t, now, alert.CreatedAt)

	zero := newAlert(mongo.AlertTypeDrop, mongo.AlertPriorityHigh, "t", "d", 0, now)
	assert.Equal(t, 0.0, zero.Metadata.PreviousValue)
	assert.Equal(t, 0.0, zero.Metadata.Percentage)
}

func TestGetActivityMatrix(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC) // Monday
	records := []*mongo.Post{
		makePost("p1", 1, "alice", "", 2, 1, 0, now),
		makePost("p2", 1, "alice", "", 0, 0, 1, now),
		makePost("p3", 2, "bob", "", 5, 0, 0, now),
	}

	svc := &BehaviorServiceImpl{analytics: &stubAnalytics{records: records}}

	matrix, err := svc.GetActivityMatrix(context.Background(), "")
	require.NoError(t, err)

	day := int(now.Weekday())
	hour := now.Hour()
	cell := matrix.Cells[day][hour]

	assert.Equal(t, 3, cell.Posts)
	assert.Equal(t, 9, cell.Interactions)
	// 同作者同格只计一次
	assert.Equal(t, 2, cell.Users)

	assert.Equal(t, 3, matrix.DayTotals[day].Posts)
	assert.Equal(t, 2, matrix.DayTotals[day].Users)
	assert.Equal(t, 3, matrix.HourTotals[hour].Posts)
	assert.Equal(t, 2, matrix.HourTotals[hour].Users)

	// 窗口固定 7 天
	assert.InDelta(t, 7*24.0, matrix.End.Sub(matrix.Start).Hours(), 0.01)

	for d := 0; d < 7; d++ {
		for h := 0; h < 24; h++ {
			c := matrix.Cells[d][h]
			assert.LessOrEqual(t, c.Users, c.Posts, "格内用户数不会超过帖数")
		}
	}
}
