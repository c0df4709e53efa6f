package handler

import (
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/response"
	"Mundero/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analyticsSvc service.AnalyticsService
	behaviorSvc  service.BehaviorService
}

func NewAnalyticsHandler(analyticsSvc service.AnalyticsService, behaviorSvc service.BehaviorService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsSvc: analyticsSvc,
		behaviorSvc:  behaviorSvc,
	}
}

func (s *AnalyticsHandler) GetFeedAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", consts.PeriodWeekly)

	analytics, err := s.analyticsSvc.GetFeedAnalytics(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, analytics)
}

func (s *AnalyticsHandler) RefreshFeedAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", consts.PeriodWeekly)

	analytics, err := s.analyticsSvc.RefreshFeedAnalytics(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, analytics)
}

func (s *AnalyticsHandler) GetActivityMatrix(c *gin.Context) {
	communityID := c.Query("community_id")

	matrix, err := s.behaviorSvc.GetActivityMatrix(c.Request.Context(), communityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, matrix)
}
