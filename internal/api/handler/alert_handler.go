package handler

import (
	"Mundero/internal/pkg/response"
	"Mundero/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	behaviorSvc service.BehaviorService
}

func NewAlertHandler(behaviorSvc service.BehaviorService) *AlertHandler {
	return &AlertHandler{
		behaviorSvc: behaviorSvc,
	}
}

func (s *AlertHandler) GetAlerts(c *gin.Context) {
	communityID := c.Query("community_id")
	max, _ := strconv.Atoi(c.DefaultQuery("max", "10"))

	alerts, err := s.behaviorSvc.GetAlerts(c.Request.Context(), communityID, max)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, alerts)
}

func (s *AlertHandler) GenerateAlerts(c *gin.Context) {
	alerts, err := s.behaviorSvc.GenerateAlerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, alerts)
}

func (s *AlertHandler) DismissAlert(c *gin.Context) {
	alertID := c.Param("alert_id")

	if err := s.behaviorSvc.DismissAlert(c.Request.Context(), alertID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
