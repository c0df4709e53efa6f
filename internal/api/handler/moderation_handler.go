package handler

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/response"
	"Mundero/internal/service"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationSvc service.ModerationService
}

func NewModerationHandler(moderationSvc service.ModerationService) *ModerationHandler {
	return &ModerationHandler{
		moderationSvc: moderationSvc,
	}
}

func (s *ModerationHandler) ReportPost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")

	var req dto.ReportPostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.moderationSvc.ReportPost(c.Request.Context(), userID, postID, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *ModerationHandler) GetQueue(c *gin.Context) {
	var pageDTO dto.PageQuery
	if err := c.ShouldBindQuery(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.moderationSvc.GetModerationQueue(c.Request.Context(), pageDTO.Page, pageDTO.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, posts)
}

func (s *ModerationHandler) SetVisibility(c *gin.Context) {
	actorID := c.GetUint64("user_id")
	postID := c.Param("post_id")

	var req dto.SetVisibilityDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.moderationSvc.SetVisibility(c.Request.Context(), actorID, postID, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
