package handler

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/response"
	"Mundero/internal/pkg/util"
	"Mundero/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	communitySvc service.CommunityService
}

func NewCommunityHandler(communitySvc service.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communitySvc: communitySvc,
	}
}

func (s *CommunityHandler) Create(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CommunityCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	community, err := s.communitySvc.CreateCommunity(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, community)
}

func (s *CommunityHandler) Get(c *gin.Context) {
	communityID := c.Param("community_id")

	community, err := s.communitySvc.GetCommunity(c.Request.Context(), communityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, community)
}

func (s *CommunityHandler) List(c *gin.Context) {
	var pageDTO dto.PageQuery
	if err := c.ShouldBindQuery(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}
	category := c.Query("category")

	communities, err := s.communitySvc.ListCommunities(c.Request.Context(), category, pageDTO.Page, pageDTO.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, communities)
}

func (s *CommunityHandler) Update(c *gin.Context) {
	userID := c.GetUint64("user_id")
	communityID := c.Param("community_id")

	var req dto.CommunityUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.communitySvc.UpdateCommunity(c.Request.Context(), userID, communityID, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *CommunityHandler) Delete(c *gin.Context) {
	userID := c.GetUint64("user_id")
	communityID := c.Param("community_id")

	if err := s.communitySvc.DeleteCommunity(c.Request.Context(), userID, communityID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *CommunityHandler) Join(c *gin.Context) {
	userID := c.GetUint64("user_id")
	communityID := c.Param("community_id")

	membership, err := s.communitySvc.Join(c.Request.Context(), userID, communityID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, membership)
}

func (s *CommunityHandler) Approve(c *gin.Context) {
	actorID := c.GetUint64("user_id")
	communityID := c.Param("community_id")

	var req dto.MemberActionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.communitySvc.ApproveMember(c.Request.Context(), actorID, communityID, req.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *CommunityHandler) Reject(c *gin.Context) {
	actorID := c.GetUint64("user_id")
	communityID := c.Param("community_id")

	var req dto.MemberActionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.communitySvc.RejectMember(c.Request.Context(), actorID, communityID, req.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *CommunityHandler) Leave(c *gin.Context) {
	userID := c.GetUint64("user_id")
	communityID := c.Param("community_id")

	if err := s.communitySvc.Leave(c.Request.Context(), userID, communityID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *CommunityHandler) BanMember(c *gin.Context) {
	actorID := c.GetUint64("user_id")
	communityID := c.Param("community_id")

	var req dto.MemberActionDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.communitySvc.BanMember(c.Request.Context(), actorID, communityID, req.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *CommunityHandler) ChangeMemberRole(c *gin.Context) {
	actorID := c.GetUint64("user_id")
	communityID := c.Param("community_id")

	var req dto.MemberRoleDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.communitySvc.ChangeMemberRole(c.Request.Context(), actorID, communityID, req.UserID, req.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *CommunityHandler) ListMembers(c *gin.Context) {
	communityID := c.Param("community_id")

	var pageDTO dto.PageQuery
	if err := c.ShouldBindQuery(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}
	status := c.Query("status")

	members, err := s.communitySvc.ListMembers(c.Request.Context(), communityID, status, pageDTO.Page, pageDTO.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, members)
}
