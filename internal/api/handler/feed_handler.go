package handler

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/response"
	"Mundero/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedSvc service.FeedService
}

func NewFeedHandler(feedSvc service.FeedService) *FeedHandler {
	return &FeedHandler{
		feedSvc: feedSvc,
	}
}

func (s *FeedHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CreatePostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	post, err := s.feedSvc.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, post)
}

func (s *FeedHandler) GetFeed(c *gin.Context) {
	var pageDTO dto.PageQuery
	if err := c.ShouldBindQuery(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}
	communityID := c.Query("community_id")

	posts, err := s.feedSvc.GetFeed(c.Request.Context(), communityID, pageDTO.Page, pageDTO.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, posts)
}

func (s *FeedHandler) GetPost(c *gin.Context) {
	postID := c.Param("post_id")

	post, err := s.feedSvc.GetPost(c.Request.Context(), postID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, post)
}

func (s *FeedHandler) UpdatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")

	var req dto.UpdatePostDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.feedSvc.UpdatePost(c.Request.Context(), userID, postID, &req); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *FeedHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")

	if err := s.feedSvc.DeletePost(c.Request.Context(), userID, isAdmin(c), postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *FeedHandler) LikePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")

	if err := s.feedSvc.LikePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *FeedHandler) UnlikePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")

	if err := s.feedSvc.UnlikePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *FeedHandler) AddComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")

	var req dto.CommentCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	comment, err := s.feedSvc.AddComment(c.Request.Context(), userID, postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, comment)
}

func (s *FeedHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID := c.Param("comment_id")

	if err := s.feedSvc.DeleteComment(c.Request.Context(), userID, isAdmin(c), commentID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *FeedHandler) GetComments(c *gin.Context) {
	postID := c.Param("post_id")

	var pageDTO dto.PageQuery
	if err := c.ShouldBindQuery(&pageDTO); err != nil {
		response.Error(c, err)
		return
	}

	comments, err := s.feedSvc.GetComments(c.Request.Context(), postID, pageDTO.Page, pageDTO.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, comments)
}

func (s *FeedHandler) SharePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")

	if err := s.feedSvc.SharePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *FeedHandler) TrackView(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID := c.Param("post_id")

	if err := s.feedSvc.TrackView(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func (s *FeedHandler) SearchPosts(c *gin.Context) {
	var query dto.SearchPostsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, err)
		return
	}

	posts, err := s.feedSvc.SearchPosts(c.Request.Context(), &query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, posts)
}
