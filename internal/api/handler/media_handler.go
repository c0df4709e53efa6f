package handler

import (
	"Mundero/internal/pkg/response"
	"Mundero/internal/pkg/util"
	"Mundero/internal/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaSvc service.MediaService
}

func NewMediaHandler(mediaSvc service.MediaService) *MediaHandler {
	return &MediaHandler{
		mediaSvc: mediaSvc,
	}
}

func (s *MediaHandler) Upload(c *gin.Context) {
	userID := c.GetUint64("user_id")
	file, err := c.FormFile("file")
	if err != nil || file == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() {
		_ = reader.Close()
	}()

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.mediaSvc.Upload(c.Request.Context(), userID, reader, file.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
