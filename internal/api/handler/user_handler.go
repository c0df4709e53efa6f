package handler

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/response"
	"Mundero/internal/pkg/util"
	"Mundero/internal/service"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc  service.UserService
	mediaSvc service.MediaService
}

func NewUserHandler(userSvc service.UserService, mediaSvc service.MediaService) *UserHandler {
	return &UserHandler{
		userSvc:  userSvc,
		mediaSvc: mediaSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	err := c.ShouldBind(&registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	err := c.ShouldBind(&loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if loginDTO.Email == nil && loginDTO.Username == nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}

func (s *UserHandler) Logout(c *gin.Context) {
	token := c.Request.Header.Get("Authorization")
	token = strings.Replace(token, "Bearer ", "", 1)
	err := s.userSvc.Logout(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	userDTO, err := s.userSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

func (s *UserHandler) GetUserSimpleInfoById(c *gin.Context) {
	query := c.Param("user_id")
	userID, err := strconv.ParseUint(query, 10, 64)
	if err != nil {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	users, err := s.userSvc.GetUserSimpleInfoByIds(c.Request.Context(), []uint64{userID})
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(users) == 0 {
		response.Fail(c, response.NotFound, service.ErrUserNotFound.Error())
		return
	}
	response.Success(c, users[0])
}

func (s *UserHandler) GetUserSimpleInfoByIds(c *gin.Context) {
	query := c.Query("user_ids")
	if query == "" {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	userIDs := strings.Split(query, ",")
	userIDsUint64 := make([]uint64, 0, len(userIDs))
	for _, userID := range userIDs {
		userIDUint64, err := strconv.ParseUint(strings.TrimSpace(userID), 10, 64)
		if err != nil {
			response.Error(c, err)
			return
		}
		userIDsUint64 = append(userIDsUint64, userIDUint64)
	}
	userDTOList, err := s.userSvc.GetUserSimpleInfoByIds(c.Request.Context(), userIDsUint64)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTOList)
}

func (s *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var profileDTO dto.UpdateProfileDTO
	err := c.ShouldBind(&profileDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&profileDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.UpdateProfile(c.Request.Context(), userID, &profileDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UploadAvatar(c *gin.Context) {
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

	result, err := s.mediaSvc.UploadAvatar(c.Request.Context(), userID, reader, file.Size, contentType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *UserHandler) BanUser(c *gin.Context) {
	actorID := c.GetUint64("user_id")
	var banUserDTO dto.BanUserDTO
	err := c.ShouldBind(&banUserDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.SetUserBan(c.Request.Context(), actorID, banUserDTO.UserID, banUserDTO.IsBan)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) CancelUser(c *gin.Context) {
	userID := c.GetUint64("user_id")
	token := c.Request.Header.Get("Authorization")
	token = strings.Replace(token, "Bearer ", "", 1)
	err := s.userSvc.CancelUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	_ = s.userSvc.Logout(c.Request.Context(), token)
	response.Success(c, nil)
}

func hasRole(c *gin.Context, role string) bool {
	for _, r := range c.GetStringSlice("roles") {
		if r == role {
			return true
		}
	}
	return false
}

func isAdmin(c *gin.Context) bool {
	return hasRole(c, consts.AppRoleAdmin)
}
