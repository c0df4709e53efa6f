package service

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/model"
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/es"
	"Mundero/internal/pkg/minio"
	"Mundero/internal/pkg/redis"
	"Mundero/internal/pkg/security"
	"Mundero/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) error
	Login(ctx context.Context, dto *dto.CredentialDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, id uint64, dto *dto.UpdateProfileDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
	SetUserBan(ctx context.Context, actorID, targetID uint64, isBan bool) error
	CancelUser(ctx context.Context, id uint64) error
}

type UserServiceImpl struct {
	userRepo      repository.UserRepo
	roleRepo      repository.RoleRepo
	userRolesRepo repository.UserRolesRepo
	postESRepo    es.PostRepo
}

func NewUserService(
	userRepo repository.UserRepo,
	roleRepo repository.RoleRepo,
	userRolesRepo repository.UserRolesRepo,
	postESRepo es.PostRepo,
) UserService {
	return &UserServiceImpl{
		userRepo:      userRepo,
		roleRepo:      roleRepo,
		userRolesRepo: userRolesRepo,
		postESRepo:    postESRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	byEmail, err := s.userRepo.GetUserByEmail(ctx, regDTO.Email)
	if err != nil {
		return err
	}
	if byEmail != nil {
		return ErrUserEmailExist
	}

	byUsername, err := s.userRepo.GetUserByUsername(ctx, regDTO.Username)
	if err != nil {
		return err
	}
	if byUsername != nil {
		return ErrUserUsernameExist
	}

	passwordHash, err := security.HashPassword(regDTO.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Email:    &regDTO.Email,
		Username: &regDTO.Username,
		Password: &passwordHash,
	}

	detail := &model.UserDetail{
		DisplayName: regDTO.DisplayName,
		AvatarURL:   consts.DefaultAvatarURL,
		Bio:         regDTO.Bio,
	}

	role := model.UserRole{
		UserID: user.ID,
		RoleID: consts.AppRoleUserID,
	}
	roles := []*model.UserRole{&role}

	return s.userRepo.CreateUser(ctx, user, detail, &roles)
}

func (s *UserServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO) (*dto.TokenDTO, error) {
	user, err := s.findUserByLoginCredentials(ctx, credDTO)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDelete {
		return nil, ErrUserNotFound
	}
	if user.IsBan {
		return nil, ErrUserBan
	}
	if user.Password == nil {
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(credDTO.Password, *user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	roleNames, err := s.getRoleNamesForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := security.GenerateToken(user.ID, roleNames)
	if err != nil {
		return nil, err
	}

	userDTO, err := s.toUserDTO(user, roleNames)
	if err != nil {
		return nil, err
	}

	return &dto.TokenDTO{Token: token, User: *userDTO}, nil
}

// Logout 将令牌签名加入黑名单，有效期覆盖令牌剩余寿命
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, time.Hour*24)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	roleNames, err := s.getRoleNamesForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.toUserDTO(user, roleNames)
}

func (s *UserServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	newIds := make([]uint64, 0, len(ids))
	mp := make(map[uint64]*dto.UserDTO)
	for _, id := range ids {
		value, err := redis.GetValue(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
		if err != nil {
			return nil, err
		}
		if value != "" {
			var userDTO *dto.UserDTO
			err = json.Unmarshal([]byte(value), &userDTO)
			if err != nil {
				newIds = append(newIds, id)
			} else {
				mp[id] = userDTO
			}
		} else {
			newIds = append(newIds, id)
		}
	}
	if len(newIds) > 0 {
		userDetails, err := s.userRepo.GetUserSimpleInfoByIds(ctx, newIds)
		if err != nil {
			return nil, err
		}
		for _, userDetail := range userDetails {
			userDTO := &dto.UserDTO{}
			err = copier.Copy(userDTO, userDetail)
			if err != nil {
				return nil, err
			}
			userDTO.AvatarURL = minio.GetPublicURL(userDetail.AvatarURL)
			mp[userDetail.UserID] = userDTO
			jsonStr, err := json.Marshal(userDTO)
			if err != nil {
				return nil, err
			}
			err = redis.SetWithExpiration(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(userDetail.UserID, 10), string(jsonStr), time.Hour*1)
			if err != nil {
				return nil, err
			}
		}
	}
	userDTOList := make([]*dto.UserDTO, 0, len(ids))
	for _, id := range ids {
		if mp[id] == nil {
			continue
		}
		userDTOList = append(userDTOList, mp[id])
	}
	return userDTOList, nil
}

func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id uint64, profileDTO *dto.UpdateProfileDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	detail := user.UserDetail
	nameChanged := false
	if profileDTO.DisplayName != nil && *profileDTO.DisplayName != detail.DisplayName {
		detail.DisplayName = *profileDTO.DisplayName
		nameChanged = true
	}
	if profileDTO.Bio != nil {
		detail.Bio = profileDTO.Bio
	}

	if err = s.userRepo.UpdateUserDetail(ctx, &detail); err != nil {
		return err
	}

	_ = redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))

	// 同步搜索索引里的作者名，失败不阻塞资料更新
	if nameChanged {
		if err = s.postESRepo.UpdatePostAuthorName(ctx, id, detail.DisplayName); err != nil {
			log.WarnContext(ctx, "sync author name to index failed", "userID", id, "err", err)
		}
	}
	return nil
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	user.UserDetail.AvatarURL = objectName
	err = s.userRepo.UpdateUserDetail(ctx, &user.UserDetail)
	if err != nil {
		return err
	}
	_ = redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
	return nil
}

func (s *UserServiceImpl) SetUserBan(ctx context.Context, actorID, targetID uint64, isBan bool) error {
	if actorID == targetID {
		return ErrUserBanSelf
	}
	target, err := s.userRepo.GetUserById(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}
	isAdmin, err := s.userRolesRepo.GetUserHasRole(ctx, targetID, consts.AppRoleAdminID)
	if err != nil {
		return err
	}
	if isAdmin {
		return ErrUserBanAdmin
	}

	rows, err := s.userRepo.UpdateUserIsBan(ctx, targetID, isBan)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserServiceImpl) CancelUser(ctx context.Context, id uint64) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err = s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	_ = redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
	return nil
}

func (s *UserServiceImpl) findUserByLoginCredentials(ctx context.Context, credDTO *dto.CredentialDTO) (*model.User, error) {
	if credDTO.Email != nil && *credDTO.Email != "" {
		return s.userRepo.GetUserByEmail(ctx, *credDTO.Email)
	}
	if credDTO.Username != nil && *credDTO.Username != "" {
		return s.userRepo.GetUserByUsername(ctx, *credDTO.Username)
	}
	return nil, ErrParamInvalid
}

func (s *UserServiceImpl) getRoleNamesForUser(ctx context.Context, user *model.User) ([]string, error) {
	if len(user.UserRoles) == 0 {
		return []string{}, nil
	}
	roleIDs := make([]uint64, 0, len(user.UserRoles))
	for _, role := range user.UserRoles {
		roleIDs = append(roleIDs, role.RoleID)
	}
	roles, err := s.roleRepo.GetRoleByIDs(ctx, roleIDs)
	if err != nil {
		return nil, err
	}
	if roles == nil {
		return nil, UnExpectedError
	}
	roleNames := make([]string, 0, len(*roles))
	for _, role := range *roles {
		roleNames = append(roleNames, role.Name)
	}
	return roleNames, nil
}

func (s *UserServiceImpl) toUserDTO(user *model.User, roleNames []string) (*dto.UserDTO, error) {
	userDTO := &dto.UserDTO{}
	if err := copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	if err := copier.Copy(userDTO, user.UserDetail); err != nil {
		return nil, err
	}
	userDTO.UserID = user.ID
	userDTO.AvatarURL = minio.GetPublicURL(user.UserDetail.AvatarURL)
	userDTO.Roles = roleNames
	return userDTO, nil
}
