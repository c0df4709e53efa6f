package service

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/mongo"
	"Mundero/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"
)

type CommunityService interface {
	CreateCommunity(ctx context.Context, creatorID uint64, dto *dto.CommunityCreateDTO) (*mongo.Community, error)
	GetCommunity(ctx context.Context, id string) (*mongo.Community, error)
	ListCommunities(ctx context.Context, category string, page, pageSize int) ([]*mongo.Community, error)
	UpdateCommunity(ctx context.Context, actorID uint64, id string, dto *dto.CommunityUpdateDTO) error
	DeleteCommunity(ctx context.Context, actorID uint64, id string) error

	Join(ctx context.Context, userID uint64, communityID string) (*mongo.Membership, error)
	ApproveMember(ctx context.Context, actorID uint64, communityID string, userID uint64) error
	RejectMember(ctx context.Context, actorID uint64, communityID string, userID uint64) error
	Leave(ctx context.Context, userID uint64, communityID string) error
	BanMember(ctx context.Context, actorID uint64, communityID string, userID uint64) error
	ChangeMemberRole(ctx context.Context, actorID uint64, communityID string, userID uint64, role string) error
	ListMembers(ctx context.Context, communityID string, status string, page, pageSize int) ([]*mongo.Membership, error)
}

type CommunityServiceImpl struct {
	communityRepo mongo.CommunityRepo
}

func NewCommunityService(communityRepo mongo.CommunityRepo) CommunityService {
	return &CommunityServiceImpl{communityRepo: communityRepo}
}

// CreateCommunity 创建者即唯一所有者，所有者成员关系随社区一并写入
func (s *CommunityServiceImpl) CreateCommunity(ctx context.Context, creatorID uint64, createDTO *dto.CommunityCreateDTO) (*mongo.Community, error) {
	settings := mongo.CommunitySettings{
		AllowInvites:     true,
		AllowMemberPosts: true,
	}
	if createDTO.Settings != nil {
		settings = mongo.CommunitySettings{
			AllowInvites:      createDTO.Settings.AllowInvites,
			RequireApproval:   createDTO.Settings.RequireApproval,
			AllowMemberPosts:  createDTO.Settings.AllowMemberPosts,
			AllowMemberEvents: createDTO.Settings.AllowMemberEvents,
		}
	}

	now := time.Now()
	community := &mongo.Community{
		Name:        createDTO.Name,
		Description: createDTO.Description,
		Category:    createDTO.Category,
		IsPrivate:   createDTO.IsPrivate,
		OwnerID:     creatorID,
		MemberCount: 1,
		Settings:    settings,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.communityRepo.CreateCommunity(ctx, community); err != nil {
		return nil, err
	}

	ownerMembership := &mongo.Membership{
		CommunityID: community.ID,
		UserID:      creatorID,
		Role:        consts.RoleOwner,
		Status:      consts.MemberStatusActive,
		Permissions: mongo.PermissionsForRole(consts.RoleOwner, settings),
		JoinedAt:    now,
		UpdatedAt:   now,
	}
	if err := s.communityRepo.CreateMembership(ctx, ownerMembership); err != nil {
		return nil, err
	}

	return community, nil
}

func (s *CommunityServiceImpl) GetCommunity(ctx context.Context, id string) (*mongo.Community, error) {
	community, err := s.communityRepo.GetCommunity(ctx, id)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, ErrCommunityNotFound
	}
	return community, nil
}

func (s *CommunityServiceImpl) ListCommunities(ctx context.Context, category string, page, pageSize int) ([]*mongo.Community, error) {
	return s.communityRepo.ListCommunities(ctx, category, page, pageSize)
}

func (s *CommunityServiceImpl) UpdateCommunity(ctx context.Context, actorID uint64, id string, updateDTO *dto.CommunityUpdateDTO) error {
	community, err := s.requireCommunity(ctx, id)
	if err != nil {
		return err
	}
	if !s.isOwnerOrAdmin(community, actorID) {
		return ErrPermissionDenied
	}

	var settings *mongo.CommunitySettings
	if updateDTO.Settings != nil {
		settings = &mongo.CommunitySettings{
			AllowInvites:      updateDTO.Settings.AllowInvites,
			RequireApproval:   updateDTO.Settings.RequireApproval,
			AllowMemberPosts:  updateDTO.Settings.AllowMemberPosts,
			AllowMemberEvents: updateDTO.Settings.AllowMemberEvents,
		}
	}
	return s.communityRepo.UpdateCommunityInfo(ctx, id, updateDTO.Description, updateDTO.Category, updateDTO.IsPrivate, settings, time.Now())
}

func (s *CommunityServiceImpl) DeleteCommunity(ctx context.Context, actorID uint64, id string) error {
	community, err := s.requireCommunity(ctx, id)
	if err != nil {
		return err
	}
	if community.OwnerID != actorID {
		return ErrPermissionDenied
	}
	return s.communityRepo.DeleteCommunity(ctx, id)
}

// Join 开启审批的社区进入 pending 状态，否则直接激活
func (s *CommunityServiceImpl) Join(ctx context.Context, userID uint64, communityID string) (*mongo.Membership, error) {
	community, err := s.requireCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	existing, err := s.communityRepo.GetMembership(ctx, communityID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Status == consts.MemberStatusBanned {
			return nil, ErrMemberBanned
		}
		return nil, ErrMemberExist
	}

	status := consts.MemberStatusActive
	if community.Settings.RequireApproval {
		status = consts.MemberStatusPending
	}

	now := time.Now()
	membership := &mongo.Membership{
		CommunityID: communityID,
		UserID:      userID,
		Role:        consts.RoleMember,
		Status:      status,
		Permissions: mongo.PermissionsForRole(consts.RoleMember, community.Settings),
		JoinedAt:    now,
		UpdatedAt:   now,
	}
	if err = s.communityRepo.CreateMembership(ctx, membership); err != nil {
		return nil, err
	}

	if status == consts.MemberStatusActive {
		s.bumpMemberCount(ctx, communityID, 1)
	}
	return membership, nil
}

func (s *CommunityServiceImpl) ApproveMember(ctx context.Context, actorID uint64, communityID string, userID uint64) error {
	if err := s.requireModerator(ctx, communityID, actorID); err != nil {
		return err
	}

	membership, err := s.communityRepo.GetMembership(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMemberNotFound
	}
	if membership.Status != consts.MemberStatusPending {
		return ErrMemberNotPending
	}

	err = s.communityRepo.UpdateMembership(ctx, membership.ID, membership.Role, consts.MemberStatusActive, membership.Permissions, time.Now())
	if err != nil {
		return err
	}
	s.bumpMemberCount(ctx, communityID, 1)
	return nil
}

func (s *CommunityServiceImpl) RejectMember(ctx context.Context, actorID uint64, communityID string, userID uint64) error {
	if err := s.requireModerator(ctx, communityID, actorID); err != nil {
		return err
	}

	membership, err := s.communityRepo.GetMembership(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMemberNotFound
	}
	if membership.Status != consts.MemberStatusPending {
		return ErrMemberNotPending
	}

	return s.communityRepo.DeleteMembership(ctx, communityID, userID)
}

func (s *CommunityServiceImpl) Leave(ctx context.Context, userID uint64, communityID string) error {
	community, err := s.requireCommunity(ctx, communityID)
	if err != nil {
		return err
	}
	if community.OwnerID == userID {
		return ErrOwnerCannotLeave
	}

	membership, err := s.communityRepo.GetMembership(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMemberNotFound
	}

	if err = s.communityRepo.DeleteMembership(ctx, communityID, userID); err != nil {
		return err
	}

	if membership.Role == consts.RoleAdmin {
		s.removeAdmin(ctx, community, userID)
	}
	if membership.Status == consts.MemberStatusActive {
		s.bumpMemberCount(ctx, communityID, -1)
	}
	return nil
}

func (s *CommunityServiceImpl) BanMember(ctx context.Context, actorID uint64, communityID string, userID uint64) error {
	community, err := s.requireCommunity(ctx, communityID)
	if err != nil {
		return err
	}
	if err = s.requireModerator(ctx, communityID, actorID); err != nil {
		return err
	}
	if community.OwnerID == userID {
		return ErrOwnerImmutable
	}

	membership, err := s.communityRepo.GetMembership(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMemberNotFound
	}
	if membership.Status == consts.MemberStatusBanned {
		return ErrActionDuplicate
	}

	wasActive := membership.Status == consts.MemberStatusActive

	// 封禁清空权限包
	err = s.communityRepo.UpdateMembership(ctx, membership.ID, membership.Role, consts.MemberStatusBanned, mongo.MemberPermissions{}, time.Now())
	if err != nil {
		return err
	}

	if membership.Role == consts.RoleAdmin {
		s.removeAdmin(ctx, community, userID)
	}
	if wasActive {
		s.bumpMemberCount(ctx, communityID, -1)
	}
	return nil
}

// ChangeMemberRole 显式升降级，权限包按目标角色重算。
// 所有者身份不可转移，也不能被升降级。
func (s *CommunityServiceImpl) ChangeMemberRole(ctx context.Context, actorID uint64, communityID string, userID uint64, role string) error {
	community, err := s.requireCommunity(ctx, communityID)
	if err != nil {
		return err
	}
	if !s.isOwnerOrAdmin(community, actorID) {
		return ErrPermissionDenied
	}
	if community.OwnerID == userID || role == consts.RoleOwner {
		return ErrOwnerImmutable
	}

	membership, err := s.communityRepo.GetMembership(ctx, communityID, userID)
	if err != nil {
		return err
	}
	if membership == nil {
		return ErrMemberNotFound
	}
	if membership.Status != consts.MemberStatusActive {
		return ErrMemberBanned
	}

	perms := mongo.PermissionsForRole(role, community.Settings)
	err = s.communityRepo.UpdateMembership(ctx, membership.ID, role, membership.Status, perms, time.Now())
	if err != nil {
		return err
	}

	// 同步社区文档上的管理员集合
	if role == consts.RoleAdmin && membership.Role != consts.RoleAdmin {
		adminIDs := append(append([]uint64{}, community.AdminIDs...), userID)
		if uErr := s.communityRepo.UpdateAdminIDs(ctx, communityID, adminIDs); uErr != nil {
			log.WarnContext(ctx, "update admin ids failed", "communityID", communityID, "err", uErr)
		}
	}
	if role != consts.RoleAdmin && membership.Role == consts.RoleAdmin {
		s.removeAdmin(ctx, community, userID)
	}
	return nil
}

func (s *CommunityServiceImpl) ListMembers(ctx context.Context, communityID string, status string, page, pageSize int) ([]*mongo.Membership, error) {
	if _, err := s.requireCommunity(ctx, communityID); err != nil {
		return nil, err
	}
	return s.communityRepo.ListMemberships(ctx, communityID, status, page, pageSize)
}

func (s *CommunityServiceImpl) requireCommunity(ctx context.Context, id string) (*mongo.Community, error) {
	community, err := s.communityRepo.GetCommunity(ctx, id)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, ErrCommunityNotFound
	}
	return community, nil
}

// requireModerator 要求操作者在社区内拥有 canModerate 权限
func (s *CommunityServiceImpl) requireModerator(ctx context.Context, communityID string, actorID uint64) error {
	membership, err := s.communityRepo.GetMembership(ctx, communityID, actorID)
	if err != nil {
		return err
	}
	if membership == nil || membership.Status != consts.MemberStatusActive {
		return ErrPermissionDenied
	}
	if !membership.Permissions.CanModerate {
		return ErrPermissionDenied
	}
	return nil
}

func (s *CommunityServiceImpl) isOwnerOrAdmin(community *mongo.Community, userID uint64) bool {
	if community.OwnerID == userID {
		return true
	}
	for _, adminID := range community.AdminIDs {
		if adminID == userID {
			return true
		}
	}
	return false
}

func (s *CommunityServiceImpl) removeAdmin(ctx context.Context, community *mongo.Community, userID uint64) {
	adminIDs := make([]uint64, 0, len(community.AdminIDs))
	for _, adminID := range community.AdminIDs {
		if adminID != userID {
			adminIDs = append(adminIDs, adminID)
		}
	}
	if err := s.communityRepo.UpdateAdminIDs(ctx, community.ID, adminIDs); err != nil {
		log.WarnContext(ctx, "update admin ids failed", "communityID", community.ID, "err", err)
	}
}

func (s *CommunityServiceImpl) bumpMemberCount(ctx context.Context, communityID string, delta int) {
	if err := s.communityRepo.ApplyCounterDelta(ctx, communityID, "member_count", delta); err != nil {
		log.WarnContext(ctx, "community member counter failed", "communityID", communityID, "err", err)
	}
	if err := redis.IncrBy(ctx, consts.CommunityMemberKey+communityID, int64(delta)); err != nil {
		log.WarnContext(ctx, "community member redis counter failed", "communityID", communityID, "err", err)
	}
}
