package service

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/es"
	"Mundero/internal/pkg/mongo"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

type ModerationService interface {
	ReportPost(ctx context.Context, reporterID uint64, postID string, dto *dto.ReportPostDTO) error
	GetModerationQueue(ctx context.Context, page, pageSize int) ([]*mongo.Post, error)
	SetVisibility(ctx context.Context, actorID uint64, postID string, dto *dto.SetVisibilityDTO) error
}

type ModerationServiceImpl struct {
	postRepo   mongo.PostRepo
	actionRepo mongo.PostActionRepo
	postESRepo es.PostRepo
}

func NewModerationService(
	postRepo mongo.PostRepo,
	actionRepo mongo.PostActionRepo,
	postESRepo es.PostRepo,
) ModerationService {
	return &ModerationServiceImpl{
		postRepo:   postRepo,
		actionRepo: actionRepo,
		postESRepo: postESRepo,
	}
}

// ReportPost 写举报记录并在帖子上置标记
func (s *ModerationServiceImpl) ReportPost(ctx context.Context, reporterID uint64, postID string, reportDTO *dto.ReportPostDTO) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	report := &mongo.Report{
		PostID:     postID,
		ReporterID: reporterID,
		Reason:     reportDTO.Reason,
		CreatedAt:  time.Now(),
	}
	if err = s.actionRepo.CreateReport(ctx, report); err != nil {
		return err
	}

	return s.postRepo.MarkReported(ctx, postID)
}

// GetModerationQueue 被举报或已隐藏的帖子列表
func (s *ModerationServiceImpl) GetModerationQueue(ctx context.Context, page, pageSize int) ([]*mongo.Post, error) {
	return s.postRepo.FindReported(ctx, page, pageSize)
}

// SetVisibility 盖上审查人/原因/时间戳，并同步搜索索引
func (s *ModerationServiceImpl) SetVisibility(ctx context.Context, actorID uint64, postID string, visDTO *dto.SetVisibilityDTO) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	actor := strconv.FormatUint(actorID, 10)
	if err = s.postRepo.SetVisibility(ctx, postID, visDTO.Visible, actor, visDTO.Reason, time.Now()); err != nil {
		return err
	}

	// 恢复可见时一并关闭该帖的举报
	if visDTO.Visible {
		if rErr := s.actionRepo.ResolveReportsByPostID(ctx, postID); rErr != nil {
			log.WarnContext(ctx, "resolve reports failed", "postID", postID, "err", rErr)
		}
	}

	if esErr := s.postESRepo.SetPostHidden(ctx, postID, !visDTO.Visible); esErr != nil {
		log.WarnContext(ctx, "sync visibility to index failed", "postID", postID, "err", esErr)
	}
	return nil
}
