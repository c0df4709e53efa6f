package kafka

import (
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/mongo"
	"Mundero/internal/pkg/redis"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// EngagementHandler 消费互动事件，把运行计数累加到帖子与社区文档上
type EngagementHandler struct {
	postRepo      mongo.PostRepo
	communityRepo mongo.CommunityRepo
}

func NewEngagementHandler(postRepo mongo.PostRepo, communityRepo mongo.CommunityRepo) *EngagementHandler {
	return &EngagementHandler{
		postRepo:      postRepo,
		communityRepo: communityRepo,
	}
}

func (s *EngagementHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("engagement consumer setup")
	return nil
}

func (s *EngagementHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("engagement consumer cleanup")
	return nil
}

func (s *EngagementHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-engagement consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-engagement process batch error", "err", err)
		return err
	}
	return nil
}

func (s *EngagementHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event EngagementEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("unmarshal engagement event error", "err", err)
		// 毒丸消息直接跳过，避免无限重试
		return nil
	}

	field, countKey := actionTarget(event.Action)
	if field == "" {
		log.WarnContext(ctx, "unknown engagement action", "action", event.Action)
		return nil
	}

	// 运行计数只累加，不回查重算
	if err := s.postRepo.ApplyEngagementDelta(ctx, event.PostID, field, event.Delta); err != nil {
		return err
	}

	if err := redis.IncrBy(ctx, countKey+event.PostID, int64(event.Delta)); err != nil {
		log.WarnContext(ctx, "engagement redis counter failed", "postID", event.PostID, "err", err)
	}

	if event.CommunityID != "" {
		if statsField := communityStatsField(event.Action); statsField != "" {
			if err := s.communityRepo.ApplyStatsDelta(ctx, event.CommunityID, statsField, event.Delta); err != nil {
				log.WarnContext(ctx, "community stats delta failed", "communityID", event.CommunityID, "err", err)
			}
		}
	}

	log.InfoContext(ctx, "engagement event applied",
		"postID", event.PostID, "action", event.Action, "delta", event.Delta)
	return nil
}

// actionTarget 返回互动类型对应的文档字段和 Redis 计数键前缀
func actionTarget(action string) (field string, countKey string) {
	switch action {
	case consts.EngagementLike:
		return "likes", consts.PostLikeKey
	case consts.EngagementComment:
		return "comments", consts.PostCommentKey
	case consts.EngagementShare:
		return "shares", consts.PostShareKey
	case consts.EngagementView:
		return "views", consts.PostViewKey
	default:
		return "", ""
	}
}

// communityStatsField 浏览不计入社区统计
func communityStatsField(action string) string {
	switch action {
	case consts.EngagementLike:
		return "total_likes"
	case consts.EngagementComment:
		return "total_comments"
	default:
		return ""
	}
}
