package kafka

import (
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/es"
	"Mundero/internal/pkg/mongo"
	"Mundero/internal/pkg/processor"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// PostHandler 消费帖子生命周期事件：入索引、内容审查、删索引
type PostHandler struct {
	postRepo      mongo.PostRepo
	communityRepo mongo.CommunityRepo
	postESRepo    es.PostRepo
	screener      processor.ContentScreener
}

func NewPostHandler(
	postRepo mongo.PostRepo,
	communityRepo mongo.CommunityRepo,
	postESRepo es.PostRepo,
	screener processor.ContentScreener,
) *PostHandler {
	return &PostHandler{
		postRepo:      postRepo,
		communityRepo: communityRepo,
		postESRepo:    postESRepo,
		screener:      screener,
	}
}

func (s *PostHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post consumer setup")
	return nil
}

func (s *PostHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post consumer cleanup")
	return nil
}

func (s *PostHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-post consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-post process batch error", "err", err)
		return err
	}
	return nil
}

func (s *PostHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var event PostEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("unmarshal post event error", "err", err)
		return nil
	}

	switch event.Type {
	case PostEventCreated:
		return s.handleCreated(ctx, event.PostID)
	case PostEventDeleted:
		return s.handleDeleted(ctx, event.PostID)
	default:
		return nil
	}
}

func (s *PostHandler) handleCreated(ctx context.Context, postID string) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		log.WarnContext(ctx, "post event for missing post", "postID", postID)
		return nil
	}

	// 异步内容审查，不安全内容由系统隐藏
	safe, err := s.screener.Screen(ctx, post.Content)
	if err != nil {
		log.WarnContext(ctx, "content screening failed, keep post visible", "postID", postID, "err", err)
		safe = true
	}
	if !safe {
		now := time.Now()
		if err = s.postRepo.SetVisibility(ctx, postID, false, consts.ModeratorSystem, "content policy violation", now); err != nil {
			return err
		}
		post.Hidden = true
		log.InfoContext(ctx, "post auto hidden by screening", "postID", postID)
	}

	communityName := ""
	if post.CommunityID != "" {
		community, cErr := s.communityRepo.GetCommunity(ctx, post.CommunityID)
		if cErr != nil {
			log.WarnContext(ctx, "resolve community for index failed", "communityID", post.CommunityID, "err", cErr)
		} else if community != nil {
			communityName = community.Name
		}
	}

	doc := &es.PostES{
		ID:            post.ID,
		AuthorID:      post.AuthorID,
		AuthorName:    post.AuthorName,
		CommunityID:   post.CommunityID,
		CommunityName: communityName,
		Content:       post.Content,
		ContentType:   post.ContentType,
		Visibility:    post.Visibility,
		Hidden:        post.Hidden,
		HasReports:    post.HasReports,
		LikesCount:    int64(post.Engagement.Likes),
		CommentsCount: int64(post.Engagement.Comments),
		SharesCount:   int64(post.Engagement.Shares),
		CreatedAt:     post.CreatedAt,
	}

	if err = s.postESRepo.IndexPost(ctx, doc, post.UpdatedAt.UnixMilli()); err != nil {
		return err
	}

	log.InfoContext(ctx, "post indexed", "postID", postID, "hidden", post.Hidden)
	return nil
}

func (s *PostHandler) handleDeleted(ctx context.Context, postID string) error {
	if err := s.postESRepo.DeletePost(ctx, postID); err != nil {
		return err
	}
	log.InfoContext(ctx, "post removed from index", "postID", postID)
	return nil
}
