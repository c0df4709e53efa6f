package service

import (
	"Mundero/internal/api/dto"
	"Mundero/internal/pkg/consts"
	"Mundero/internal/pkg/es"
	"Mundero/internal/pkg/kafka"
	"Mundero/internal/pkg/linkpreview"
	"Mundero/internal/pkg/mongo"
	"Mundero/internal/pkg/redis"
	"Mundero/internal/repository"
	"context"
	log "log/slog"
	"regexp"
	"time"

	"github.com/goccy/go-json"
)

var urlRegex = regexp.MustCompile(`https?://\S+`)

type FeedService interface {
	CreatePost(ctx context.Context, authorID uint64, dto *dto.CreatePostDTO) (*mongo.Post, error)
	GetFeed(ctx context.Context, communityID string, page, pageSize int) ([]*mongo.Post, error)
	GetPost(ctx context.Context, id string) (*mongo.Post, error)
	UpdatePost(ctx context.Context, actorID uint64, id string, dto *dto.UpdatePostDTO) error
	DeletePost(ctx context.Context, actorID uint64, isAdmin bool, id string) error
	LikePost(ctx context.Context, userID uint64, postID string) error
	UnlikePost(ctx context.Context, userID uint64, postID string) error
	AddComment(ctx context.Context, userID uint64, postID string, dto *dto.CommentCreateDTO) (*mongo.Comment, error)
	DeleteComment(ctx context.Context, actorID uint64, isAdmin bool, commentID string) error
	GetComments(ctx context.Context, postID string, page, pageSize int) ([]*mongo.Comment, error)
	SharePost(ctx context.Context, userID uint64, postID string) error
	TrackView(ctx context.Context, userID uint64, postID string) error
	SearchPosts(ctx context.Context, query *dto.SearchPostsQuery) ([]*es.PostES, error)
}

type FeedServiceImpl struct {
	postRepo      mongo.PostRepo
	actionRepo    mongo.PostActionRepo
	communityRepo mongo.CommunityRepo
	postESRepo    es.PostRepo
	userRepo      repository.UserRepo
	producer      kafka.Producer
	previewer     linkpreview.Fetcher
}

func NewFeedService(
	postRepo mongo.PostRepo,
	actionRepo mongo.PostActionRepo,
	communityRepo mongo.CommunityRepo,
	postESRepo es.PostRepo,
	userRepo repository.UserRepo,
	producer kafka.Producer,
	previewer linkpreview.Fetcher,
) FeedService {
	return &FeedServiceImpl{
		postRepo:      postRepo,
		actionRepo:    actionRepo,
		communityRepo: communityRepo,
		postESRepo:    postESRepo,
		userRepo:      userRepo,
		producer:      producer,
		previewer:     previewer,
	}
}

func (s *FeedServiceImpl) CreatePost(ctx context.Context, authorID uint64, postDTO *dto.CreatePostDTO) (*mongo.Post, error) {
	author, err := s.userRepo.GetUserById(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil || author.IsDelete {
		return nil, ErrUserNotFound
	}
	if author.IsBan {
		return nil, ErrUserBan
	}

	communityName := ""
	if postDTO.CommunityID != "" {
		community, cErr := s.communityRepo.GetCommunity(ctx, postDTO.CommunityID)
		if cErr != nil {
			return nil, cErr
		}
		if community == nil {
			return nil, ErrCommunityNotFound
		}
		membership, mErr := s.communityRepo.GetMembership(ctx, postDTO.CommunityID, authorID)
		if mErr != nil {
			return nil, mErr
		}
		if membership == nil || membership.Status != consts.MemberStatusActive {
			return nil, ErrPermissionDenied
		}
		if !membership.Permissions.CanPost {
			return nil, ErrPermissionDenied
		}
		communityName = community.Name
	}

	contentType := postDTO.ContentType
	if contentType == "" {
		contentType = consts.PostTypeText
	}
	visibility := postDTO.Visibility
	if visibility == "" {
		visibility = consts.VisibilityPublic
	}

	now := time.Now()
	post := &mongo.Post{
		AuthorID:      authorID,
		AuthorName:    author.UserDetail.DisplayName,
		CommunityID:   postDTO.CommunityID,
		CommunityName: communityName,
		Content:       postDTO.Content,
		ContentType:   contentType,
		Visibility:    visibility,
		MediaURLs:     postDTO.MediaURLs,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// 取正文首个链接的元信息，抓取失败不阻塞发帖
	if url := urlRegex.FindString(postDTO.Content); url != "" {
		if preview, pErr := s.previewer.Fetch(ctx, url); pErr == nil {
			post.LinkPreview = &mongo.LinkPreview{
				URL:         preview.URL,
				Title:       preview.Title,
				Description: preview.Description,
				ImageURL:    preview.ImageURL,
			}
		}
	}

	if err = s.postRepo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	if post.CommunityID != "" {
		if cErr := s.communityRepo.ApplyCounterDelta(ctx, post.CommunityID, "post_count", 1); cErr != nil {
			log.WarnContext(ctx, "community post counter failed", "communityID", post.CommunityID, "err", cErr)
		}
		if cErr := s.communityRepo.ApplyStatsDelta(ctx, post.CommunityID, "total_posts", 1); cErr != nil {
			log.WarnContext(ctx, "community stats counter failed", "communityID", post.CommunityID, "err", cErr)
		}
	}

	// 事件丢失只影响索引与审查，不回滚帖子本身
	if pErr := s.producer.PublishPost(&kafka.PostEvent{PostID: post.ID, Type: kafka.PostEventCreated}); pErr != nil {
		log.WarnContext(ctx, "publish post created event failed", "postID", post.ID, "err", pErr)
	}

	s.publishFeedEvent(ctx, post)

	return post, nil
}

func (s *FeedServiceImpl) GetFeed(ctx context.Context, communityID string, page, pageSize int) ([]*mongo.Post, error) {
	return s.postRepo.FindFeed(ctx, communityID, page, pageSize)
}

func (s *FeedServiceImpl) GetPost(ctx context.Context, id string) (*mongo.Post, error) {
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *FeedServiceImpl) UpdatePost(ctx context.Context, actorID uint64, id string, updateDTO *dto.UpdatePostDTO) error {
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != actorID {
		return ErrPostNotAuthor
	}

	if err = s.postRepo.UpdateContent(ctx, id, updateDTO.Content, time.Now()); err != nil {
		return err
	}

	// 重新入索引
	if pErr := s.producer.PublishPost(&kafka.PostEvent{PostID: id, Type: kafka.PostEventCreated}); pErr != nil {
		log.WarnContext(ctx, "publish post updated event failed", "postID", id, "err", pErr)
	}
	return nil
}

// DeletePost 硬删除并级联清理子记录，作者或管理员可执行
func (s *FeedServiceImpl) DeletePost(ctx context.Context, actorID uint64, isAdmin bool, id string) error {
	post, err := s.postRepo.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != actorID && !isAdmin {
		return ErrPostNotAuthor
	}

	if err = s.postRepo.DeletePostCascade(ctx, id); err != nil {
		return err
	}

	if post.CommunityID != "" {
		if cErr := s.communityRepo.ApplyCounterDelta(ctx, post.CommunityID, "post_count", -1); cErr != nil {
			log.WarnContext(ctx, "community post counter failed", "communityID", post.CommunityID, "err", cErr)
		}
	}

	if pErr := s.producer.PublishPost(&kafka.PostEvent{PostID: id, Type: kafka.PostEventDeleted}); pErr != nil {
		log.WarnContext(ctx, "publish post deleted event failed", "postID", id, "err", pErr)
	}
	return nil
}

func (s *FeedServiceImpl) LikePost(ctx context.Context, userID uint64, postID string) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	exists, err := s.actionRepo.CheckLikeExists(ctx, userID, postID)
	if err != nil {
		return err
	}
	if exists {
		return ErrActionDuplicate
	}

	like := &mongo.Like{
		PostID:    postID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if err = s.actionRepo.CreateLike(ctx, like); err != nil {
		return err
	}

	s.emitEngagement(ctx, post, userID, consts.EngagementLike, 1)
	return nil
}

func (s *FeedServiceImpl) UnlikePost(ctx context.Context, userID uint64, postID string) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	exists, err := s.actionRepo.CheckLikeExists(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrActionDuplicate
	}

	if err = s.actionRepo.DeleteLike(ctx, userID, postID); err != nil {
		return err
	}

	s.emitEngagement(ctx, post, userID, consts.EngagementLike, -1)
	return nil
}

func (s *FeedServiceImpl) AddComment(ctx context.Context, userID uint64, postID string, commentDTO *dto.CommentCreateDTO) (*mongo.Comment, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	comment := &mongo.Comment{
		PostID:     postID,
		AuthorID:   userID,
		AuthorName: user.UserDetail.DisplayName,
		Content:    commentDTO.Content,
		CreatedAt:  time.Now(),
	}
	if err = s.actionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.emitEngagement(ctx, post, userID, consts.EngagementComment, 1)
	return comment, nil
}

func (s *FeedServiceImpl) DeleteComment(ctx context.Context, actorID uint64, isAdmin bool, commentID string) error {
	comment, err := s.actionRepo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != actorID && !isAdmin {
		return ErrPostNotAuthor
	}

	if err = s.actionRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	post, err := s.postRepo.GetPost(ctx, comment.PostID)
	if err != nil || post == nil {
		// 帖子可能已被级联删除，计数无需回退
		return nil
	}
	s.emitEngagement(ctx, post, actorID, consts.EngagementComment, -1)
	return nil
}

func (s *FeedServiceImpl) GetComments(ctx context.Context, postID string, page, pageSize int) ([]*mongo.Comment, error) {
	return s.actionRepo.GetCommentsByPostID(ctx, postID, page, pageSize)
}

func (s *FeedServiceImpl) SharePost(ctx context.Context, userID uint64, postID string) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	s.emitEngagement(ctx, post, userID, consts.EngagementShare, 1)
	return nil
}

func (s *FeedServiceImpl) TrackView(ctx context.Context, userID uint64, postID string) error {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	s.emitEngagement(ctx, post, userID, consts.EngagementView, 1)
	return nil
}

func (s *FeedServiceImpl) SearchPosts(ctx context.Context, query *dto.SearchPostsQuery) ([]*es.PostES, error) {
	from := (query.Page - 1) * query.PageSize
	return s.postESRepo.SearchPosts(ctx, query.Keyword, query.CommunityID, from, query.PageSize)
}

// emitEngagement 发布互动事件。子记录已落库，事件丢失是允许的计数漂移。
func (s *FeedServiceImpl) emitEngagement(ctx context.Context, post *mongo.Post, actorID uint64, action string, delta int) {
	event := &kafka.EngagementEvent{
		PostID:      post.ID,
		ActorID:     actorID,
		CommunityID: post.CommunityID,
		Action:      action,
		Delta:       delta,
	}
	if err := s.producer.PublishEngagement(event); err != nil {
		log.WarnContext(ctx, "publish engagement event failed",
			"postID", post.ID, "action", action, "err", err)
	}
}

// publishFeedEvent 新帖通过 pubsub 推给在线订阅者
func (s *FeedServiceImpl) publishFeedEvent(ctx context.Context, post *mongo.Post) {
	payload, err := json.Marshal(post)
	if err != nil {
		return
	}
	channel := consts.FeedChannelKey + "global"
	if post.CommunityID != "" {
		channel = consts.FeedChannelKey + post.CommunityID
	}
	if err = redis.Publish(ctx, channel, string(payload)); err != nil {
		log.WarnContext(ctx, "publish feed event failed", "postID", post.ID, "err", err)
	}
}
