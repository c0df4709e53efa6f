package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	// FindInWindow 查询创建时间落在 [start, end] 闭区间内的帖子，按创建时间降序。
	// communityID 为空时不限制社区。
	FindInWindow(ctx context.Context, start, end time.Time, communityID string) ([]*Post, error)
	FindFeed(ctx context.Context, communityID string, page, pageSize int) ([]*Post, error)
	FindByAuthor(ctx context.Context, authorID uint64, page, pageSize int) ([]*Post, error)
	FindReported(ctx context.Context, page, pageSize int) ([]*Post, error)
	UpdateContent(ctx context.Context, id string, content string, updatedAt time.Time) error
	// ApplyEngagementDelta 按增量调整运行计数，field 取 likes/comments/shares/views
	ApplyEngagementDelta(ctx context.Context, id string, field string, delta int) error
	SetVisibility(ctx context.Context, id string, visible bool, actor, reason string, at time.Time) error
	MarkReported(ctx context.Context, id string) error
	// DeletePostCascade 硬删除帖子并级联删除其评论与点赞子记录
	DeletePostCascade(ctx context.Context, id string) error
}

type postRepoImpl struct {
	posts    *mongo.Collection
	comments *mongo.Collection
	likes    *mongo.Collection
}

func NewPostRepo(db *mongo.Database) PostRepo {
	return &postRepoImpl{
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
		likes:    db.Collection("likes"),
	}
}

func (s *postRepoImpl) CreatePost(ctx context.Context, post *Post) error {
	res, err := s.posts.InsertOne(ctx, post)
	if err != nil {
		return errors.Wrap(err, "insert post")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		post.ID = oid.Hex()
	}
	return nil
}

func (s *postRepoImpl) GetPost(ctx context.Context, id string) (*Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var post Post
	err = s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get post")
	}
	post.ID = id
	return normalizePost(&post), nil
}

func (s *postRepoImpl) FindInWindow(ctx context.Context, start, end time.Time, communityID string) ([]*Post, error) {
	filter := bson.M{
		"created_at": bson.M{"$gte": start, "$lte": end},
	}
	if communityID != "" {
		filter["community_id"] = communityID
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	return s.findPosts(ctx, filter, findOptions)
}

func (s *postRepoImpl) FindFeed(ctx context.Context, communityID string, page, pageSize int) ([]*Post, error) {
	filter := bson.M{
		"hidden": bson.M{"$ne": true},
	}
	if communityID != "" {
		filter["community_id"] = communityID
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	return s.findPosts(ctx, filter, findOptions)
}

func (s *postRepoImpl) FindByAuthor(ctx context.Context, authorID uint64, page, pageSize int) ([]*Post, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	return s.findPosts(ctx, bson.M{"author_id": authorID}, findOptions)
}

func (s *postRepoImpl) FindReported(ctx context.Context, page, pageSize int) ([]*Post, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	filter := bson.M{"$or": bson.A{
		bson.M{"has_reports": true},
		bson.M{"hidden": true},
	}}

	return s.findPosts(ctx, filter, findOptions)
}

func (s *postRepoImpl) findPosts(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Post, error) {
	cursor, err := s.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find posts")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var raw []*struct {
		Post `bson:",inline"`
		OID  primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, errors.Wrap(err, "decode posts")
	}

	posts := make([]*Post, 0, len(raw))
	for _, r := range raw {
		p := r.Post
		p.ID = r.OID.Hex()
		posts = append(posts, normalizePost(&p))
	}
	return posts, nil
}

func (s *postRepoImpl) UpdateContent(ctx context.Context, id string, content string, updatedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid post id")
	}

	_, err = s.posts.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"content":    content,
		"updated_at": updatedAt,
	}})
	return errors.Wrap(err, "update post content")
}

func (s *postRepoImpl) ApplyEngagementDelta(ctx context.Context, id string, field string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid post id")
	}

	_, err = s.posts.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$inc": bson.M{"engagement." + field: delta},
		"$set": bson.M{"updated_at": time.Now()},
	})
	return errors.Wrap(err, "apply engagement delta")
}

func (s *postRepoImpl) SetVisibility(ctx context.Context, id string, visible bool, actor, reason string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid post id")
	}

	_, err = s.posts.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"hidden":            !visible,
		"moderated_by":      actor,
		"moderation_reason": reason,
		"moderated_at":      at,
	}})
	return errors.Wrap(err, "set post visibility")
}

func (s *postRepoImpl) MarkReported(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid post id")
	}

	_, err = s.posts.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"has_reports": true}})
	return errors.Wrap(err, "mark post reported")
}

// DeletePostCascade 级联删除是全库唯一使用批量写的地方，
// 子记录先删，帖子本体最后删，失败即中断。
func (s *postRepoImpl) DeletePostCascade(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid post id")
	}

	if _, err = s.comments.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return errors.Wrap(err, "cascade delete comments")
	}
	if _, err = s.likes.DeleteMany(ctx, bson.M{"post_id": id}); err != nil {
		return errors.Wrap(err, "cascade delete likes")
	}
	if _, err = s.posts.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return errors.Wrap(err, "delete post")
	}
	return nil
}
