package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostActionRepo 帖子互动子记录（评论 / 点赞 / 举报）
type PostActionRepo interface {
	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, id string) (*Comment, error)
	DeleteComment(ctx context.Context, id string) error
	GetCommentsByPostID(ctx context.Context, postID string, page, pageSize int) ([]*Comment, error)

	CreateLike(ctx context.Context, like *Like) error
	DeleteLike(ctx context.Context, userID uint64, postID string) error
	CheckLikeExists(ctx context.Context, userID uint64, postID string) (bool, error)

	CreateReport(ctx context.Context, report *Report) error
	ResolveReportsByPostID(ctx context.Context, postID string) error
}

type postActionRepoImpl struct {
	comments *mongo.Collection
	likes    *mongo.Collection
	reports  *mongo.Collection
}

func NewPostActionRepo(db *mongo.Database) PostActionRepo {
	return &postActionRepoImpl{
		comments: db.Collection("comments"),
		likes:    db.Collection("likes"),
		reports:  db.Collection("reports"),
	}
}

func (s *postActionRepoImpl) CreateComment(ctx context.Context, comment *Comment) error {
	res, err := s.comments.InsertOne(ctx, comment)
	if err != nil {
		return errors.Wrap(err, "insert comment")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		comment.ID = oid.Hex()
	}
	return nil
}

func (s *postActionRepoImpl) GetComment(ctx context.Context, id string) (*Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var raw struct {
		Comment `bson:",inline"`
		OID     primitive.ObjectID `bson:"_id"`
	}
	err = s.comments.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get comment")
	}
	c := raw.Comment
	c.ID = raw.OID.Hex()
	return &c, nil
}

func (s *postActionRepoImpl) DeleteComment(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid comment id")
	}
	_, err = s.comments.DeleteOne(ctx, bson.M{"_id": oid})
	return errors.Wrap(err, "delete comment")
}

func (s *postActionRepoImpl) GetCommentsByPostID(ctx context.Context, postID string, page, pageSize int) ([]*Comment, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := s.comments.Find(ctx, bson.M{"post_id": postID}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find comments")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var raw []*struct {
		Comment `bson:",inline"`
		OID     primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, errors.Wrap(err, "decode comments")
	}

	comments := make([]*Comment, 0, len(raw))
	for _, r := range raw {
		c := r.Comment
		c.ID = r.OID.Hex()
		comments = append(comments, &c)
	}
	return comments, nil
}

func (s *postActionRepoImpl) CreateLike(ctx context.Context, like *Like) error {
	_, err := s.likes.InsertOne(ctx, like)
	return errors.Wrap(err, "insert like")
}

func (s *postActionRepoImpl) DeleteLike(ctx context.Context, userID uint64, postID string) error {
	_, err := s.likes.DeleteOne(ctx, bson.M{"user_id": userID, "post_id": postID})
	return errors.Wrap(err, "delete like")
}

func (s *postActionRepoImpl) CheckLikeExists(ctx context.Context, userID uint64, postID string) (bool, error) {
	count, err := s.likes.CountDocuments(ctx, bson.M{"user_id": userID, "post_id": postID})
	if err != nil {
		return false, errors.Wrap(err, "count likes")
	}
	return count > 0, nil
}

func (s *postActionRepoImpl) CreateReport(ctx context.Context, report *Report) error {
	_, err := s.reports.InsertOne(ctx, report)
	return errors.Wrap(err, "insert report")
}

func (s *postActionRepoImpl) ResolveReportsByPostID(ctx context.Context, postID string) error {
	_, err := s.reports.UpdateMany(ctx,
		bson.M{"post_id": postID, "resolved": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"resolved": true}},
	)
	return errors.Wrap(err, "resolve reports")
}
