package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AlertRepo interface {
	// SaveAlert 单条写入，多条预警之间无事务，部分失败不回滚
	SaveAlert(ctx context.Context, alert *Alert) error
	ListAlerts(ctx context.Context, communityID string, max int) ([]*Alert, error)
	DismissAlert(ctx context.Context, id string) error
}

type alertRepoImpl struct {
	col *mongo.Collection
}

func NewAlertRepo(db *mongo.Database) AlertRepo {
	return &alertRepoImpl{
		col: db.Collection("alerts"),
	}
}

func (s *alertRepoImpl) SaveAlert(ctx context.Context, alert *Alert) error {
	_, err := s.col.InsertOne(ctx, alert)
	return errors.Wrap(err, "insert alert")
}

func (s *alertRepoImpl) ListAlerts(ctx context.Context, communityID string, max int) ([]*Alert, error) {
	filter := bson.M{"dismissed": bson.M{"$ne": true}}
	if communityID != "" {
		filter["metadata.community_id"] = communityID
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(max))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find alerts")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var alerts []*Alert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, errors.Wrap(err, "decode alerts")
	}
	return alerts, nil
}

func (s *alertRepoImpl) DismissAlert(ctx context.Context, id string) error {
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"dismissed": true}})
	return errors.Wrap(err, "dismiss alert")
}
