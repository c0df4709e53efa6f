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

type CommunityRepo interface {
	CreateCommunity(ctx context.Context, community *Community) error
	GetCommunity(ctx context.Context, id string) (*Community, error)
	ListCommunities(ctx context.Context, category string, page, pageSize int) ([]*Community, error)
	// UpdateCommunityInfo 只更新非空字段，nil 表示保持原值
	UpdateCommunityInfo(ctx context.Context, id string, description, category *string, isPrivate *bool, settings *CommunitySettings, updatedAt time.Time) error
	UpdateAdminIDs(ctx context.Context, id string, adminIDs []uint64) error
	// ApplyCounterDelta 调整 member_count / post_count 运行计数
	ApplyCounterDelta(ctx context.Context, id string, field string, delta int) error
	ApplyStatsDelta(ctx context.Context, id string, field string, delta int) error
	DeleteCommunity(ctx context.Context, id string) error

	CreateMembership(ctx context.Context, membership *Membership) error
	GetMembership(ctx context.Context, communityID string, userID uint64) (*Membership, error)
	ListMemberships(ctx context.Context, communityID string, status string, page, pageSize int) ([]*Membership, error)
	UpdateMembership(ctx context.Context, id string, role, status string, perms MemberPermissions, updatedAt time.Time) error
	DeleteMembership(ctx context.Context, communityID string, userID uint64) error
}

type communityRepoImpl struct {
	communities *mongo.Collection
	memberships *mongo.Collection
}

func NewCommunityRepo(db *mongo.Database) CommunityRepo {
	return &communityRepoImpl{
		communities: db.Collection("communities"),
		memberships: db.Collection("memberships"),
	}
}

func (s *communityRepoImpl) CreateCommunity(ctx context.Context, community *Community) error {
	res, err := s.communities.InsertOne(ctx, community)
	if err != nil {
		return errors.Wrap(err, "insert community")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		community.ID = oid.Hex()
	}
	return nil
}

func (s *communityRepoImpl) GetCommunity(ctx context.Context, id string) (*Community, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var raw struct {
		Community `bson:",inline"`
		OID       primitive.ObjectID `bson:"_id"`
	}
	err = s.communities.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get community")
	}
	c := raw.Community
	c.ID = raw.OID.Hex()
	return &c, nil
}

func (s *communityRepoImpl) ListCommunities(ctx context.Context, category string, page, pageSize int) ([]*Community, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "member_count", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := s.communities.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find communities")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var raw []*struct {
		Community `bson:",inline"`
		OID       primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, errors.Wrap(err, "decode communities")
	}

	communities := make([]*Community, 0, len(raw))
	for _, r := range raw {
		c := r.Community
		c.ID = r.OID.Hex()
		communities = append(communities, &c)
	}
	return communities, nil
}

func (s *communityRepoImpl) UpdateCommunityInfo(ctx context.Context, id string, description, category *string, isPrivate *bool, settings *CommunitySettings, updatedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid community id")
	}

	set := bson.M{"updated_at": updatedAt}
	if description != nil {
		set["description"] = *description
	}
	if category != nil {
		set["category"] = *category
	}
	if isPrivate != nil {
		set["is_private"] = *isPrivate
	}
	if settings != nil {
		set["settings"] = *settings
	}

	_, err = s.communities.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	return errors.Wrap(err, "update community info")
}

func (s *communityRepoImpl) UpdateAdminIDs(ctx context.Context, id string, adminIDs []uint64) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid community id")
	}

	_, err = s.communities.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"admin_ids": adminIDs}})
	return errors.Wrap(err, "update community admins")
}

func (s *communityRepoImpl) ApplyCounterDelta(ctx context.Context, id string, field string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid community id")
	}

	_, err = s.communities.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{field: delta}})
	return errors.Wrap(err, "apply community counter delta")
}

func (s *communityRepoImpl) ApplyStatsDelta(ctx context.Context, id string, field string, delta int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid community id")
	}

	_, err = s.communities.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"stats." + field: delta}})
	return errors.Wrap(err, "apply community stats delta")
}

func (s *communityRepoImpl) DeleteCommunity(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid community id")
	}

	if _, err = s.memberships.DeleteMany(ctx, bson.M{"community_id": id}); err != nil {
		return errors.Wrap(err, "cascade delete memberships")
	}
	if _, err = s.communities.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return errors.Wrap(err, "delete community")
	}
	return nil
}

func (s *communityRepoImpl) CreateMembership(ctx context.Context, membership *Membership) error {
	res, err := s.memberships.InsertOne(ctx, membership)
	if err != nil {
		return errors.Wrap(err, "insert membership")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		membership.ID = oid.Hex()
	}
	return nil
}

func (s *communityRepoImpl) GetMembership(ctx context.Context, communityID string, userID uint64) (*Membership, error) {
	var raw struct {
		Membership `bson:",inline"`
		OID        primitive.ObjectID `bson:"_id"`
	}
	err := s.memberships.FindOne(ctx, bson.M{
		"community_id": communityID,
		"user_id":      userID,
	}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get membership")
	}
	m := raw.Membership
	m.ID = raw.OID.Hex()
	return &m, nil
}

func (s *communityRepoImpl) ListMemberships(ctx context.Context, communityID string, status string, page, pageSize int) ([]*Membership, error) {
	filter := bson.M{"community_id": communityID}
	if status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "joined_at", Value: 1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := s.memberships.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find memberships")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var raw []*struct {
		Membership `bson:",inline"`
		OID        primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, errors.Wrap(err, "decode memberships")
	}

	memberships := make([]*Membership, 0, len(raw))
	for _, r := range raw {
		m := r.Membership
		m.ID = r.OID.Hex()
		memberships = append(memberships, &m)
	}
	return memberships, nil
}

func (s *communityRepoImpl) UpdateMembership(ctx context.Context, id string, role, status string, perms MemberPermissions, updatedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrap(err, "invalid membership id")
	}

	_, err = s.memberships.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"role":        role,
		"status":      status,
		"permissions": perms,
		"updated_at":  updatedAt,
	}})
	return errors.Wrap(err, "update membership")
}

func (s *communityRepoImpl) DeleteMembership(ctx context.Context, communityID string, userID uint64) error {
	_, err := s.memberships.DeleteOne(ctx, bson.M{
		"community_id": communityID,
		"user_id":      userID,
	})
	return errors.Wrap(err, "delete membership")
}
