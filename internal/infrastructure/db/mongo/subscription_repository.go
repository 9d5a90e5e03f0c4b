package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillhub/blog/internal/core/domain"
)

const collectionSubscriptions = "subscriptions"

type SubscriptionRepository struct {
	col *mongo.Collection
}

func NewSubscriptionRepository(db *mongo.Database) *SubscriptionRepository {
	return &SubscriptionRepository{col: db.Collection(collectionSubscriptions)}
}

type subscriptionDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Owner   primitive.ObjectID `bson:"owner"`
	Target  primitive.ObjectID `bson:"target"`
	Created time.Time          `bson:"created"`
}

func (d subscriptionDocument) toDomain() *domain.Subscription {
	return &domain.Subscription{
		ID:      d.ID.Hex(),
		Owner:   d.Owner.Hex(),
		Target:  d.Target.Hex(),
		Created: d.Created.UTC(),
	}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *domain.Subscription) error {
	owner, err := primitive.ObjectIDFromHex(s.Owner)
	if err != nil {
		return fmt.Errorf("subscription owner %q: %w", s.Owner, err)
	}
	target, err := primitive.ObjectIDFromHex(s.Target)
	if err != nil {
		return fmt.Errorf("subscription target %q: %w", s.Target, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := subscriptionDocument{
		ID:      primitive.NewObjectID(),
		Owner:   owner,
		Target:  target,
		Created: s.Created,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSubscriptionExists
		}
		return fmt.Errorf("insert subscription: %w", err)
	}
	s.ID = doc.ID.Hex()
	return nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrSubscriptionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc subscriptionDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SubscriptionRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Subscription, error) {
	return r.listBy(ctx, "owner", ownerID)
}

func (r *SubscriptionRepository) ListByTarget(ctx context.Context, targetID string) ([]*domain.Subscription, error) {
	return r.listBy(ctx, "target", targetID)
}

func (r *SubscriptionRepository) listBy(ctx context.Context, field, id string) ([]*domain.Subscription, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return []*domain.Subscription{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{field: oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by %s: %w", field, err)
	}
	var docs []subscriptionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}

	subs := make([]*domain.Subscription, len(docs))
	for i, d := range docs {
		subs[i] = d.toDomain()
	}
	return subs, nil
}

// Update retargets a subscription. A clash with an existing pair maps to ErrSubscriptionExists.
func (r *SubscriptionRepository) Update(ctx context.Context, s *domain.Subscription) error {
	oid, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return domain.ErrSubscriptionNotFound
	}
	target, err := primitive.ObjectIDFromHex(s.Target)
	if err != nil {
		return fmt.Errorf("subscription target %q: %w", s.Target, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"target": target}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSubscriptionExists
		}
		return fmt.Errorf("update subscription: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrSubscriptionNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSubscriptionNotFound
	}
	return nil
}

func (r *SubscriptionRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{bson.M{"owner": oid}, bson.M{"target": oid}}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete subscriptions by user: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the unique (owner, target) index and the reverse lookup on target.
func (r *SubscriptionRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "target", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "target", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
