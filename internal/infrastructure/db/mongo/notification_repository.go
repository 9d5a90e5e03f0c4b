package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillhub/blog/internal/core/domain"
)

const collectionNotifications = "notifications"

// NotificationRepository stores subscriber notifications in MongoDB.
type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

type notificationDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Recipient string             `bson:"recipient"`
	Author    string             `bson:"author"`
	PostID    string             `bson:"post_id"`
	PostSlug  string             `bson:"post_slug"`
	PostTitle string             `bson:"post_title"`
	Created   time.Time          `bson:"created"`
}

func (d notificationDocument) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:        d.ID.Hex(),
		Recipient: d.Recipient,
		Author:    d.Author,
		PostID:    d.PostID,
		PostSlug:  d.PostSlug,
		PostTitle: d.PostTitle,
		Created:   d.Created.UTC(),
	}
}

// InsertMany writes one document per notification and assigns their IDs.
func (r *NotificationRepository) InsertMany(ctx context.Context, notifications []*domain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, len(notifications))
	for i, n := range notifications {
		oid := primitive.NewObjectID()
		n.ID = oid.Hex()
		docs[i] = notificationDocument{
			ID:        oid,
			Recipient: n.Recipient,
			Author:    n.Author,
			PostID:    n.PostID,
			PostSlug:  n.PostSlug,
			PostTitle: n.PostTitle,
			Created:   n.Created.UTC(),
		}
	}

	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"recipient": recipientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	var docs []notificationDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}

	out := make([]*domain.Notification, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// DeleteByUser drops notifications the user received or caused.
func (r *NotificationRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": bson.A{bson.M{"recipient": userID}, bson.M{"author": userID}}}
	res, err := r.col.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete notifications by user: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created", Value: -1}},
	})
	return err
}
