package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quillhub/blog/internal/core/domain"
	"github.com/quillhub/blog/internal/core/ports"
)

const collectionPosts = "posts"

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type postDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Slug      string             `bson:"slug"`
	Body      string             `bson:"body"`
	IsPrivate bool               `bson:"isPrivate"`
	Owner     primitive.ObjectID `bson:"owner"`
	Created   time.Time          `bson:"created"`
	Published *time.Time         `bson:"published,omitempty"`
}

func toPostDocument(p *domain.Post) (postDocument, error) {
	owner, err := primitive.ObjectIDFromHex(p.Owner)
	if err != nil {
		return postDocument{}, fmt.Errorf("post owner %q: %w", p.Owner, err)
	}
	return postDocument{
		Title:     p.Title,
		Slug:      p.Slug,
		Body:      p.Body,
		IsPrivate: p.IsPrivate,
		Owner:     owner,
		Created:   p.Created,
		Published: p.Published,
	}, nil
}

func (d postDocument) toDomain() *domain.Post {
	p := &domain.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Slug:      d.Slug,
		Body:      d.Body,
		IsPrivate: d.IsPrivate,
		Owner:     d.Owner.Hex(),
		Created:   d.Created.UTC(),
	}
	if d.Published != nil {
		ts := d.Published.UTC()
		p.Published = &ts
	}
	return p
}

// Create inserts a new post document and assigns its ID.
func (r *PostRepository) Create(ctx context.Context, p *domain.Post) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toPostDocument(p)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSlug
		}
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *PostRepository) findOne(ctx context.Context, filter bson.M) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// SlugsWithPrefix uses an anchored regex so the slug index can serve it.
func (r *PostRepository) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"slug": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(base)}}
	cur, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"slug": 1}))
	if err != nil {
		return nil, fmt.Errorf("find slugs: %w", err)
	}

	var docs []struct {
		Slug string `bson:"slug"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode slugs: %w", err)
	}

	slugs := make([]string, len(docs))
	for i, d := range docs {
		slugs[i] = d.Slug
	}
	return slugs, nil
}

// List returns a page of posts matching the filter, newest first.
func (r *PostRepository) List(ctx context.Context, f ports.ListPostsFilter) ([]*domain.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.OwnerIDs != nil {
		owners := make([]primitive.ObjectID, 0, len(f.OwnerIDs))
		for _, id := range f.OwnerIDs {
			if oid, err := primitive.ObjectIDFromHex(id); err == nil {
				owners = append(owners, oid)
			}
		}
		filter["owner"] = bson.M{"$in": owners}
	}
	if viewer, err := primitive.ObjectIDFromHex(f.ViewerID); err == nil {
		filter["$or"] = bson.A{
			bson.M{"isPrivate": false},
			bson.M{"owner": viewer},
		}
	} else {
		filter["isPrivate"] = false
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(f.Page.Skip()).
		SetLimit(int64(f.Page.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]*domain.Post, len(docs))
	for i, d := range docs {
		posts[i] = d.toDomain()
	}
	return posts, total, nil
}

// Update rewrites the mutable fields of a post. Slug, owner and created never change.
func (r *PostRepository) Update(ctx context.Context, p *domain.Post) error {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":     p.Title,
		"body":      p.Body,
		"isPrivate": p.IsPrivate,
	}
	if p.Published != nil {
		set["published"] = *p.Published
	}

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"owner": oid})
	if err != nil {
		return 0, fmt.Errorf("delete posts by owner: %w", err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates necessary indexes on the posts collection.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "owner", Value: 1}, {Key: "created", Value: -1}}},
		{Keys: bson.D{{Key: "isPrivate", Value: 1}, {Key: "created", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
