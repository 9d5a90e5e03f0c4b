package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/quillhub/blog/internal/core/domain"
)

func TestPostDocument_RoundTrip(t *testing.T) {
	owner := primitive.NewObjectID()
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	published := created.Add(time.Minute)

	doc, err := toPostDocument(&domain.Post{
		Title:     "Hello",
		Slug:      "Hello",
		Body:      "b",
		Owner:     owner.Hex(),
		Created:   created,
		Published: &published,
	})
	require.NoError(t, err)
	assert.Equal(t, owner, doc.Owner)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded postDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	p := decoded.toDomain()
	assert.Equal(t, owner.Hex(), p.Owner)
	assert.True(t, created.Equal(p.Created))
	require.NotNil(t, p.Published)
	assert.True(t, published.Equal(*p.Published))
}

func TestPostDocument_UnpublishedOmitsField(t *testing.T) {
	doc, err := toPostDocument(&domain.Post{Slug: "s", Owner: primitive.NewObjectID().Hex(), IsPrivate: true})
	require.NoError(t, err)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	_, lookupErr := bson.Raw(raw).LookupErr("published")
	assert.Error(t, lookupErr)
	assert.Nil(t, doc.toDomain().Published)
}

func TestPostDocument_RejectsBadOwner(t *testing.T) {
	_, err := toPostDocument(&domain.Post{Owner: "not-an-object-id"})
	assert.Error(t, err)
}
