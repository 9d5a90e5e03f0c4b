package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_SetPrivate_PublishesOnce(t *testing.T) {
	p := &Post{IsPrivate: true}
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	assert.True(t, p.SetPrivate(false, first))
	require.NotNil(t, p.Published)
	assert.Equal(t, first, *p.Published)

	assert.False(t, p.SetPrivate(true, first.Add(time.Hour)))
	assert.False(t, p.SetPrivate(false, first.Add(2*time.Hour)))
	assert.Equal(t, first, *p.Published, "published must not move")
	assert.False(t, p.IsPrivate)
}

func TestPost_SetPrivate_StaysUnpublishedWhilePrivate(t *testing.T) {
	p := &Post{}
	assert.False(t, p.SetPrivate(true, time.Now()))
	assert.Nil(t, p.Published)
	assert.True(t, p.IsPrivate)
}

func TestPost_Visibility(t *testing.T) {
	public := &Post{Owner: "u1"}
	private := &Post{Owner: "u1", IsPrivate: true}

	assert.True(t, public.VisibleTo(""))
	assert.True(t, public.VisibleTo("u2"))
	assert.False(t, private.VisibleTo(""))
	assert.False(t, private.VisibleTo("u2"))
	assert.True(t, private.VisibleTo("u1"))

	assert.False(t, (&Post{}).OwnedBy(""), "ownerless posts are owned by nobody")
}
