package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigOptions_URLWins(t *testing.T) {
	opts, err := Config{URL: "redis://:hunter2@cache:6380/3", Addr: "ignored:1"}.options()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "hunter2", opts.Password)
	assert.Equal(t, 3, opts.DB)
}

func TestConfigOptions_Fields(t *testing.T) {
	opts, err := Config{Addr: "localhost:6379", Password: "pw", DB: 1}.options()
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 1, opts.DB)
}

func TestConfigOptions_BadURL(t *testing.T) {
	_, err := Config{URL: "http://not-redis"}.options()
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "session:abc", (&SessionStore{}).key("abc"))
	assert.Equal(t, "notify:published:p1", (&DedupChecker{}).key("p1"))
}
