package remote

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexisa/legal-document-processor/lib/legal"
)

// Set REDIS_TEST_PORT to run against a live redis on localhost.
const redisPortEnvVar = "REDIS_TEST_PORT"

func TestRedisClient(t *testing.T) {
	port, err := strconv.Atoi(os.Getenv(redisPortEnvVar))
	if err != nil {
		t.Skipf("set %s to run redis tests", redisPortEnvVar)
	}

	client := NewRedisClient(RedisConfig{Host: "localhost", Port: port, TTL: time.Minute})
	require.True(t, client.Ready())

	ctx := context.Background()
	key := legal.DefaultConfig().CacheKey("redis-test")

	expected := legal.EmptyDocument("redis-test")
	require.NoError(t, client.Set(ctx, key, expected))

	doc, err := client.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, expected, *doc)

	doc, err = client.Get(ctx, key+"-missing")
	require.NoError(t, err)
	assert.Nil(t, doc)
}
