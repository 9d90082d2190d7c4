package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr := miniredis.RunT(t)

	client, err := NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{
			name:        "Valid Redis URL",
			url:         "redis://" + mr.Addr() + "/0",
			expectError: false,
		},
		{
			name:        "Invalid scheme",
			url:         "invalid://url",
			expectError: true,
		},
		{
			name:        "Empty URL",
			url:         "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, "test", nil)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, client)
			assert.NotNil(t, client.KeyBuilder)
			assert.NoError(t, client.Close())
		})
	}
}

func TestClient_Get(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("test:key1", "value1"))

	value, err := client.Get(ctx, "test:key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", value)

	_, err = client.Get(ctx, "test:missing")
	assert.ErrorIs(t, err, Nil)
}

func TestClient_IncrBy(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	v, err := client.IncrBy(ctx, "test:counter", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	v, err = client.IncrBy(ctx, "test:counter", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)
}

func TestClient_RunScript(t *testing.T) {
	_, client := setupTestRedis(t)
	ctx := context.Background()

	script := goredis.NewScript(`
redis.call("SET", KEYS[1], ARGV[1])
return redis.call("GET", KEYS[1])
`)

	res, err := client.RunScript(ctx, script, []string{"test:script"}, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", res)

	// second run goes through EVALSHA
	res, err = client.RunScript(ctx, script, []string{"test:script"}, "again")
	require.NoError(t, err)
	assert.Equal(t, "again", res)
}

func TestClient_Health(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	assert.NoError(t, client.Health(ctx))

	mr.Close()
	assert.Error(t, client.Health(ctx))
}

func TestPrefixForLog(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"short", "short"},
		{"prod:ledger:balance:alice", "prod:ledger:balance:…"},
		{"test:ledger:balance:abcdefghijk", "test:ledger:balance:…"},
		{"staging:ledger:balance:ผู้ใช้", "staging:ledger:balance:…"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, prefixForLog(tt.key))
		})
	}
}
