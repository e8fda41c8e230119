package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/alpha-clean/internal/config"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
)

func TestConnectExternal(t *testing.T) {
	mr := miniredis.RunT(t)

	client, closer, err := Connect(context.Background(), &config.Config{RedisAddr: mr.Addr()}, logging.Discard())
	require.NoError(t, err)
	defer closer()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestConnectEmbeddedInDevelopment(t *testing.T) {
	client, closer, err := Connect(context.Background(), &config.Config{Env: "development"}, logging.Discard())
	require.NoError(t, err)
	defer closer()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConnectRequiresAddrInProduction(t *testing.T) {
	_, _, err := Connect(context.Background(), &config.Config{Env: "production"}, logging.Discard())
	assert.Error(t, err)
}

func TestConnectUnreachable(t *testing.T) {
	_, _, err := Connect(context.Background(), &config.Config{RedisAddr: "127.0.0.1:1"}, logging.Discard())
	assert.Error(t, err)
}
