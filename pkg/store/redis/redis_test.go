package redis

import (
	"context"
	"testing"

	"github.com/nfvri/mimo-simulator/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func channelGroup() []model.ChannelData {
	link := model.ChannelData{BSID: 1001, UEID: 315010000000001}
	link.AddPath(model.PathInfo{Delay: 0, Power: 0.6, AoDAngle: 1.5, AoAAngle: -20})
	link.AddPath(model.PathInfo{Delay: 1.2e-7, Power: 0.4, AoDAngle: -3, AoAAngle: 35})
	return []model.ChannelData{link}
}

func TestMockedChannelGroup(t *testing.T) {
	ctx := context.Background()
	store := &MockedRedisStore{}
	var _ Store = store

	_, err := store.GetChannelGroup(ctx, "missing")
	assert.Error(t, err)

	require.NoError(t, store.AddChannelGroup(ctx, "snap-1", channelGroup()))
	group, err := store.GetChannelGroup(ctx, "snap-1")
	require.NoError(t, err)
	assert.Equal(t, channelGroup(), group)

	deleted, err := store.DeleteChannelGroup(ctx, "snap-1")
	require.NoError(t, err)
	assert.Len(t, deleted, 1)
	_, err = store.GetChannelGroup(ctx, "snap-1")
	assert.Error(t, err)
}

func TestMockedRunSummary(t *testing.T) {
	ctx := context.Background()
	store := &MockedRedisStore{}

	in := map[string]float64{"aggregateCapacity": 23.5}
	require.NoError(t, store.AddRunSummary(ctx, "run-1", in))

	out := map[string]float64{}
	require.NoError(t, store.GetRunSummary(ctx, "run-1", &out))
	assert.Equal(t, in, out)
	assert.Error(t, store.GetRunSummary(ctx, "run-2", &out))
}

func TestInitClient(t *testing.T) {
	client := InitClient("localhost", "6379", "2", "", "")
	require.NotNil(t, client)
	assert.Equal(t, "localhost:6379", client.Options().Addr)
	assert.Equal(t, 2, client.Options().DB)

	assert.Nil(t, InitClient("localhost", "6379", "zero", "", ""))
}

func TestConnectUnreachable(t *testing.T) {
	cfg := model.RedisConfig{Host: "127.0.0.1", Port: "1", DB: "0"}
	_, err := Connect(context.Background(), cfg, 0)
	assert.Error(t, err)

	cfg.DB = "x"
	_, err = Connect(context.Background(), cfg, 0)
	assert.Error(t, err)
}
