package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	infraredis "github.com/zescabedo/globalpayments-poc-sub001/infrastructure/redis"
)

func TestNewClient_EmptyAddress(t *testing.T) {
	t.Parallel()

	_, err := infraredis.NewClient(context.Background(), infraredis.Config{})
	require.ErrorIs(t, err, infraredis.ErrEmptyAddress)
}

func TestNewClient_Pings(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)

	client, err := infraredis.NewClient(context.Background(), infraredis.Config{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	mr.CheckGet(t, "k", "v")
}

func TestNewClient_Unreachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := infraredis.NewClient(context.Background(), infraredis.Config{Address: addr})
	require.Error(t, err)
}
