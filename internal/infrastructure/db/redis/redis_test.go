package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, err := Connect(context.Background(), Config{Addr: addr})
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestConnect_Password(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("s3cret")

	_, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	assert.Error(t, err)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), Password: "s3cret"})
	require.NoError(t, err)
	defer client.Close()
}

func TestPinger(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	pinger := NewPinger(client)
	assert.NoError(t, pinger.Ping(context.Background()))

	mr.Close()
	assert.Error(t, pinger.Ping(context.Background()))
}
