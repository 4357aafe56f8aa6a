//go:build integration

package redislock

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fd1az/flashloan-bot/internal/apperror"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestLockIsExclusivePerSigner(t *testing.T) {
	rdb := startRedis(t)
	lock := New(rdb, 5*time.Second)
	ctx := context.Background()

	signer := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	other := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")

	release, err := lock.Acquire(ctx, signer)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, signer)
	assert.Equal(t, apperror.CodeSignerBusy, apperror.GetCode(err))

	releaseOther, err := lock.Acquire(ctx, other)
	require.NoError(t, err)
	releaseOther()

	release()
	release() // second release is a no-op

	again, err := lock.Acquire(ctx, signer)
	require.NoError(t, err)
	again()
}

func TestLockExpires(t *testing.T) {
	rdb := startRedis(t)
	lock := New(rdb, time.Second)
	ctx := context.Background()
	signer := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	_, err := lock.Acquire(ctx, signer)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		release, err := lock.Acquire(ctx, signer)
		if err != nil {
			return false
		}
		release()
		return true
	}, 5*time.Second, 100*time.Millisecond)
}
