// Package redislock guards the signer nonce across bot processes with a
// Redis lock.
package redislock

import (
	"context"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/fd1az/flashloan-bot/business/blockchain/app"
	"github.com/fd1az/flashloan-bot/internal/apperror"
)

// unlockLua deletes the key only while it still holds the caller's token.
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

var _ app.SignerLock = (*Lock)(nil)

// Lock implements app.SignerLock with SETNX plus a token-checked unlock.
type Lock struct {
	rdb      redis.UniversalClient
	ttl      time.Duration
	unlockSc *redis.Script
}

// New creates a Lock. ttl bounds how long a crashed holder blocks others.
func New(rdb redis.UniversalClient, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Lock{
		rdb:      rdb,
		ttl:      ttl,
		unlockSc: redis.NewScript(unlockLua),
	}
}

func lockKey(signer common.Address) string {
	return "flashbot:lock:signer:" + strings.ToLower(signer.Hex())
}

// Acquire takes the signer lock without waiting.
func (l *Lock) Acquire(ctx context.Context, signer common.Address) (func(), error) {
	token := uuid.New().String()
	key := lockKey(signer)

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, apperror.New(apperror.CodeServiceUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("redis signer lock"))
	}
	if !ok {
		return nil, apperror.New(apperror.CodeSignerBusy,
			apperror.WithContext(signer.Hex()))
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true

		// the caller's context may already be done
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = l.unlockSc.Run(unlockCtx, l.rdb, []string{key}, token).Err()
	}, nil
}
