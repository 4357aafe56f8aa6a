// Package redis keeps a bounded list of the newest ledger records in Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/fd1az/flashloan-bot/business/ledger/app"
	"github.com/fd1az/flashloan-bot/business/ledger/domain"
)

const recentKey = "flashbot:ledger:recent"

var _ app.RecentCache = (*Recent)(nil)

// Recent is a capped LPUSH/LTRIM list, newest at the head.
type Recent struct {
	rdb  redis.UniversalClient
	size int64
}

// NewRecent creates the read model holding at most size records.
func NewRecent(rdb redis.UniversalClient, size int64) *Recent {
	if size <= 0 {
		size = app.MaxRecentLimit
	}
	return &Recent{rdb: rdb, size: size}
}

func (r *Recent) Push(ctx context.Context, rec domain.TradeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("redis: marshal trade record: %w", err)
	}

	pipe := r.rdb.TxPipeline()
	pipe.LPush(ctx, recentKey, data)
	pipe.LTrim(ctx, recentKey, 0, r.size-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: push trade record: %w", err)
	}
	return nil
}

func (r *Recent) Recent(ctx context.Context, limit int) ([]domain.TradeRecord, error) {
	vals, err := r.rdb.LRange(ctx, recentKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: read recent trade records: %w", err)
	}

	recs := make([]domain.TradeRecord, 0, len(vals))
	for _, v := range vals {
		var rec domain.TradeRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("redis: decode trade record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
