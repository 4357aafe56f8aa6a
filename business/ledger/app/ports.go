// Package app contains the ledger service and its storage ports.
package app

import (
	"context"
	"time"

	"github.com/fd1az/flashloan-bot/business/ledger/domain"
)

// Store is the durable append-only ledger.
type Store interface {
	// Append persists rec and returns it with ID and Timestamp assigned.
	Append(ctx context.Context, rec domain.TradeRecord) (domain.TradeRecord, error)
	// Recent returns at most limit records, newest first.
	Recent(ctx context.Context, limit int) ([]domain.TradeRecord, error)
	Summary(ctx context.Context, since time.Time) (domain.Summary, error)
	RankPairs(ctx context.Context, since time.Time) ([]domain.PairRank, error)
	RecordSample(ctx context.Context, s domain.TrainingSample) error
	Ping(ctx context.Context) error
}

// RecentCache is an optional bounded read model of the newest records.
type RecentCache interface {
	Push(ctx context.Context, rec domain.TradeRecord) error
	Recent(ctx context.Context, limit int) ([]domain.TradeRecord, error)
}
