package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fd1az/flashloan-bot/business/ledger/app"
	"github.com/fd1az/flashloan-bot/business/ledger/domain"
)

var _ app.Store = (*Store)(nil)

// Store implements app.Store on the trade_records and training_samples tables.
type Store struct {
	client *Client
	pool   *pgxpool.Pool
}

// NewStore creates a store on an already migrated client.
func NewStore(client *Client) *Store {
	return &Store{client: client, pool: client.Pool()}
}

// Numerics cross the wire as text so decimal precision is kept exactly.
const recordSelectCols = `id::text, pair, amount_usd::text, profit_usd::text, status, tx_hash, reason, created_at`

func (s *Store) Append(ctx context.Context, rec domain.TradeRecord) (domain.TradeRecord, error) {
	const query = `
		INSERT INTO trade_records (id, pair, amount_usd, profit_usd, status, tx_hash, reason)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7)
		RETURNING created_at`

	rec.ID = uuid.NewString()
	err := s.pool.QueryRow(ctx, query,
		rec.ID, rec.Pair, rec.AmountUSD.String(), rec.ProfitUSD.String(),
		string(rec.Status), rec.TxHash, rec.Reason,
	).Scan(&rec.Timestamp)
	if err != nil {
		return rec, fmt.Errorf("postgres: insert trade record: %w", err)
	}
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, nil
}

func (s *Store) Recent(ctx context.Context, limit int) ([]domain.TradeRecord, error) {
	query := `SELECT ` + recordSelectCols + ` FROM trade_records ORDER BY created_at DESC, seq DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent trade records: %w", err)
	}
	defer rows.Close()

	var recs []domain.TradeRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate trade records: %w", err)
	}
	return recs, nil
}

func (s *Store) Summary(ctx context.Context, since time.Time) (domain.Summary, error) {
	const query = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'success'),
			COUNT(*) FILTER (WHERE status = 'error'),
			COUNT(*) FILTER (WHERE status = 'skipped'),
			COALESCE(SUM(profit_usd), 0)::text
		FROM trade_records
		WHERE created_at >= $1`

	var sum domain.Summary
	var profit string
	err := s.pool.QueryRow(ctx, query, since).Scan(
		&sum.Total, &sum.Successes, &sum.Errors, &sum.Skipped, &profit,
	)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("postgres: summarize trade records: %w", err)
	}
	if sum.TotalProfit, err = decimal.NewFromString(profit); err != nil {
		return domain.Summary{}, fmt.Errorf("postgres: parse total profit: %w", err)
	}
	return sum, nil
}

func (s *Store) RankPairs(ctx context.Context, since time.Time) ([]domain.PairRank, error) {
	const query = `
		SELECT
			pair,
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'success'),
			COALESCE(SUM(profit_usd), 0)::text AS profit
		FROM trade_records
		WHERE created_at >= $1
		GROUP BY pair
		ORDER BY SUM(profit_usd) DESC, pair ASC`

	rows, err := s.pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("postgres: rank pairs: %w", err)
	}
	defer rows.Close()

	var ranks []domain.PairRank
	for rows.Next() {
		var r domain.PairRank
		var profit string
		if err := rows.Scan(&r.Pair, &r.Trades, &r.Successes, &profit); err != nil {
			return nil, fmt.Errorf("postgres: scan pair rank: %w", err)
		}
		if r.Profit, err = decimal.NewFromString(profit); err != nil {
			return nil, fmt.Errorf("postgres: parse pair profit: %w", err)
		}
		ranks = append(ranks, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate pair ranks: %w", err)
	}
	return ranks, nil
}

func (s *Store) RecordSample(ctx context.Context, sample domain.TrainingSample) error {
	const query = `
		INSERT INTO training_samples (pair, strategy, amount, slippage, gas_price, volatility, profit, found)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query,
		sample.Pair, sample.Strategy, sample.Amount, sample.Slippage,
		sample.GasPrice, sample.Volatility, sample.Profit, sample.Found,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert training sample: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the underlying pool.
func (s *Store) Close() {
	s.client.Close()
}

func scanRecord(row pgx.Row) (domain.TradeRecord, error) {
	var rec domain.TradeRecord
	var amount, profit, status string
	if err := row.Scan(
		&rec.ID, &rec.Pair, &amount, &profit, &status, &rec.TxHash, &rec.Reason, &rec.Timestamp,
	); err != nil {
		return rec, fmt.Errorf("postgres: scan trade record: %w", err)
	}

	var err error
	if rec.AmountUSD, err = decimal.NewFromString(amount); err != nil {
		return rec, fmt.Errorf("postgres: parse amount_usd: %w", err)
	}
	if rec.ProfitUSD, err = decimal.NewFromString(profit); err != nil {
		return rec, fmt.Errorf("postgres: parse profit_usd: %w", err)
	}
	rec.Status = domain.Status(status)
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, nil
}
