package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/flashloan-bot/business/ledger/domain"
)

func stepClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(step)
		return t
	}
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewWithClock(stepClock(start, time.Second))

	got, err := s.Append(context.Background(), domain.TradeRecord{Pair: "A/B", Status: domain.StatusSkipped})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, start.Add(time.Second), got.Timestamp)
}

func TestRecentNewestFirst(t *testing.T) {
	s := NewWithClock(stepClock(time.Unix(0, 0), time.Second))
	ctx := context.Background()

	for _, p := range []string{"a", "b", "c", "d"} {
		_, err := s.Append(ctx, domain.TradeRecord{Pair: p, Status: domain.StatusSkipped})
		require.NoError(t, err)
	}

	recs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "d", recs[0].Pair)
	assert.Equal(t, "c", recs[1].Pair)
	assert.Equal(t, "b", recs[2].Pair)

	all, err := s.Recent(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTimestampsNeverGoBackwards(t *testing.T) {
	times := []time.Time{time.Unix(100, 0), time.Unix(50, 0)}
	i := 0
	s := NewWithClock(func() time.Time { ts := times[i]; i++; return ts })
	ctx := context.Background()

	first, _ := s.Append(ctx, domain.TradeRecord{Pair: "a", Status: domain.StatusSkipped})
	second, _ := s.Append(ctx, domain.TradeRecord{Pair: "b", Status: domain.StatusSkipped})

	assert.False(t, second.Timestamp.Before(first.Timestamp))
}

func TestSnapshotUnaffectedByLaterAppends(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, _ = s.Append(ctx, domain.TradeRecord{Pair: "a", Status: domain.StatusSkipped})

	before, _ := s.Recent(ctx, 10)
	_, _ = s.Append(ctx, domain.TradeRecord{Pair: "b", Status: domain.StatusSkipped})

	assert.Len(t, before, 1)
	assert.Equal(t, "a", before[0].Pair)
}

func TestConcurrentReadersSeeWholeRecords(t *testing.T) {
	s := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	done := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				recs, err := s.Recent(ctx, 50)
				assert.NoError(t, err)
				for _, rec := range recs {
					assert.NotEmpty(t, rec.ID)
					assert.Equal(t, domain.StatusSuccess, rec.Status)
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		_, err := s.Append(ctx, domain.TradeRecord{Pair: "a", Status: domain.StatusSuccess})
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()
}

func TestSummaryAndRankSince(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewWithClock(stepClock(start, time.Hour))
	ctx := context.Background()

	_, _ = s.Append(ctx, domain.TradeRecord{Pair: "old", Status: domain.StatusSuccess, ProfitUSD: decimal.NewFromInt(100)})
	_, _ = s.Append(ctx, domain.TradeRecord{Pair: "x", Status: domain.StatusSuccess, ProfitUSD: decimal.NewFromInt(3)})
	_, _ = s.Append(ctx, domain.TradeRecord{Pair: "y", Status: domain.StatusError})

	since := start.Add(2 * time.Hour)
	sum, err := s.Summary(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Successes)
	assert.True(t, sum.TotalProfit.Equal(decimal.NewFromInt(3)))

	ranks, err := s.RankPairs(ctx, since)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, "x", ranks[0].Pair)
}

func TestRecordSample(t *testing.T) {
	s := New()
	require.NoError(t, s.RecordSample(context.Background(), domain.TrainingSample{Pair: "a", Profit: 0.7}))

	samples := s.Samples()
	require.Len(t, samples, 1)
	assert.False(t, samples[0].CreatedAt.IsZero())
}
