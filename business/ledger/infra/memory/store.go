// Package memory provides an in-process ledger store.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fd1az/flashloan-bot/business/ledger/app"
	"github.com/fd1az/flashloan-bot/business/ledger/domain"
)

var _ app.Store = (*Store)(nil)

// Store keeps records in a copy-on-write slice. Readers load a snapshot
// without locking; the writer mutex only orders appends.
type Store struct {
	mu      sync.Mutex
	records atomic.Pointer[[]domain.TradeRecord]
	samples []domain.TrainingSample
	now     func() time.Time
}

// New creates an empty store stamped by the wall clock.
func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock creates an empty store stamped by now.
func NewWithClock(now func() time.Time) *Store {
	s := &Store{now: now}
	empty := make([]domain.TradeRecord, 0, 64)
	s.records.Store(&empty)
	return s
}

func (s *Store) Append(_ context.Context, rec domain.TradeRecord) (domain.TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := *s.records.Load()

	rec.ID = uuid.NewString()
	rec.Timestamp = s.now().UTC()
	if n := len(cur); n > 0 && rec.Timestamp.Before(cur[n-1].Timestamp) {
		rec.Timestamp = cur[n-1].Timestamp
	}

	// Readers never index past their snapshot's length, so appending into
	// spare capacity is invisible to them until the pointer is swapped.
	next := append(cur, rec)
	s.records.Store(&next)
	return rec, nil
}

func (s *Store) Recent(_ context.Context, limit int) ([]domain.TradeRecord, error) {
	snap := *s.records.Load()
	if limit <= 0 || limit > len(snap) {
		limit = len(snap)
	}

	out := make([]domain.TradeRecord, 0, limit)
	for i := len(snap) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, snap[i])
	}
	return out, nil
}

func (s *Store) Summary(_ context.Context, since time.Time) (domain.Summary, error) {
	var sum domain.Summary
	for _, r := range s.since(since) {
		sum.Add(r)
	}
	return sum, nil
}

func (s *Store) RankPairs(_ context.Context, since time.Time) ([]domain.PairRank, error) {
	return domain.RankPairs(s.since(since)), nil
}

func (s *Store) RecordSample(_ context.Context, sample domain.TrainingSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = s.now().UTC()
	}
	s.samples = append(s.samples, sample)
	return nil
}

// Samples returns a copy of the recorded training samples.
func (s *Store) Samples() []domain.TrainingSample {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.TrainingSample, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) since(t time.Time) []domain.TradeRecord {
	snap := *s.records.Load()
	var out []domain.TradeRecord
	for _, r := range snap {
		if !r.Timestamp.Before(t) {
			out = append(out, r)
		}
	}
	return out
}
