package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Summary aggregates ledger records over a window.
type Summary struct {
	Since       time.Time       `json:"since"`
	Total       int             `json:"total"`
	Successes   int             `json:"successes"`
	Errors      int             `json:"errors"`
	Skipped     int             `json:"skipped"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}

// SuccessRate returns successes/total as a percentage.
func (s Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Total) * 100
}

// Add folds one record into the summary.
func (s *Summary) Add(r TradeRecord) {
	s.Total++
	switch r.Status {
	case StatusSuccess:
		s.Successes++
	case StatusError:
		s.Errors++
	case StatusSkipped:
		s.Skipped++
	}
	s.TotalProfit = s.TotalProfit.Add(r.ProfitUSD)
}

// Report renders the daily report message.
func (s Summary) Report(day time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily Report (%s)\n", day.UTC().Format(time.DateOnly))
	fmt.Fprintf(&b, "Total Trades: %d\n", s.Total)
	fmt.Fprintf(&b, "Successful: %d\n", s.Successes)
	fmt.Fprintf(&b, "Failures: %d\n", s.Errors)
	fmt.Fprintf(&b, "Skipped: %d\n", s.Skipped)
	fmt.Fprintf(&b, "Success Rate: %.2f%%\n", s.SuccessRate())
	fmt.Fprintf(&b, "Profit: $%s", s.TotalProfit.StringFixed(2))
	return b.String()
}

// PairRank is the per-pair profitability row.
type PairRank struct {
	Pair      string          `json:"pair"`
	Trades    int             `json:"trades"`
	Successes int             `json:"successes"`
	Profit    decimal.Decimal `json:"profit"`
}

// SuccessRate returns successes/trades as a fraction.
func (p PairRank) SuccessRate() float64 {
	if p.Trades == 0 {
		return 0
	}
	return float64(p.Successes) / float64(p.Trades)
}

// RankPairs groups records by pair, ordered by profit descending. Ties keep
// pair name order.
func RankPairs(records []TradeRecord) []PairRank {
	byPair := make(map[string]*PairRank)
	for _, r := range records {
		p, ok := byPair[r.Pair]
		if !ok {
			p = &PairRank{Pair: r.Pair}
			byPair[r.Pair] = p
		}
		p.Trades++
		if r.Status == StatusSuccess {
			p.Successes++
		}
		p.Profit = p.Profit.Add(r.ProfitUSD)
	}

	ranks := make([]PairRank, 0, len(byPair))
	for _, p := range byPair {
		ranks = append(ranks, *p)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if c := ranks[i].Profit.Cmp(ranks[j].Profit); c != 0 {
			return c > 0
		}
		return ranks[i].Pair < ranks[j].Pair
	})
	return ranks
}
