// Package pairs resolves the token pairs scanned by the bot from
// configuration or from the analyzer's pair file.
package pairs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/flashloan-bot/business/pricing/app"
	"github.com/fd1az/flashloan-bot/business/pricing/domain"
	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/asset"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

var _ app.PairSource = (*Source)(nil)

// Config describes where pairs come from.
type Config struct {
	ChainID uint64
	// Default route used when neither Pairs nor File yield anything.
	Asset        string
	Intermediate string
	// Decimals assumed for tokens missing from the registry.
	Decimals uint8
	Pairs    []config.PairConfig
	File     string
}

// file is the analyzer's output format.
type file struct {
	Updated string              `json:"updated"`
	Pairs   []config.PairConfig `json:"pairs"`
}

// Source is a fixed list of pairs resolved at startup.
type Source struct {
	pairs []domain.Pair
}

// Load resolves the pair list. An unreadable pair file is logged and the
// configured list is used instead. Ending up with no pairs is a config error.
func Load(ctx context.Context, cfg Config, registry *asset.Registry, log logger.LoggerInterface) (*Source, error) {
	entries := cfg.Pairs
	if cfg.File != "" {
		fromFile, err := readFile(cfg.File)
		if err != nil {
			log.Error(ctx, "failed to load token pairs", "file", cfg.File, "error", err)
		} else {
			entries = fromFile
			log.Info(ctx, "loaded token pairs", "file", cfg.File, "count", len(entries))
		}
	}
	if len(entries) == 0 && cfg.Asset != "" && cfg.Intermediate != "" {
		entries = []config.PairConfig{{Token0: cfg.Asset, Token1: cfg.Intermediate}}
	}

	pairs := make([]domain.Pair, 0, len(entries))
	for i, e := range entries {
		if !common.IsHexAddress(e.Token0) || !common.IsHexAddress(e.Token1) {
			log.Warn(ctx, "skipping pair without token addresses", "index", i, "token0", e.Token0, "token1", e.Token1)
			continue
		}
		base := registry.Resolve(cfg.ChainID, common.HexToAddress(e.Token0), cfg.Decimals)
		quote := registry.Resolve(cfg.ChainID, common.HexToAddress(e.Token1), cfg.Decimals)
		log.Debug(ctx, "pair resolved", "base", base.Name(), "quote", quote.Name(), "chain_id", base.ChainID())
		pairs = append(pairs, domain.NewPair(base, quote))
	}

	if len(pairs) == 0 {
		return nil, apperror.Config("no token pairs configured")
	}
	return &Source{pairs: pairs}, nil
}

// NewStatic wraps an explicit list.
func NewStatic(pairs ...domain.Pair) *Source {
	return &Source{pairs: pairs}
}

// Pairs returns a copy of the pair list.
func (s *Source) Pairs(context.Context) ([]domain.Pair, error) {
	out := make([]domain.Pair, len(s.pairs))
	copy(out, s.pairs)
	return out, nil
}

func readFile(path string) ([]config.PairConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f file
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return f.Pairs, nil
}
