// Package main prints the ledger summary and pair ranking, and optionally
// sends the report to the alert channels.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/fd1az/flashloan-bot/business/ledger"
	ledgerDI "github.com/fd1az/flashloan-bot/business/ledger/di"
	ledgerDomain "github.com/fd1az/flashloan-bot/business/ledger/domain"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/di"
	"github.com/fd1az/flashloan-bot/internal/logger"
	"github.com/fd1az/flashloan-bot/internal/notify"
	"github.com/fd1az/flashloan-bot/internal/redisclient"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	window := flag.Duration("since", 24*time.Hour, "Report window ending now")
	top := flag.Int("top", 5, "Number of pairs in the ranking")
	send := flag.Bool("notify", false, "Send the report to the alert channels")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, *configPath, *window, *top, *send); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, configPath string, window time.Duration, top int, send bool) (err error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name+"-report", nil)

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisclient.New(ctx, redisclient.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
	}

	// Only the ledger context is needed; no chain connection.
	c := di.NewContainer()
	c.Register("config", cfg)
	c.Register("logger", logger.LoggerInterface(log))
	c.Register("redis", rdb)
	if err := (&ledger.Module{}).RegisterServices(c); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("open ledger: %v", r)
		}
	}()
	svc := ledgerDI.GetLedgerService(c)
	defer svc.Close()

	now := time.Now().UTC()
	since := now.Add(-window)

	sum, err := svc.Summary(ctx, since)
	if err != nil {
		return err
	}
	ranks, err := svc.RankPairs(ctx, since)
	if err != nil {
		return err
	}

	report := sum.Report(now)
	fmt.Fprintln(out, report)
	writeRanking(out, ranks, top)

	if send {
		n, err := notify.FromConfig(cfg.Notify, log)
		if err != nil {
			return err
		}
		n.Notify(ctx, "Daily Report", report)
	}
	return nil
}

func writeRanking(out io.Writer, ranks []ledgerDomain.PairRank, top int) {
	if len(ranks) == 0 {
		fmt.Fprintln(out, "No trades in window.")
		return
	}
	if top > 0 && len(ranks) > top {
		ranks = ranks[:top]
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAIR\tTRADES\tSUCCESS\tPROFIT")
	for _, r := range ranks {
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t$%s\n", r.Pair, r.Trades, r.SuccessRate()*100, r.Profit.StringFixed(2))
	}
	_ = w.Flush()
}
