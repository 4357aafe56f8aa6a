// Package main is the entry point for the flashloan arbitrage bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/fd1az/flashloan-bot/internal/apm"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/logger"
	"github.com/fd1az/flashloan-bot/internal/metrics"
	"github.com/fd1az/flashloan-bot/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	tuiMode := flag.Bool("tui", false, "Run with the terminal dashboard instead of logs")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("flashbot %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// In TUI mode logs would corrupt the screen.
	var out io.Writer = os.Stderr
	if tuiMode {
		out = io.Discard
	}
	log := logger.New(out, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, apm.TraceID)
	log.Info(ctx, "starting flashloan bot",
		"version", version,
		"environment", cfg.App.Environment,
		"strategy", cfg.Bot.Strategy,
		"training_mode", cfg.Bot.TrainingMode,
	)

	traceProvider := setupTelemetry(ctx, cfg, log)
	defer func() {
		if traceProvider != nil {
			_ = traceProvider.Stop()
		}
	}()

	if tuiMode {
		return runTUI(ctx, cfg, log)
	}
	return runCLI(ctx, cfg, log)
}

func setupTelemetry(ctx context.Context, cfg *config.Config, log *logger.Logger) apm.TraceProvider {
	if !cfg.Telemetry.Enabled {
		return nil
	}

	exporter := apm.ParseExporter(cfg.Telemetry.TraceProvider)
	tp, err := apm.NewTraceProvider(ctx, log, apm.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Exporter:    exporter,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Headers:     cfg.Telemetry.OTLPHeaders,
		Protocol:    cfg.Telemetry.OTLPProtocol,
	})
	if err != nil {
		// Tracing is optional; the bot runs without it.
		log.Error(ctx, "tracing disabled", "provider", exporter, "error", err)
		tp = apm.NewEmptyTraceProvider()
	} else {
		log.Info(ctx, "tracing initialized", "provider", exporter, "endpoint", cfg.Telemetry.OTLPEndpoint)
	}

	mp, err := metrics.NewProvider(ctx, metrics.Config{
		ServiceName:  cfg.Telemetry.ServiceName,
		OTLPEndpoint: cfg.Telemetry.OTLPMetricsEndpoint,
	})
	if err != nil {
		log.Error(ctx, "metrics disabled", "error", err)
		return tp
	}

	port := cfg.Telemetry.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go func() {
		if err := mp.Serve(ctx, log, ":"+strconv.Itoa(port)); err != nil {
			log.Error(ctx, "metrics server stopped", "error", err)
		}
	}()

	return tp
}

func runCLI(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	a, err := boot(ctx, cfg, log, false, func(string, string) {})
	if err != nil {
		return err
	}
	defer a.close(context.WithoutCancel(ctx))

	log.Info(ctx, "all modules started", "auto_start", cfg.Bot.AutoStart, "control_port", cfg.Server.Port)
	return a.bot.Run(ctx)
}

func runTUI(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handle := &botHandle{}
	p := ui.NewProgram(handle)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		p.Quit()
		return nil
	})

	g.Go(func() error {
		progress := func(step, status string) {
			ui.Send(ui.StartupMsg{Step: step, Status: status})
		}
		progress("config", "connected")

		a, err := boot(gctx, cfg, log, true, progress)
		if err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			return err
		}
		defer a.close(context.WithoutCancel(gctx))

		handle.set(a.bot)
		return a.bot.Run(gctx)
	})

	return g.Wait()
}
