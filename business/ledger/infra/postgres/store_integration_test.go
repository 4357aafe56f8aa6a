//go:build integration

package postgres

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fd1az/flashloan-bot/business/ledger/domain"
)

var client *Client

func TestMain(m *testing.M) {
	ctx := context.Background()

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "flashbot",
				"POSTGRES_PASSWORD": "flashbot",
				"POSTGRES_DB":       "ledger",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}

	host, err := pg.Host(ctx)
	if err != nil {
		log.Fatalf("could not get container host: %s", err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("could not get mapped port: %s", err)
	}

	client, err = NewClient(ctx, ClientConfig{
		DSN: "postgres://flashbot:flashbot@" + host + ":" + port.Port() + "/ledger?sslmode=disable",
	})
	if err != nil {
		log.Fatalf("could not connect to database: %s", err)
	}
	if err := client.RunMigrations(ctx); err != nil {
		log.Fatalf("could not migrate: %s", err)
	}

	code := m.Run()

	client.Close()
	_ = pg.Terminate(ctx)
	os.Exit(code)
}

func truncate(t *testing.T) {
	t.Helper()
	_, err := client.Pool().Exec(context.Background(), "TRUNCATE trade_records, training_samples")
	require.NoError(t, err)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	require.NoError(t, client.RunMigrations(context.Background()))
}

func TestAppendAndRecent(t *testing.T) {
	truncate(t)
	s := NewStore(client)
	ctx := context.Background()

	for _, p := range []string{"a", "b", "c"} {
		got, err := s.Append(ctx, domain.TradeRecord{
			Pair:      p,
			AmountUSD: decimal.RequireFromString("5000"),
			ProfitUSD: decimal.RequireFromString("25.125"),
			Status:    domain.StatusSuccess,
			TxHash:    "0xabc",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.Timestamp.IsZero())
	}

	recs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].Pair)
	assert.Equal(t, "b", recs[1].Pair)
	assert.True(t, recs[0].ProfitUSD.Equal(decimal.RequireFromString("25.125")))
	assert.Equal(t, domain.StatusSuccess, recs[0].Status)
}

func TestRejectsUnknownStatus(t *testing.T) {
	truncate(t)
	s := NewStore(client)

	_, err := s.Append(context.Background(), domain.TradeRecord{Pair: "a", Status: "weird"})
	require.Error(t, err)
}

func TestSummaryAndRanking(t *testing.T) {
	truncate(t)
	s := NewStore(client)
	ctx := context.Background()

	rows := []domain.TradeRecord{
		{Pair: "x", Status: domain.StatusSuccess, ProfitUSD: decimal.NewFromInt(4)},
		{Pair: "x", Status: domain.StatusError},
		{Pair: "y", Status: domain.StatusSuccess, ProfitUSD: decimal.NewFromInt(9)},
		{Pair: "z", Status: domain.StatusSkipped},
	}
	for _, r := range rows {
		_, err := s.Append(ctx, r)
		require.NoError(t, err)
	}

	since := time.Now().Add(-time.Hour)
	sum, err := s.Summary(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 2, sum.Successes)
	assert.Equal(t, 1, sum.Errors)
	assert.Equal(t, 1, sum.Skipped)
	assert.True(t, sum.TotalProfit.Equal(decimal.NewFromInt(13)))

	ranks, err := s.RankPairs(ctx, since)
	require.NoError(t, err)
	require.Len(t, ranks, 3)
	assert.Equal(t, "y", ranks[0].Pair)
	assert.Equal(t, "x", ranks[1].Pair)
	assert.Equal(t, 2, ranks[1].Trades)

	empty, err := s.Summary(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.True(t, empty.TotalProfit.IsZero())
}

func TestRecordSample(t *testing.T) {
	truncate(t)
	s := NewStore(client)
	ctx := context.Background()

	require.NoError(t, s.RecordSample(ctx, domain.TrainingSample{
		Pair: "a", Strategy: "predictive", Amount: 5000, Slippage: 0.5, GasPrice: 30, Volatility: 2, Profit: 0.7, Found: true,
	}))

	var n int
	require.NoError(t, client.Pool().QueryRow(ctx, "SELECT COUNT(*) FROM training_samples").Scan(&n))
	assert.Equal(t, 1, n)
}
