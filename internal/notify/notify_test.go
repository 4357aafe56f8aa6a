package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

type stubSender struct {
	name string
	err  error
	sent []string
}

func (s *stubSender) Name() string { return s.name }

func (s *stubSender) Send(_ context.Context, title, _ string) error {
	s.sent = append(s.sent, title)
	return s.err
}

func TestNotifierFansOutAndLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.LevelDebug, "test", nil)

	bad := &stubSender{name: "bad", err: errors.New("boom")}
	good := &stubSender{name: "good"}
	n := New(log, bad, good)

	n.Notify(context.Background(), "Circuit breaker tripped", "stopped")

	assert.Equal(t, []string{"Circuit breaker tripped"}, bad.sent)
	assert.Equal(t, []string{"Circuit breaker tripped"}, good.sent)
	assert.Contains(t, buf.String(), "alert delivery failed")
	assert.Contains(t, buf.String(), "NOTIFICATION_FAILED")
}

func TestFromConfig(t *testing.T) {
	n, err := FromConfig(config.NotifyConfig{}, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"log"}, n.Channels())

	n, err = FromConfig(config.NotifyConfig{TelegramToken: "t", TelegramChatID: "1"}, logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"log", "telegram"}, n.Channels())
}

func TestTelegramSend(t *testing.T) {
	var got sendMessage
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram(TelegramConfig{Token: "abc", ChatID: "42", BaseURL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, tg.Send(context.Background(), "Daily Report", "Trades: 3"))
	assert.Equal(t, "/botabc/sendMessage", path)
	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "Daily Report\n\nTrades: 3", got.Text)
}

func TestTelegramRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram(TelegramConfig{Token: "abc", ChatID: "42", BaseURL: srv.URL})
	require.NoError(t, err)

	err = tg.Send(context.Background(), "x", "y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestNewTelegramRequiresCredentials(t *testing.T) {
	_, err := NewTelegram(TelegramConfig{Token: "abc"})
	require.Error(t, err)
}
