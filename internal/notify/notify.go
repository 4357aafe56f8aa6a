// Package notify delivers operator alerts to one or more channels.
package notify

import (
	"context"

	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/config"
	"github.com/fd1az/flashloan-bot/internal/logger"
)

// Sender is one alert channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, title, message string) error
}

// Notifier fans an alert out to every sender. Delivery failures are logged
// and never returned to the caller.
type Notifier struct {
	senders []Sender
	log     logger.LoggerInterface
}

// New creates a Notifier over senders.
func New(log logger.LoggerInterface, senders ...Sender) *Notifier {
	return &Notifier{senders: senders, log: log}
}

// FromConfig builds the configured channels. The log channel is always on;
// Telegram is added when both token and chat id are set.
func FromConfig(cfg config.NotifyConfig, log logger.LoggerInterface) (*Notifier, error) {
	senders := []Sender{NewLogSender(log)}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		tg, err := NewTelegram(TelegramConfig{
			Token:   cfg.TelegramToken,
			ChatID:  cfg.TelegramChatID,
			BaseURL: cfg.TelegramBaseURL,
		})
		if err != nil {
			return nil, err
		}
		senders = append(senders, tg)
	}

	return New(log, senders...), nil
}

// Channels returns the sender names.
func (n *Notifier) Channels() []string {
	names := make([]string, len(n.senders))
	for i, s := range n.senders {
		names[i] = s.Name()
	}
	return names
}

// Notify sends to every channel.
func (n *Notifier) Notify(ctx context.Context, title, message string) {
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.log.Error(ctx, "alert delivery failed",
				"channel", s.Name(),
				"title", title,
				"error", apperror.Wrap(err, apperror.CodeNotificationFailed, s.Name()),
			)
		}
	}
}

// LogSender writes alerts to the structured log.
type LogSender struct {
	log logger.LoggerInterface
}

func NewLogSender(log logger.LoggerInterface) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(ctx context.Context, title, message string) error {
	s.log.Warn(ctx, "ALERT: "+title, "message", message)
	return nil
}
