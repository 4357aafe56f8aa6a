package notify

import (
	"context"
	"fmt"

	"github.com/fd1az/flashloan-bot/internal/apperror"
	"github.com/fd1az/flashloan-bot/internal/httpclient"
	"github.com/fd1az/flashloan-bot/internal/ratelimit"
)

const defaultTelegramURL = "https://api.telegram.org"

// Telegram bot API allows about 20 messages per minute to one chat.
const telegramPerMinute = 20

// TelegramConfig configures the Telegram sender.
type TelegramConfig struct {
	Token   string
	ChatID  string
	BaseURL string
}

type sendMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Telegram sends alerts through the Telegram bot API.
type Telegram struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	token   string
	chatID  string
}

// NewTelegram creates a Telegram sender.
func NewTelegram(cfg TelegramConfig) (*Telegram, error) {
	if cfg.Token == "" || cfg.ChatID == "" {
		return nil, apperror.Config("telegram requires token and chat id")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultTelegramURL
	}

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("telegram"),
		httpclient.WithBaseURL(base),
	)
	if err != nil {
		return nil, fmt.Errorf("create telegram client: %w", err)
	}

	return &Telegram{
		client:  client,
		limiter: ratelimit.New("telegram", telegramPerMinute),
		token:   cfg.Token,
		chatID:  cfg.ChatID,
	}, nil
}

func (t *Telegram) Name() string { return "telegram" }

// Send posts "title\n\nmessage" to the chat.
func (t *Telegram) Send(ctx context.Context, title, message string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	var out telegramResponse
	resp, err := t.client.NewRequest().
		SetBody(sendMessage{ChatID: t.chatID, Text: title + "\n\n" + message}).
		SetResult(&out).
		Post(ctx, "/bot"+t.token+"/sendMessage")
	if err != nil {
		return apperror.External(apperror.CodeNotificationFailed, "telegram", err)
	}
	if resp.IsError() || !out.OK {
		desc := out.Description
		if desc == "" {
			desc = resp.Status
		}
		return apperror.New(apperror.CodeNotificationFailed,
			apperror.WithContext("telegram: "+desc))
	}
	return nil
}
