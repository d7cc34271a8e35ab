package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"restockwatch/pkg/logger"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// DefaultTelegramAPIBase is the public Bot API endpoint.
const DefaultTelegramAPIBase = "https://api.telegram.org"

// TelegramConfig represents Telegram notification configuration
type TelegramConfig struct {
	BotToken string
	ChatID   string
	Timeout  time.Duration
	// APIBase replaces DefaultTelegramAPIBase, mainly for tests.
	APIBase string
}

// TelegramNotifier posts messages through the Bot API sendMessage method.
type TelegramNotifier struct {
	config TelegramConfig
	client *resty.Client
}

// TelegramMessage represents a message to be sent via Telegram
type TelegramMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// TelegramResponse represents Telegram API response
type TelegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(config TelegramConfig) (*TelegramNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.APIBase == "" {
		config.APIBase = DefaultTelegramAPIBase
	}

	client := resty.New().
		SetTimeout(config.Timeout).
		SetBaseURL(strings.TrimRight(config.APIBase, "/")).
		SetHeader("Content-Type", "application/json")

	return &TelegramNotifier{config: config, client: client}, nil
}

// Validate validates Telegram configuration
func (c TelegramConfig) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("%w: telegram bot token is required", ErrNotConfigured)
	}
	if c.ChatID == "" {
		return fmt.Errorf("%w: telegram chat ID is required", ErrNotConfigured)
	}
	return nil
}

func (t *TelegramNotifier) Name() string {
	return ChannelTelegram
}

// Send posts text as a plain message. Markdown parsing stays off so URLs
// with underscores are delivered unchanged.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	msg := TelegramMessage{ChatID: t.config.ChatID, Text: text}

	logger.Debug("Sending Telegram message",
		zap.String("chat_id", msg.ChatID),
		zap.String("text", truncate(msg.Text, 100)))

	var result TelegramResponse
	resp, err := t.client.R().
		SetContext(ctx).
		SetPathParam("token", t.config.BotToken).
		SetBody(&msg).
		SetResult(&result).
		SetError(&result).
		Post("/bot{token}/sendMessage")
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	if !resp.IsSuccess() || !result.OK {
		return fmt.Errorf("%w: telegram status %d: %s (code: %d)",
			ErrAPI, resp.StatusCode(), result.Description, result.ErrorCode)
	}

	logger.Info("Telegram message sent successfully")
	return nil
}
