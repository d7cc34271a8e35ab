package config

import (
	"fmt"
	"time"
)

// NotifyConfig selects the delivery channel.
type NotifyConfig struct {
	Channel  string          `json:"channel" yaml:"channel"` // telegram, wechat, log
	Telegram *TelegramConfig `json:"telegram" yaml:"telegram"`
	WeChat   *WeChatConfig   `json:"wechat" yaml:"wechat"`
}

// TelegramConfig holds the Bot API credentials.
type TelegramConfig struct {
	BotToken string   `json:"bot_token" yaml:"bot_token"`
	ChatID   string   `json:"chat_id" yaml:"chat_id"`
	Timeout  Duration `json:"timeout" yaml:"timeout"`
	APIBase  string   `json:"api_base,omitempty" yaml:"api_base,omitempty"`
}

// WeChatConfig 企业微信机器人配置
type WeChatConfig struct {
	WebhookURL   string   `json:"webhook_url" yaml:"webhook_url"`
	Timeout      Duration `json:"timeout" yaml:"timeout"`
	MentionUsers []string `json:"mention_users,omitempty" yaml:"mention_users,omitempty"`
}

// NewNotifyConfig creates a notification configuration with default values populated from environment variables
func NewNotifyConfig() *NotifyConfig {
	return &NotifyConfig{
		Channel:  getEnv("NOTIFY_CHANNEL", "telegram"),
		Telegram: NewTelegramConfig(),
		WeChat:   NewWeChatConfig(),
	}
}

func NewTelegramConfig() *TelegramConfig {
	return &TelegramConfig{
		BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		Timeout:  Duration(30 * time.Second),
	}
}

// NewWeChatConfig 创建微信配置，使用环境变量填充默认值
func NewWeChatConfig() *WeChatConfig {
	return &WeChatConfig{
		WebhookURL:   getEnv("WECHAT_WEBHOOK_URL", ""),
		Timeout:      Duration(30 * time.Second),
		MentionUsers: parseStringList(getEnv("WECHAT_MENTION_USERS", "")),
	}
}

// Validate checks that the selected channel has its credentials.
func (nc *NotifyConfig) Validate() error {
	switch nc.Channel {
	case "telegram":
		if nc.Telegram == nil {
			return fmt.Errorf("%w: notify.telegram", ErrMissingRequired)
		}
		return nc.Telegram.Validate()
	case "wechat":
		if nc.WeChat == nil {
			return fmt.Errorf("%w: notify.wechat", ErrMissingRequired)
		}
		return nc.WeChat.Validate()
	case "log":
		return nil
	default:
		return fmt.Errorf("%w: notify.channel %q (want telegram, wechat or log)", ErrInvalidValue, nc.Channel)
	}
}

func (tc *TelegramConfig) Validate() error {
	if tc.BotToken == "" {
		return fmt.Errorf("%w: TELEGRAM_BOT_TOKEN", ErrMissingRequired)
	}
	if tc.ChatID == "" {
		return fmt.Errorf("%w: TELEGRAM_CHAT_ID", ErrMissingRequired)
	}
	if tc.Timeout < 0 {
		return fmt.Errorf("%w: notify.telegram.timeout", ErrInvalidValue)
	}
	return nil
}

// Validate 验证微信配置
func (wc *WeChatConfig) Validate() error {
	if wc.WebhookURL == "" {
		return fmt.Errorf("%w: WECHAT_WEBHOOK_URL", ErrMissingRequired)
	}
	if wc.Timeout < 0 {
		return fmt.Errorf("%w: notify.wechat.timeout", ErrInvalidValue)
	}
	return nil
}
