package notifier

import (
	"context"
	"fmt"
	"time"

	"restockwatch/pkg/logger"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// WeChatConfig configures a WeChat Work group-robot webhook.
type WeChatConfig struct {
	WebhookURL   string
	Timeout      time.Duration
	MentionUsers []string
}

// Validate checks that the webhook is set.
func (c WeChatConfig) Validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("%w: wechat work webhook URL is required", ErrNotConfigured)
	}
	return nil
}

type wechatText struct {
	Content       string   `json:"content"`
	MentionedList []string `json:"mentioned_list,omitempty"`
}

type wechatMessage struct {
	MsgType string      `json:"msgtype"`
	Text    *wechatText `json:"text"`
}

type wechatResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// WeChatNotifier sends text messages to a WeChat Work webhook.
type WeChatNotifier struct {
	config WeChatConfig
	client *resty.Client
}

// NewWeChatNotifier creates a webhook notifier.
func NewWeChatNotifier(config WeChatConfig) (*WeChatNotifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetTimeout(config.Timeout).
		SetHeader("Content-Type", "application/json")

	return &WeChatNotifier{config: config, client: client}, nil
}

func (w *WeChatNotifier) Name() string {
	return ChannelWeChat
}

func (w *WeChatNotifier) Send(ctx context.Context, text string) error {
	msg := wechatMessage{
		MsgType: "text",
		Text:    &wechatText{Content: text, MentionedList: w.config.MentionUsers},
	}

	var result wechatResponse
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(&msg).
		SetResult(&result).
		Post(w.config.WebhookURL)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: wechat status %d", ErrAPI, resp.StatusCode())
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("%w: wechat errcode %d: %s", ErrAPI, result.ErrCode, result.ErrMsg)
	}

	logger.Info("WeChat message sent successfully", zap.Int("length", len(text)))
	return nil
}
