// Package notifier delivers the aggregated restock message.
package notifier

import (
	"context"
	"errors"
)

const (
	ChannelTelegram = "telegram"
	ChannelWeChat   = "wechat"
	ChannelLog      = "log"
)

var (
	ErrNotConfigured = errors.New("notifier not configured")
	ErrAPI           = errors.New("notification API error")
)

// Notifier sends one plain-text message.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Name() string
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
