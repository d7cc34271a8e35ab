package notifier

import (
	"context"

	"restockwatch/pkg/logger"

	"go.uber.org/zap"
)

// LogNotifier writes the message to the log instead of delivering it.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) Name() string {
	return ChannelLog
}

func (LogNotifier) Send(ctx context.Context, text string) error {
	logger.FromContext(ctx).Info("Notification (dry run)", zap.String("text", text))
	return nil
}
