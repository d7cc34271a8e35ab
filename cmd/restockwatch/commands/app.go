package commands

import (
	"fmt"

	"restockwatch/pkg/config"
	"restockwatch/pkg/fetcher"
	"restockwatch/pkg/logger"
	"restockwatch/pkg/monitor"
	"restockwatch/pkg/notifier"
	"restockwatch/pkg/state"
	"restockwatch/pkg/stock"

	"go.uber.org/zap"
)

// app is the wired pipeline shared by the commands.
type app struct {
	cfg        *config.Config
	fetcher    fetcher.Fetcher
	classifier *stock.Classifier
	runner     *monitor.Runner
}

// loadConfig reads the config, applies the command-line overrides and
// validates the result. Notification secrets are only required when a
// message may actually be sent.
func loadConfig(path string, needNotifier bool) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.App.Verbose = true
	}
	if dryRun || !needNotifier {
		cfg.Notify.Channel = notifier.ChannelLog
	}

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) error {
	if err := logger.InitLogger(cfg.App.IsDevelopment(), cfg.App.LogFile, cfg.App.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// newApp builds fetcher, classifier, store, notifier and runner from cfg.
func newApp(cfg *config.Config) (*app, error) {
	classifier, err := stock.NewClassifier(*cfg.Markers)
	if err != nil {
		return nil, fmt.Errorf("invalid markers: %w", err)
	}

	n, err := newNotifier(cfg.Notify)
	if err != nil {
		return nil, err
	}

	f, err := fetcher.New(fetcherOptions(cfg.Fetcher))
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	store := state.NewFileStore(cfg.Monitor.StateFile, cfg.Monitor.StrictState)
	runner := monitor.NewRunner(f, classifier, store, n, monitor.Options{
		Delay:            cfg.Monitor.Delay.Std(),
		RememberNotified: cfg.Monitor.RememberNotified,
		Verbose:          cfg.App.Verbose,
	})

	logger.Info("Pipeline ready",
		zap.String("fetcher", f.Name()),
		zap.String("notifier", n.Name()),
		zap.String("products_file", cfg.Monitor.ProductsFile),
		zap.String("state_file", cfg.Monitor.StateFile))

	return &app{cfg: cfg, fetcher: f, classifier: classifier, runner: runner}, nil
}

func (a *app) Close() {
	if err := a.fetcher.Close(); err != nil {
		logger.Warn("Failed to close fetcher", zap.Error(err))
	}
}

func fetcherOptions(fc *config.FetcherConfig) fetcher.Options {
	return fetcher.Options{
		Strategy:       fc.Strategy,
		Timeout:        fc.Timeout.Std(),
		SettleDelay:    fc.SettleDelay.Std(),
		UserAgent:      fc.UserAgent,
		AcceptLanguage: fc.AcceptLanguage,
		ChromePath:     fc.ChromePath,
		Headless:       fc.Headless,
	}
}

func newNotifier(nc *config.NotifyConfig) (notifier.Notifier, error) {
	switch nc.Channel {
	case notifier.ChannelTelegram:
		return notifier.NewTelegramNotifier(notifier.TelegramConfig{
			BotToken: nc.Telegram.BotToken,
			ChatID:   nc.Telegram.ChatID,
			Timeout:  nc.Telegram.Timeout.Std(),
			APIBase:  nc.Telegram.APIBase,
		})
	case notifier.ChannelWeChat:
		return notifier.NewWeChatNotifier(notifier.WeChatConfig{
			WebhookURL:   nc.WeChat.WebhookURL,
			Timeout:      nc.WeChat.Timeout.Std(),
			MentionUsers: nc.WeChat.MentionUsers,
		})
	case notifier.ChannelLog:
		return notifier.NewLogNotifier(), nil
	default:
		return nil, fmt.Errorf("%w: unknown channel %q", notifier.ErrNotConfigured, nc.Channel)
	}
}
