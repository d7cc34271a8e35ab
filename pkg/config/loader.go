package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"restockwatch/pkg/stock"

	"gopkg.in/yaml.v3"
)

// LoadConfig 从指定路径加载配置文件
//
// An empty path searches the default locations. A missing file yields the
// defaults. Values from the file are laid over the defaults, then
// environment variables win over both.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	config := getDefaultConfig()

	// 如果配置文件不存在，返回默认配置
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		mergeEnvVars(config)
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigNotFound, err)
	}

	ext := filepath.Ext(configPath)
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: JSON parsing failed: %v", ErrInvalidFormat, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: YAML parsing failed: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	mergeEnvVars(config)
	return config, nil
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	// 确保目录存在
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	ext := filepath.Ext(configPath)
	var data []byte
	var err error

	switch ext {
	case ".json":
		data, err = json.MarshalIndent(config, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		return fmt.Errorf("%w: unsupported config file format: %s", ErrInvalidFormat, ext)
	}

	if err != nil {
		return fmt.Errorf("config serialization failed: %w", err)
	}

	// secrets may be present, keep the file private
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getDefaultConfigPath 获取默认配置文件路径
func getDefaultConfigPath() string {
	paths := []string{
		"./config.yaml",
		"./config.json",
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(homeDir, ".restockwatch", "config.yaml"),
			filepath.Join(homeDir, ".restockwatch", "config.json"),
		)
	}

	paths = append(paths,
		"/etc/restockwatch/config.yaml",
		"/etc/restockwatch/config.json",
	)

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "./config.yaml"
}

// mergeEnvVars 将环境变量合并到配置中
func mergeEnvVars(config *Config) {
	mergeAppEnvVars(config)
	mergeMonitorEnvVars(config)
	mergeFetcherEnvVars(config)
	mergeNotifyEnvVars(config)
	mergeSchedulerEnvVars(config)
	mergeServerEnvVars(config)

	if config.Markers == nil {
		markers := stock.DefaultMarkers()
		config.Markers = &markers
	}
}

// applyEnvMappings copies set environment variables into the mapped fields.
func applyEnvMappings(envMappings map[string]interface{}) {
	for envKey, fieldPtr := range envMappings {
		value := os.Getenv(envKey)
		if value == "" {
			continue
		}
		switch ptr := fieldPtr.(type) {
		case *string:
			*ptr = value
		case *int:
			*ptr = getEnvInt(envKey, *ptr)
		case *bool:
			*ptr = value == "true" || value == "1"
		case *Duration:
			*ptr = getEnvDuration(envKey, ptr.Std())
		case *[]string:
			*ptr = parseStringList(value)
		}
	}
}

func mergeAppEnvVars(config *Config) {
	if config.App == nil {
		config.App = NewAppConfig()
		return
	}
	applyEnvMappings(map[string]interface{}{
		"LOG_LEVEL":       &config.App.LogLevel,
		"LOG_FILE":        &config.App.LogFile,
		"APP_ENV":         &config.App.Environment,
		"RESTOCK_VERBOSE": &config.App.Verbose,
	})
}

func mergeMonitorEnvVars(config *Config) {
	if config.Monitor == nil {
		config.Monitor = NewMonitorConfig()
		return
	}
	applyEnvMappings(map[string]interface{}{
		"RESTOCK_PRODUCTS_FILE":     &config.Monitor.ProductsFile,
		"RESTOCK_STATE_FILE":        &config.Monitor.StateFile,
		"RESTOCK_DELAY":             &config.Monitor.Delay,
		"RESTOCK_REMEMBER_NOTIFIED": &config.Monitor.RememberNotified,
		"RESTOCK_STRICT_STATE":      &config.Monitor.StrictState,
	})
}

func mergeFetcherEnvVars(config *Config) {
	if config.Fetcher == nil {
		config.Fetcher = NewFetcherConfig()
		return
	}
	applyEnvMappings(map[string]interface{}{
		"RESTOCK_FETCH_STRATEGY": &config.Fetcher.Strategy,
		"RESTOCK_FETCH_TIMEOUT":  &config.Fetcher.Timeout,
		"RESTOCK_SETTLE_DELAY":   &config.Fetcher.SettleDelay,
		"CHROME_PATH":            &config.Fetcher.ChromePath,
	})
}

// mergeNotifyEnvVars lets secrets in the environment win over the file.
func mergeNotifyEnvVars(config *Config) {
	if config.Notify == nil {
		config.Notify = NewNotifyConfig()
		return
	}
	if config.Notify.Telegram == nil {
		config.Notify.Telegram = NewTelegramConfig()
	}
	if config.Notify.WeChat == nil {
		config.Notify.WeChat = NewWeChatConfig()
	}
	applyEnvMappings(map[string]interface{}{
		"NOTIFY_CHANNEL":       &config.Notify.Channel,
		"TELEGRAM_BOT_TOKEN":   &config.Notify.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":     &config.Notify.Telegram.ChatID,
		"WECHAT_WEBHOOK_URL":   &config.Notify.WeChat.WebhookURL,
		"WECHAT_MENTION_USERS": &config.Notify.WeChat.MentionUsers,
	})
}

func mergeSchedulerEnvVars(config *Config) {
	if config.Scheduler == nil {
		config.Scheduler = NewSchedulerConfig()
		return
	}
	applyEnvMappings(map[string]interface{}{
		"SCHEDULER_ENABLED": &config.Scheduler.Enabled,
		"SCHEDULER_CRON":    &config.Scheduler.Cron,
	})
}

func mergeServerEnvVars(config *Config) {
	if config.Server == nil {
		config.Server = NewServerConfig()
		return
	}
	applyEnvMappings(map[string]interface{}{
		"SERVER_ENABLED":      &config.Server.Enabled,
		"SERVER_PORT":         &config.Server.Port,
		"SERVER_ADDRESS":      &config.Server.Address,
		"SERVER_CORS_ORIGINS": &config.Server.CORSOrigins,
	})
}
