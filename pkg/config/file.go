package config

import "restockwatch/pkg/stock"

// Config is the root configuration.
type Config struct {
	App       *AppConfig       `json:"app" yaml:"app"`
	Monitor   *MonitorConfig   `json:"monitor" yaml:"monitor"`
	Fetcher   *FetcherConfig   `json:"fetcher" yaml:"fetcher"`
	Markers   *stock.Markers   `json:"markers" yaml:"markers"`
	Notify    *NotifyConfig    `json:"notify" yaml:"notify"`
	Scheduler *SchedulerConfig `json:"scheduler" yaml:"scheduler"`
	Server    *ServerConfig    `json:"server" yaml:"server"`
}

// Default returns a configuration with every section at its default.
func Default() *Config {
	return getDefaultConfig()
}

// getDefaultConfig builds defaults, each section reading its own env vars.
func getDefaultConfig() *Config {
	markers := stock.DefaultMarkers()
	return &Config{
		App:       NewAppConfig(),
		Monitor:   NewMonitorConfig(),
		Fetcher:   NewFetcherConfig(),
		Markers:   &markers,
		Notify:    NewNotifyConfig(),
		Scheduler: NewSchedulerConfig(),
		Server:    NewServerConfig(),
	}
}
