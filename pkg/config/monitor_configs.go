package config

import (
	"fmt"
	"time"
)

// MonitorConfig controls a single check run.
type MonitorConfig struct {
	ProductsFile string   `json:"products_file" yaml:"products_file"`
	StateFile    string   `json:"state_file" yaml:"state_file"`
	Delay        Duration `json:"delay" yaml:"delay"` // spacing between two URLs
	// RememberNotified keeps the notified flag across Unknown results.
	RememberNotified bool `json:"remember_notified" yaml:"remember_notified"`
	// StrictState fails the run on a malformed state line instead of skipping it.
	StrictState bool `json:"strict_state" yaml:"strict_state"`
}

// FetcherConfig selects and tunes the page fetch strategy.
type FetcherConfig struct {
	Strategy       string   `json:"strategy" yaml:"strategy"` // static, browser
	Timeout        Duration `json:"timeout" yaml:"timeout"`
	SettleDelay    Duration `json:"settle_delay" yaml:"settle_delay"`
	UserAgent      string   `json:"user_agent" yaml:"user_agent"`
	AcceptLanguage string   `json:"accept_language" yaml:"accept_language"`
	ChromePath     string   `json:"chrome_path" yaml:"chrome_path"`
	Headless       bool     `json:"headless" yaml:"headless"`
}

// NewMonitorConfig creates a monitor configuration with default values populated from environment variables
func NewMonitorConfig() *MonitorConfig {
	return &MonitorConfig{
		ProductsFile:     getEnv("RESTOCK_PRODUCTS_FILE", "products.txt"),
		StateFile:        getEnv("RESTOCK_STATE_FILE", "state.txt"),
		Delay:            getEnvDuration("RESTOCK_DELAY", time.Second),
		RememberNotified: getEnvBool("RESTOCK_REMEMBER_NOTIFIED", true),
		StrictState:      getEnvBool("RESTOCK_STRICT_STATE", false),
	}
}

// NewFetcherConfig creates a fetcher configuration with default values populated from environment variables
func NewFetcherConfig() *FetcherConfig {
	return &FetcherConfig{
		Strategy:       getEnv("RESTOCK_FETCH_STRATEGY", "static"),
		Timeout:        getEnvDuration("RESTOCK_FETCH_TIMEOUT", 30*time.Second),
		SettleDelay:    getEnvDuration("RESTOCK_SETTLE_DELAY", 3*time.Second),
		AcceptLanguage: "en-US,en;q=0.9",
		ChromePath:     getEnv("CHROME_PATH", ""),
		Headless:       true,
	}
}

// Validate checks the monitor section.
func (mc *MonitorConfig) Validate() error {
	if mc.ProductsFile == "" {
		return fmt.Errorf("%w: monitor.products_file", ErrMissingRequired)
	}
	if mc.StateFile == "" {
		return fmt.Errorf("%w: monitor.state_file", ErrMissingRequired)
	}
	if mc.Delay < 0 {
		return fmt.Errorf("%w: monitor.delay must not be negative", ErrInvalidValue)
	}
	return nil
}

// Validate checks the fetcher section.
func (fc *FetcherConfig) Validate() error {
	if !isValidValue(fc.Strategy, []string{"static", "browser"}) {
		return fmt.Errorf("%w: fetcher.strategy %q (want static or browser)", ErrInvalidValue, fc.Strategy)
	}
	if fc.Timeout <= 0 {
		return fmt.Errorf("%w: fetcher.timeout must be positive", ErrInvalidValue)
	}
	if fc.SettleDelay < 0 {
		return fmt.Errorf("%w: fetcher.settle_delay must not be negative", ErrInvalidValue)
	}
	return nil
}
