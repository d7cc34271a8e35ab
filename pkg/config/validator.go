package config

import (
	"fmt"

	"restockwatch/pkg/stock"
)

// ValidateConfig 验证完整的配置
func (c *Config) ValidateConfig() error {
	validators := []struct {
		name string
		fn   func() error
	}{
		{"app", c.App.Validate},
		{"monitor", c.Monitor.Validate},
		{"fetcher", c.Fetcher.Validate},
		{"markers", c.validateMarkers},
		{"notify", c.Notify.Validate},
		{"scheduler", c.Scheduler.Validate},
		{"server", c.Server.Validate},
	}

	for _, v := range validators {
		if err := v.fn(); err != nil {
			return fmt.Errorf("%s config: %w", v.name, err)
		}
	}
	return nil
}

func (c *Config) validateMarkers() error {
	if _, err := stock.NewClassifier(*c.Markers); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return nil
}

func isValidValue(value string, validValues []string) bool {
	for _, v := range validValues {
		if value == v {
			return true
		}
	}
	return false
}
