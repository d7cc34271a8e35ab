package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// SchedulerConfig represents the scheduler configuration
type SchedulerConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Cron    string `json:"cron" yaml:"cron"`
}

// ServerConfig represents server configuration settings
type ServerConfig struct {
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	Port        int      `json:"port" yaml:"port"`
	Address     string   `json:"address" yaml:"address"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`
}

// AppConfig represents application configuration settings
type AppConfig struct {
	LogLevel    string `json:"log_level" yaml:"log_level"`
	LogFile     string `json:"log_file" yaml:"log_file"`
	Environment string `json:"environment" yaml:"environment"`
	Verbose     bool   `json:"verbose" yaml:"verbose"`
}

// NewSchedulerConfig creates a scheduler configuration with default values populated from environment variables
func NewSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Enabled: getEnvBool("SCHEDULER_ENABLED", true),
		Cron:    getEnv("SCHEDULER_CRON", "*/10 * * * *"),
	}
}

// NewServerConfig creates a server configuration with default values populated from environment variables
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Enabled:     getEnvBool("SERVER_ENABLED", false),
		Port:        getEnvInt("SERVER_PORT", 8080),
		Address:     getEnv("SERVER_ADDRESS", "127.0.0.1"),
		CORSOrigins: parseStringList(getEnv("SERVER_CORS_ORIGINS", "")),
	}
}

// NewAppConfig creates an application configuration with default values populated from environment variables
func NewAppConfig() *AppConfig {
	return &AppConfig{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFile:     getEnv("LOG_FILE", ""),
		Environment: getEnv("APP_ENV", "production"),
		Verbose:     getEnvBool("RESTOCK_VERBOSE", false),
	}
}

// Validate validates scheduler configuration
func (sc *SchedulerConfig) Validate() error {
	if !sc.Enabled {
		return nil
	}
	if strings.TrimSpace(sc.Cron) == "" {
		return fmt.Errorf("%w: scheduler.cron", ErrMissingRequired)
	}
	if !isValidCronExpression(sc.Cron) {
		return fmt.Errorf("%w: %q", ErrInvalidCron, sc.Cron)
	}
	return nil
}

// Validate validates server configuration
func (sc *ServerConfig) Validate() error {
	if !sc.Enabled {
		return nil
	}
	if sc.Port <= 0 || sc.Port > 65535 {
		return fmt.Errorf("%w: server.port %d", ErrInvalidValue, sc.Port)
	}
	return nil
}

// Validate validates application configuration
func (ac *AppConfig) Validate() error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if ac.LogLevel != "" && !isValidValue(strings.ToLower(ac.LogLevel), validLevels) {
		return fmt.Errorf("%w: app.log_level %q", ErrInvalidValue, ac.LogLevel)
	}
	validEnvs := []string{"development", "production"}
	if ac.Environment != "" && !isValidValue(ac.Environment, validEnvs) {
		return fmt.Errorf("%w: app.environment %q", ErrInvalidValue, ac.Environment)
	}
	return nil
}

// IsDevelopment reports whether console-only development logging is wanted.
func (ac *AppConfig) IsDevelopment() bool {
	return ac.Environment == "development"
}

func isValidCronExpression(expr string) bool {
	_, err := cron.ParseStandard(expr)
	return err == nil
}
