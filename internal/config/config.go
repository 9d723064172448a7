package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Notifier NotifierConfig `toml:"notifier"`
	Facility FacilityConfig `toml:"facility"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	QueryTimeout    int    `toml:"query_timeout"`     // секунды
}

// DSN возвращает строку подключения postgres
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// NotifierConfig настройки клиента сервиса уведомлений
type NotifierConfig struct {
	URL           string  `toml:"url"`
	Timeout       int     `toml:"timeout"`         // секунды
	RatePerSecond float64 `toml:"rate_per_second"` // лимит исходящих уведомлений
}

// FacilityConfig параметры объекта и генерации слотов
type FacilityConfig struct {
	// Timezone таймзона объекта, например "Asia/Tokyo"
	Timezone string `toml:"timezone"`
	// HorizonDays горизонт генерации слотов от первого дня текущего месяца
	HorizonDays int `toml:"horizon_days"`
	// RegularCapacityPoints вместимость обычного слота в points
	RegularCapacityPoints int `toml:"regular_capacity_points"`
	// ExclusiveCapacityPoints вместимость слота эксклюзивного окна в points
	ExclusiveCapacityPoints int `toml:"exclusive_capacity_points"`
}

// Location возвращает *time.Location таймзоны объекта
func (c FacilityConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.QueryTimeout == 0 {
		c.Database.QueryTimeout = 5
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "smc-allocation-service"
	}
	if c.Notifier.RatePerSecond == 0 {
		c.Notifier.RatePerSecond = 5
	}
	if c.Facility.HorizonDays == 0 {
		c.Facility.HorizonDays = domain.DefaultHorizonDays
	}
	if c.Facility.RegularCapacityPoints == 0 {
		c.Facility.RegularCapacityPoints = domain.DefaultRegularCapacityPoints
	}
	if c.Facility.ExclusiveCapacityPoints == 0 {
		c.Facility.ExclusiveCapacityPoints = domain.DefaultExclusiveCapacityPoints
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.Facility.HorizonDays < domain.MinHorizonDays || c.Facility.HorizonDays > domain.MaxHorizonDays {
		return fmt.Errorf("facility.horizon_days must be in range %d-%d", domain.MinHorizonDays, domain.MaxHorizonDays)
	}
	if _, err := c.Facility.Location(); err != nil {
		return fmt.Errorf("facility.timezone: %w", err)
	}
	return nil
}
