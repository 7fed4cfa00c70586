package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Data source kinds
const (
	DataSourceHTTP     = "http"
	DataSourcePostgres = "postgres"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса (config.toml)
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	DataSource     DataSourceConfig     `toml:"data_source"`
	ParkingBackend ParkingBackendConfig `toml:"parking_backend"`
	Engine         EngineConfig         `toml:"engine"`
	Redis          RedisConfig          `toml:"redis"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DataSourceConfig откуда брать слоты и бронирования: http или postgres
type DataSourceConfig struct {
	Kind string `toml:"kind"`
}

// ParkingBackendConfig REST backend парковок (таймаут в секундах)
type ParkingBackendConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// EngineConfig параметры движка занятости
type EngineConfig struct {
	Timezone           string `toml:"timezone"`
	TickIntervalMs     int    `toml:"tick_interval_ms"`
	RefetchIntervalSec int    `toml:"refetch_interval_sec"`
	MaxParallelFetches int    `toml:"max_parallel_fetches"`
	LoadTimeoutSec     int    `toml:"load_timeout_sec"`
}

// TickInterval период тиканья часов
func (e EngineConfig) TickInterval() time.Duration {
	return time.Duration(e.TickIntervalMs) * time.Millisecond
}

// RefetchInterval период повторной загрузки бронирований
func (e EngineConfig) RefetchInterval() time.Duration {
	return time.Duration(e.RefetchIntervalSec) * time.Second
}

// LoadTimeout ограничение на один цикл загрузки
func (e EngineConfig) LoadTimeout() time.Duration {
	return time.Duration(e.LoadTimeoutSec) * time.Second
}

// Location часовой пояс, в котором интерпретируются дата и время выбора
func (e EngineConfig) Location() (*time.Location, error) {
	return time.LoadLocation(e.Timezone)
}

// RedisConfig настройки кэша снимков занятости
type RedisConfig struct {
	Enabled     bool   `toml:"enabled"`
	Addr        string `toml:"addr"`
	Password    string `toml:"password"`
	DB          int    `toml:"db"`
	SnapshotTTL int    `toml:"snapshot_ttl_sec"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "parking",
			SSLMode:         "disable",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc-parking-occupancy",
		},
		DataSource: DataSourceConfig{
			Kind: DataSourceHTTP,
		},
		ParkingBackend: ParkingBackendConfig{
			URL:     "http://localhost:8081",
			Timeout: 5,
		},
		Engine: EngineConfig{
			Timezone:           "Asia/Ho_Chi_Minh",
			TickIntervalMs:     1000,
			RefetchIntervalSec: 30,
			MaxParallelFetches: 8,
			LoadTimeoutSec:     10,
		},
		Redis: RedisConfig{
			Addr:        "localhost:6379",
			SnapshotTTL: 120,
		},
	}
}

// Load читает конфигурацию из TOML файла поверх значений по умолчанию
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}

	switch c.DataSource.Kind {
	case DataSourceHTTP:
		if c.ParkingBackend.URL == "" {
			return fmt.Errorf("%w: parking_backend.url is required for http data source", ErrInvalidConfig)
		}
	case DataSourcePostgres:
	default:
		return fmt.Errorf("%w: data_source.kind must be %q or %q", ErrInvalidConfig, DataSourceHTTP, DataSourcePostgres)
	}

	if c.Engine.TickIntervalMs <= 0 {
		return fmt.Errorf("%w: engine.tick_interval_ms must be positive", ErrInvalidConfig)
	}
	if c.Engine.RefetchIntervalSec <= 0 {
		return fmt.Errorf("%w: engine.refetch_interval_sec must be positive", ErrInvalidConfig)
	}
	if c.Engine.MaxParallelFetches <= 0 {
		return fmt.Errorf("%w: engine.max_parallel_fetches must be positive", ErrInvalidConfig)
	}
	if _, err := c.Engine.Location(); err != nil {
		return fmt.Errorf("%w: engine.timezone: %v", ErrInvalidConfig, err)
	}

	return nil
}
