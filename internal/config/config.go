package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не удалось прочитать
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid config")
)

// Драйверы блокировки критической секции бронирования
const (
	LockDriverLocal = "local"
	LockDriverRedis = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Lock     LockConfig     `toml:"lock"`
	Booking  BookingConfig  `toml:"booking"`
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	LockTimeoutMS   int    `toml:"lock_timeout_ms"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// LockConfig настройки блокировки критической секции (дата бронирования)
type LockConfig struct {
	Driver        string `toml:"driver"` // local | redis
	WaitTimeoutMS int    `toml:"wait_timeout_ms"`
	TTLSeconds    int    `toml:"ttl_seconds"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	KeyPrefix     string `toml:"key_prefix"`
}

// WaitTimeout таймаут ожидания блокировки
func (l LockConfig) WaitTimeout() time.Duration {
	return time.Duration(l.WaitTimeoutMS) * time.Millisecond
}

// TTL время жизни распределённой блокировки
func (l LockConfig) TTL() time.Duration {
	return time.Duration(l.TTLSeconds) * time.Second
}

// BookingConfig значения по умолчанию для снимка настроек бронирования.
// Используются, пока в БД нет сохранённых настроек.
type BookingConfig struct {
	Timezone               string `toml:"timezone"`
	SlotStepMinutes        int    `toml:"slot_step_minutes"`
	DefaultDurationMinutes int    `toml:"default_duration_minutes"`
	MinLeadMinutes         int    `toml:"min_lead_minutes"`
	MaxLeadDays            int    `toml:"max_lead_days"`
	MaxPartySize           int    `toml:"max_party_size"`
	RoomPolicy             string `toml:"room_policy"`
}

// Location возвращает часовой пояс ресторана
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	return loc, nil
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию
// и переопределения из переменных окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "table_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			LockTimeoutMS:   2000,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "table-booking",
		},
		Lock: LockConfig{
			Driver:        LockDriverLocal,
			WaitTimeoutMS: 3000,
			TTLSeconds:    10,
			KeyPrefix:     "table-booking:lock:",
		},
		Booking: BookingConfig{
			Timezone:               "UTC",
			SlotStepMinutes:        30,
			DefaultDurationMinutes: 120,
			MinLeadMinutes:         60,
			MaxLeadDays:            60,
			MaxPartySize:           20,
			RoomPolicy:             "best_fit",
		},
	}
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Lock.Driver != LockDriverLocal && c.Lock.Driver != LockDriverRedis {
		return fmt.Errorf("%w: lock.driver must be %q or %q", ErrInvalidConfig, LockDriverLocal, LockDriverRedis)
	}
	if c.Lock.Driver == LockDriverRedis && c.Lock.RedisAddr == "" {
		return fmt.Errorf("%w: lock.redis_addr is required for redis driver", ErrInvalidConfig)
	}
	if c.Lock.WaitTimeoutMS <= 0 {
		return fmt.Errorf("%w: lock.wait_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.Booking.SlotStepMinutes <= 0 {
		return fmt.Errorf("%w: booking.slot_step_minutes must be positive", ErrInvalidConfig)
	}
	if c.Booking.MaxPartySize <= 0 {
		return fmt.Errorf("%w: booking.max_party_size must be positive", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Lock.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Lock.RedisPassword = v
	}
}
