package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-VenueCRM/pkg/psqlbuilder"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Venue          VenueConfig          `toml:"venue"`
	Redis          RedisConfig          `toml:"redis"`
	Telegram       TelegramConfig       `toml:"telegram"`
	GoogleCalendar GoogleCalendarConfig `toml:"google_calendar"`
	Export         ExportConfig         `toml:"export"`
	Workers        WorkersConfig        `toml:"workers"`
}

// ServerConfig HTTP сервер, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig подключение к БД: postgres или sqlite3 для одной площадки
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл базы для sqlite3
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// LogsConfig настройки логгера
type LogsConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"` // json | console
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Env        string `toml:"env"`
}

// MetricsConfig Prometheus метрики
type MetricsConfig struct {
	Enabled      bool   `toml:"enabled"`
	Path         string `toml:"path"`
	ServiceName  string `toml:"service_name"`
	PoolInterval int    `toml:"pool_interval"` // секунды
}

// VenueConfig площадка
type VenueConfig struct {
	Name     string `toml:"name"`
	Timezone string `toml:"timezone"`
}

// RedisConfig хранилище ключей идемпотентности платежей
type RedisConfig struct {
	Enabled        bool   `toml:"enabled"`
	Address        string `toml:"address"`
	Password       string `toml:"password"`
	DB             int    `toml:"db"`
	PoolSize       int    `toml:"pool_size"`
	IdempotencyTTL int    `toml:"idempotency_ttl"` // часы
}

// TelegramConfig уведомления менеджерам
type TelegramConfig struct {
	Enabled       bool    `toml:"enabled"`
	BotToken      string  `toml:"bot_token"`
	ChatIDs       []int64 `toml:"chat_ids"`
	RatePerSecond float64 `toml:"rate_per_second"`
}

// GoogleCalendarConfig синхронизация бронирований с календарём
type GoogleCalendarConfig struct {
	Enabled         bool   `toml:"enabled"`
	CredentialsFile string `toml:"credentials_file"`
	CalendarID      string `toml:"calendar_id"`
}

// ExportConfig выгрузка в xlsx
type ExportConfig struct {
	Enabled bool `toml:"enabled"`
}

// WorkersConfig очереди фоновых задач, задержки в секундах
type WorkersConfig struct {
	QueueSize    int     `toml:"queue_size"`
	MaxRetries   int     `toml:"max_retries"`
	InitialDelay int     `toml:"initial_delay"`
	MaxDelay     int     `toml:"max_delay"`
	Backoff      float64 `toml:"backoff"`
}

// Load читает .env (если есть), подставляет переменные окружения в TOML и валидирует результат
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(os.ExpandEnv(string(data)))
}

// Parse разбирает TOML, применяет значения по умолчанию и валидирует
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode toml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 30)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 10)

	if c.Database.Driver == "" {
		c.Database.Driver = string(psqlbuilder.Postgres)
	}
	setDefault(&c.Database.Port, 5432)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Logs.Format == "" {
		c.Logs.Format = "json"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "venue_crm"
	}
	setDefault(&c.Metrics.PoolInterval, 15)

	if c.Venue.Timezone == "" {
		c.Venue.Timezone = "UTC"
	}

	setDefault(&c.Redis.PoolSize, 10)
	setDefault(&c.Redis.IdempotencyTTL, 24)

	if c.Telegram.RatePerSecond <= 0 {
		c.Telegram.RatePerSecond = 1
	}
	if c.GoogleCalendar.CalendarID == "" {
		c.GoogleCalendar.CalendarID = "primary"
	}

	setDefault(&c.Workers.QueueSize, 256)
	setDefault(&c.Workers.MaxRetries, 5)
	setDefault(&c.Workers.InitialDelay, 2)
	setDefault(&c.Workers.MaxDelay, 60)
	if c.Workers.Backoff <= 0 {
		c.Workers.Backoff = 2
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort))
	}

	dialect, err := psqlbuilder.ParseDialect(c.Database.Driver)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("database.driver: %w", err))
	case dialect == psqlbuilder.SQLite && c.Database.Path == "":
		errs = append(errs, errors.New("database.path is required for sqlite3"))
	case dialect == psqlbuilder.Postgres && (c.Database.Host == "" || c.Database.DBName == ""):
		errs = append(errs, errors.New("database.host and database.dbname are required for postgres"))
	}

	if _, err := time.LoadLocation(c.Venue.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("venue.timezone: %w", err))
	}

	if c.Redis.Enabled && c.Redis.Address == "" {
		errs = append(errs, errors.New("redis.address is required when redis is enabled"))
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" || c.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
			errs = append(errs, errors.New("telegram.bot_token is required when telegram is enabled"))
		}
		if len(c.Telegram.ChatIDs) == 0 {
			errs = append(errs, errors.New("telegram.chat_ids must not be empty when telegram is enabled"))
		}
	}

	if c.GoogleCalendar.Enabled && c.GoogleCalendar.CredentialsFile == "" {
		errs = append(errs, errors.New("google_calendar.credentials_file is required when calendar sync is enabled"))
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path))
	}

	return errors.Join(errs...)
}

// Dialect диалект SQL для выбранного драйвера
func (d DatabaseConfig) Dialect() psqlbuilder.Dialect {
	dialect, _ := psqlbuilder.ParseDialect(d.Driver)
	return dialect
}

// DSN строка подключения для database/sql
func (d DatabaseConfig) DSN() string {
	if d.Dialect() == psqlbuilder.SQLite {
		return d.Path + psqlbuilder.SQLiteDSNParams
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Location часовой пояс площадки
func (v VenueConfig) Location() *time.Location {
	loc, err := time.LoadLocation(v.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}
