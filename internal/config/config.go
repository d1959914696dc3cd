package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"portfolio-alerts/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Logging    logging.Config   `mapstructure:"logging"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Market     MarketConfig     `mapstructure:"market"`
	Evaluator  EvaluatorConfig  `mapstructure:"evaluator"`
	Indicators IndicatorsConfig `mapstructure:"indicators"`
	Alerting   AlertingConfig   `mapstructure:"alerting"`
	Export     ExportConfig     `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// StorageConfig selects and parameterises the document backend.
type StorageConfig struct {
	Backend string        `mapstructure:"backend"` // "local" or "remote"
	Local   LocalConfig   `mapstructure:"local"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LocalConfig describes the on-disk document directory.
type LocalConfig struct {
	Dir string `mapstructure:"dir"`
}

// RemoteConfig encapsulates the encrypted PostgreSQL document store.
type RemoteConfig struct {
	DSN             string        `mapstructure:"dsn"`
	EncryptionKey   string        `mapstructure:"encryption_key"` // hex, 32 bytes
	Namespace       string        `mapstructure:"namespace"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// MarketConfig covers market data access.
type MarketConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
	Currency       string        `mapstructure:"currency"`
}

// EvaluatorConfig governs the alert evaluation cadence.
type EvaluatorConfig struct {
	Interval      time.Duration `mapstructure:"interval"`
	AlignToBucket bool          `mapstructure:"align_to_bucket"`
	StartupDelay  time.Duration `mapstructure:"startup_delay"`
}

// IndicatorsConfig tunes the technical indicator engine.
type IndicatorsConfig struct {
	HistoryDays int `mapstructure:"history_days"`
	RSIPeriod   int `mapstructure:"rsi_period"`
}

// AlertingConfig defines notification routing.
type AlertingConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Channels []string       `mapstructure:"channels"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig 描述 Telegram 告警参数。
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("COINWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "coinwatch")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local.dir", ".coinwatch")
	v.SetDefault("storage.timeout", "5s")
	v.SetDefault("storage.remote.namespace", "default")
	v.SetDefault("storage.remote.max_open_conns", 10)
	v.SetDefault("storage.remote.max_idle_conns", 5)
	v.SetDefault("storage.remote.conn_max_lifetime", "30m")

	v.SetDefault("market.base_url", "https://chasing-coins.com/api/v1")
	v.SetDefault("market.request_timeout", "10s")
	v.SetDefault("market.user_agent", "coinwatch/1.0")
	v.SetDefault("market.currency", "USD")

	v.SetDefault("evaluator.interval", "1m")
	v.SetDefault("evaluator.align_to_bucket", true)
	v.SetDefault("evaluator.startup_delay", "0s")

	v.SetDefault("indicators.history_days", 30)
	v.SetDefault("indicators.rsi_period", 14)

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.channels", []string{"telegram"})
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("export.max_data_points", 100000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "local", "remote":
	default:
		return fmt.Errorf("storage.backend must be \"local\" or \"remote\", got %q", c.Storage.Backend)
	}
	if c.Storage.Backend == "remote" {
		if c.Storage.Remote.DSN == "" {
			return fmt.Errorf("storage.remote.dsn is required for the remote backend")
		}
		if c.Storage.Remote.EncryptionKey == "" {
			return fmt.Errorf("storage.remote.encryption_key is required for the remote backend")
		}
	}
	if c.Evaluator.Interval <= 0 {
		return fmt.Errorf("evaluator.interval must be greater than zero")
	}
	if c.Indicators.HistoryDays <= 0 {
		return fmt.Errorf("indicators.history_days must be greater than zero")
	}
	if c.Indicators.RSIPeriod <= 0 {
		return fmt.Errorf("indicators.rsi_period must be greater than zero")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token 必须配置")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id 必须配置")
		}
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
