package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"LotoSentinel/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Data     DataConfig     `yaml:"data"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Budget   BudgetConfig   `yaml:"budget"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Log      LogConfig      `yaml:"log"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" validate:"required"`
	ChatID   int64  `yaml:"chat_id" validate:"required"`
}

type DataConfig struct {
	LotoURL     string  `yaml:"loto_url"`
	FootballURL string  `yaml:"football_url"`
	LotoCSV     string  `yaml:"loto_csv"`
	FootballCSV string  `yaml:"football_csv"`
	APIKey      string  `yaml:"api_key"`
	RatePerSec  float64 `yaml:"rate_per_sec" default:"2" validate:"gt=0"`
	Burst       int     `yaml:"burst" default:"1" validate:"gte=1"`
	MaxRetries  int     `yaml:"max_retries" default:"4" validate:"gte=0"`
	TimeoutSec  int     `yaml:"timeout_sec" default:"15" validate:"gte=1"`
}

type AnalysisConfig struct {
	HighThreshold  float64  `yaml:"high_threshold" default:"2.5" validate:"gt=0,gtefield=AlertThreshold"`
	AlertThreshold float64  `yaml:"alert_threshold" default:"2.0" validate:"gt=0"`
	Warmup         int      `yaml:"warmup" default:"20" validate:"gte=1"`
	Lookahead      int      `yaml:"lookahead" default:"10" validate:"gte=1"`
	GridsPerDraw   int      `yaml:"grids_per_draw" default:"5" validate:"gte=1"`
	GridCount      int      `yaml:"grid_count" default:"3" validate:"gte=1"`
	Strategies     []string `yaml:"strategies" default:"[\"RANDOM\",\"AVOID_COMMON\",\"BALANCED_SUM\",\"HOT_COLD\"]" validate:"min=1,dive,oneof=RANDOM AVOID_COMMON BALANCED_SUM HOT_COLD"`
	HotColdMode    string   `yaml:"hot_cold_mode" default:"MIXED" validate:"oneof=HOT COLD MIXED"`
	HotColdPool    int      `yaml:"hot_cold_pool" default:"10" validate:"gte=1"`
	Seed           int64    `yaml:"seed"`
}

type ScheduleConfig struct {
	// Loto draws take place Monday, Wednesday and Saturday evenings.
	LotoCron     string `yaml:"loto_cron" default:"0 30 21 * * 1,3,6" validate:"required"`
	FootballCron string `yaml:"football_cron" default:"0 0 23 * * *" validate:"required"`
	DigestCron   string `yaml:"digest_cron" default:"0 0 9 * * 1" validate:"required"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" default:"sqlite" validate:"oneof=sqlite postgres none"`
	DSN    string `yaml:"dsn" default:"data/lotosentinel.db"`
}

type CacheConfig struct {
	Backend    string `yaml:"backend" default:"memory" validate:"oneof=memory redis none"`
	RedisAddr  string `yaml:"redis_addr"`
	TTLMinutes int    `yaml:"ttl_minutes" default:"60" validate:"gte=1"`
}

type BudgetConfig struct {
	// Monthly play budget in euros, 0 disables the cap.
	Monthly   float64 `yaml:"monthly" validate:"gte=0"`
	StateFile string  `yaml:"state_file" default:"data/bankroll.json"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen" default:":9190"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Pretty bool   `yaml:"pretty"`
}

// Load reads config from a YAML file, applies environment variable
// overrides, then fills the remaining zero fields with defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Telegram.ChatID = id
		}
	}
	if v := os.Getenv("LOTO_RESULTS_URL"); v != "" {
		cfg.Data.LotoURL = v
	}
	if v := os.Getenv("FOOTBALL_RESULTS_URL"); v != "" {
		cfg.Data.FootballURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.Data.APIKey = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
		cfg.Cache.Backend = "redis"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks that the assembled configuration is usable.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("%w: cache.redis_addr is required with the redis backend", model.ErrConfiguration)
	}
	return nil
}

// Strategies returns the configured grid strategies, parsed.
func (c *Config) Strategies() ([]model.Strategy, error) {
	out := make([]model.Strategy, 0, len(c.Analysis.Strategies))
	for _, raw := range c.Analysis.Strategies {
		s, err := model.ParseStrategy(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
