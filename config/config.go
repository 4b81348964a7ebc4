package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"qc-tracking-backend/internal/model"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Standards  model.Standards  `yaml:"standards"`
	Master     model.MasterData `yaml:"master"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Log        LogConfig        `yaml:"log"`
	Client     ClientConfig     `yaml:"client"`
	OCR        OCRConfig        `yaml:"ocr"`
}

// Store drivers.
const (
	StoreFile  = "file"
	StoreSQL   = "sql"
	StoreRedis = "redis"
)

// StoreConfig selects where measurements are kept.
type StoreConfig struct {
	Driver   string `yaml:"driver"`    // file, sql or redis
	FilePath string `yaml:"file_path"` // for the file driver
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push reject alerts.
type PushConfig struct {
	Enabled    bool   `yaml:"enabled"`
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RequestIPHeader string   `yaml:"request_ip_header"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Dialect                string `yaml:"dialect"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// RedisConfig holds the connection settings for the redis store.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// ClientConfig drives the dashboard client and the qcctl CLI.
type ClientConfig struct {
	BaseURL             string        `yaml:"base_url"`
	PollIntervalSeconds int           `yaml:"poll_interval_seconds"`
	PollInterval        time.Duration `yaml:"-"` // Ignored by YAML parser
	TimeoutSeconds      int           `yaml:"timeout_seconds"`
	Timeout             time.Duration `yaml:"-"`
	PageSize            int           `yaml:"page_size"`
	ChartWindow         int           `yaml:"chart_window"`
}

// OCRConfig holds the text-recognition API settings.
type OCRConfig struct {
	URL      string `yaml:"url"`
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"language"`
	Engine   int    `yaml:"engine"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default applied, for running
// without a config file.
func Default() *Config {
	var cfg Config
	cfg.ApplyDefaults()
	return &cfg
}

// ApplyDefaults fills every unset field with its default.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreFile
	}
	if cfg.Store.FilePath == "" {
		cfg.Store.FilePath = "data.json"
	}
	if cfg.Database.Dialect == "" {
		cfg.Database.Dialect = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Dialect == "sqlite" {
		cfg.Database.DSN = "qc.db"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = "qc:"
	}

	if cfg.Standards == (model.Standards{}) {
		cfg.Standards = model.DefaultStandards()
	}
	def := model.DefaultMasterData()
	if len(cfg.Master.Groups) == 0 {
		cfg.Master.Groups = def.Groups
	}
	if len(cfg.Master.Shifts) == 0 {
		cfg.Master.Shifts = def.Shifts
	}
	if len(cfg.Master.Lines) == 0 {
		cfg.Master.Lines = def.Lines
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = fmt.Sprintf("http://localhost:%d/api", cfg.Server.Port)
	}
	if cfg.Client.PollIntervalSeconds <= 0 {
		cfg.Client.PollIntervalSeconds = 3
	}
	cfg.Client.PollInterval = time.Duration(cfg.Client.PollIntervalSeconds) * time.Second
	if cfg.Client.TimeoutSeconds <= 0 {
		cfg.Client.TimeoutSeconds = 10
	}
	cfg.Client.Timeout = time.Duration(cfg.Client.TimeoutSeconds) * time.Second
	if cfg.Client.PageSize <= 0 {
		cfg.Client.PageSize = 5
	}
	if cfg.Client.ChartWindow <= 0 {
		cfg.Client.ChartWindow = 10
	}

	if cfg.OCR.URL == "" {
		cfg.OCR.URL = "https://api.ocr.space/parse/image"
	}
	if cfg.OCR.Language == "" {
		cfg.OCR.Language = "eng"
	}
	if cfg.OCR.Engine <= 0 {
		cfg.OCR.Engine = 2
	}
}

// Validate rejects configurations the server cannot start with.
func (cfg *Config) Validate() error {
	switch cfg.Store.Driver {
	case StoreFile, StoreSQL, StoreRedis:
	default:
		return fmt.Errorf("store.driver must be %q, %q or %q, got %q", StoreFile, StoreSQL, StoreRedis, cfg.Store.Driver)
	}
	s := cfg.Standards
	if s.MinSuhu > s.MaxSuhu || s.MinBerat > s.MaxBerat {
		return fmt.Errorf("standards: minimum above maximum: %+v", s)
	}
	if cfg.Push.Enabled && (cfg.Push.PublicKey == "" || cfg.Push.PrivateKey == "") {
		return fmt.Errorf("push.enabled requires vapid_public_key and vapid_private_key")
	}
	return nil
}
