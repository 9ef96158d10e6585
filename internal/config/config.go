// Package config loads runtime settings from the environment (and an
// optional .env file) plus the YAML category and seed files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"inventory-dashboard/internal/model"
	"inventory-dashboard/internal/view"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName   string `envconfig:"APP_NAME" default:"Inventory Dashboard v1.0"`
	Port      string `envconfig:"PORT" default:"3000"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	SearchDebounce   time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"500ms"`
	DeleteConfirmTTL time.Duration `envconfig:"DELETE_CONFIRM_TTL" default:"3s"`
	DefaultPageSize  int           `envconfig:"DEFAULT_PAGE_SIZE" default:"10"`

	GeminiAPIKey   string        `envconfig:"GEMINI_API_KEY"`
	APIKey         string        `envconfig:"API_KEY"`
	GeminiModel    string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	AssistTimeout  time.Duration `envconfig:"ASSIST_TIMEOUT" default:"15s"`
	AssistCacheTTL time.Duration `envconfig:"ASSIST_CACHE_TTL" default:"24h"`
	RedisAddr      string        `envconfig:"REDIS_ADDR"`

	CategoriesFile string `envconfig:"CATEGORIES_FILE"`
	SeedFile       string `envconfig:"SEED_FILE"`
	SeedDisabled   bool   `envconfig:"SEED_DISABLED" default:"false"`

	DescribeRateLimit int `envconfig:"DESCRIBE_RATE_LIMIT" default:"10"`
}

var ErrInvalidPageSize = errors.New("config: DEFAULT_PAGE_SIZE must be one of 5, 10 or 20")

// Load reads .env when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found")
	}
	return LoadEnv()
}

// LoadEnv reads configuration from environment variables only.
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if view.NormalizePageSize(cfg.DefaultPageSize, 0) == 0 {
		return nil, ErrInvalidPageSize
	}
	if cfg.SearchDebounce <= 0 || cfg.DeleteConfirmTTL <= 0 {
		return nil, errors.New("config: SEARCH_DEBOUNCE and DELETE_CONFIRM_TTL must be positive")
	}
	return &cfg, nil
}

// GenerationKey is GEMINI_API_KEY, or API_KEY when that is unset.
func (c *Config) GenerationKey() string {
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.APIKey
}

// NewLogger returns a slog.Logger writing text or JSON to stdout.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg)}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(cfg *Config) slog.Level {
	var level slog.Level
	if cfg == nil {
		return slog.LevelInfo
	}
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

type categoriesFile struct {
	Categories []string `yaml:"categories"`
}

// LoadCategories reads the category list from CATEGORIES_FILE, falling back
// to the built-in list when none is configured.
func (c *Config) LoadCategories() (model.Categories, error) {
	if c.CategoriesFile == "" {
		return model.NewCategories(model.DefaultCategories), nil
	}
	var f categoriesFile
	if err := readYAML(c.CategoriesFile, &f); err != nil {
		return model.Categories{}, err
	}
	categories := model.NewCategories(f.Categories)
	if categories.Len() == 0 {
		return model.Categories{}, fmt.Errorf("config: %s lists no categories", c.CategoriesFile)
	}
	return categories, nil
}

type seedFile struct {
	Products []model.SeedProduct `yaml:"products"`
}

// LoadSeed returns the initial catalog entries: none when seeding is
// disabled, SEED_FILE when set, the sample catalog otherwise.
func (c *Config) LoadSeed() ([]model.SeedProduct, error) {
	if c.SeedDisabled {
		return nil, nil
	}
	if c.SeedFile == "" {
		return model.DefaultSeed, nil
	}
	var f seedFile
	if err := readYAML(c.SeedFile, &f); err != nil {
		return nil, err
	}
	return f.Products, nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}
