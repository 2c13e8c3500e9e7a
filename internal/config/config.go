// Package config reads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerAddress  string        `validate:"required"`
	ContextTimeout time.Duration `validate:"gt=0"`

	Database Database
	Cache    Cache

	// APIRateLimit is requests per second for the whole process; 0 disables it.
	APIRateLimit float64 `validate:"gte=0"`
	APIRateBurst int     `validate:"gte=0"`

	LogLevel  string `validate:"oneof=trace debug info warn error"`
	LogFormat string `validate:"oneof=text json"`
}

type Database struct {
	Host     string `validate:"required"`
	Port     string `validate:"required,numeric"`
	User     string `validate:"required"`
	Pass     string
	Name     string `validate:"required"`
	MaxRetry int    `validate:"gte=1"`
}

// DSN formats the go-sql-driver connection string.
func (d Database) DSN() string {
	cfg := mysqldriver.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(d.Host, d.Port)
	cfg.DBName = d.Name
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Cache is redis. An empty Host selects the in-memory cache.
type Cache struct {
	Host string
	Port string `validate:"omitempty,numeric"`
	Pass string
	DB   int `validate:"gte=0"`
}

func (c Cache) Enabled() bool {
	return c.Host != ""
}

func (c Cache) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

var defaults = map[string]any{
	"SERVER_ADDRESS":     ":9090",
	"CONTEXT_TIMEOUT":    30,
	"DATABASE_PORT":      "3306",
	"DATABASE_MAX_RETRY": 10,
	"CACHE_PORT":         "6379",
	"CACHE_DB":           0,
	"API_RATE_LIMIT":     0,
	"API_RATE_BURST":     100,
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "text",
}

// Load reads .env when present, then the environment, and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	vp := viper.New()
	vp.AutomaticEnv()
	for k, v := range defaults {
		vp.SetDefault(k, v)
	}

	cfg := &Config{
		ServerAddress:  vp.GetString("SERVER_ADDRESS"),
		ContextTimeout: time.Duration(vp.GetInt("CONTEXT_TIMEOUT")) * time.Second,
		Database: Database{
			Host:     vp.GetString("DATABASE_HOST"),
			Port:     vp.GetString("DATABASE_PORT"),
			User:     vp.GetString("DATABASE_USER"),
			Pass:     vp.GetString("DATABASE_PASS"),
			Name:     vp.GetString("DATABASE_NAME"),
			MaxRetry: vp.GetInt("DATABASE_MAX_RETRY"),
		},
		Cache: Cache{
			Host: vp.GetString("CACHE_HOST"),
			Port: vp.GetString("CACHE_PORT"),
			Pass: vp.GetString("CACHE_PASS"),
			DB:   vp.GetInt("CACHE_DB"),
		},
		APIRateLimit: vp.GetFloat64("API_RATE_LIMIT"),
		APIRateBurst: vp.GetInt("API_RATE_BURST"),
		LogLevel:     strings.ToLower(vp.GetString("LOG_LEVEL")),
		LogFormat:    strings.ToLower(vp.GetString("LOG_FORMAT")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
