// Package config loads chart engine configuration from an optional
// YAML file with environment variable overrides.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the chart demo and server binaries.
type Config struct {
	// Chart surface
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Interaction
	WheelMode      string  `yaml:"wheel_mode"` // zoomX | scrollX | blend
	ZoomSpeed      float64 `yaml:"zoom_speed"`
	MinVisibleBars int     `yaml:"min_visible_bars"`
	MaxVisibleBars int     `yaml:"max_visible_bars"`

	// Data source: randomwalk | playback | ws | redis
	Source string `yaml:"source"`
	Symbol string `yaml:"symbol"`

	WSURL        string `yaml:"ws_url"`
	RedisAddr    string `yaml:"redis_addr"`
	RedisChannel string `yaml:"redis_channel"`
	SQLitePath   string `yaml:"sqlite_path"`

	// Candle bucket duration for generated data, in milliseconds.
	CandleDurMS int64 `yaml:"candle_dur_ms"`

	// Infrastructure
	MetricsAddr string `yaml:"metrics_addr"`
	ListenAddr  string `yaml:"listen_addr"` // candleserver bind address
	LogLevel    string `yaml:"log_level"`
}

// Default returns the baseline configuration before file and env
// overrides are applied.
func Default() *Config {
	return &Config{
		Width:          1024,
		Height:         640,
		WheelMode:      "zoomX",
		ZoomSpeed:      0.25,
		MinVisibleBars: 5,
		MaxVisibleBars: 2000,
		Source:         "randomwalk",
		Symbol:         "BTCUSD",
		WSURL:          "ws://localhost:8081/ws",
		RedisAddr:      "localhost:6379",
		RedisChannel:   "pub:candles",
		SQLitePath:     "data/candles.db",
		CandleDurMS:    5000,
		MetricsAddr:    ":9090",
		ListenAddr:     ":8081",
		LogLevel:       "info",
	}
}

// Load builds configuration in three layers: defaults, then the YAML
// file named by CHART_CONFIG (if set), then individual env vars.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CHART_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a YAML config file over the defaults, then applies
// env overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Width = getEnvInt("CHART_WIDTH", c.Width)
	c.Height = getEnvInt("CHART_HEIGHT", c.Height)
	c.WheelMode = getEnv("CHART_WHEEL_MODE", c.WheelMode)
	c.ZoomSpeed = getEnvFloat("CHART_ZOOM_SPEED", c.ZoomSpeed)
	c.MinVisibleBars = getEnvInt("CHART_MIN_VISIBLE_BARS", c.MinVisibleBars)
	c.MaxVisibleBars = getEnvInt("CHART_MAX_VISIBLE_BARS", c.MaxVisibleBars)
	c.Source = getEnv("CHART_SOURCE", c.Source)
	c.Symbol = getEnv("CHART_SYMBOL", c.Symbol)
	c.WSURL = getEnv("CHART_WS_URL", c.WSURL)
	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisChannel = getEnv("REDIS_CHANNEL", c.RedisChannel)
	c.SQLitePath = getEnv("SQLITE_PATH", c.SQLitePath)
	c.CandleDurMS = getEnvInt64("CHART_CANDLE_DUR_MS", c.CandleDurMS)
	c.MetricsAddr = getEnv("METRICS_ADDR", c.MetricsAddr)
	c.ListenAddr = getEnv("LISTEN_ADDR", c.ListenAddr)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate rejects configurations the engine cannot run with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: surface size %dx%d must be positive", c.Width, c.Height)
	}
	switch c.WheelMode {
	case "zoomX", "scrollX", "blend":
	default:
		return fmt.Errorf("config: unknown wheel_mode %q", c.WheelMode)
	}
	switch c.Source {
	case "randomwalk", "playback", "ws", "redis":
	default:
		return fmt.Errorf("config: unknown source %q", c.Source)
	}
	if c.MinVisibleBars < 1 {
		return fmt.Errorf("config: min_visible_bars %d must be >= 1", c.MinVisibleBars)
	}
	if c.MaxVisibleBars < c.MinVisibleBars {
		return fmt.Errorf("config: max_visible_bars %d < min_visible_bars %d", c.MaxVisibleBars, c.MinVisibleBars)
	}
	if c.ZoomSpeed <= 0 {
		return fmt.Errorf("config: zoom_speed %v must be positive", c.ZoomSpeed)
	}
	if c.CandleDurMS <= 0 {
		return fmt.Errorf("config: candle_dur_ms %d must be positive", c.CandleDurMS)
	}
	return nil
}

func getEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] invalid int for %s: %q, keeping %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("[config] invalid int for %s: %q, keeping %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[config] invalid float for %s: %q, keeping %v", key, v, fallback)
		return fallback
	}
	return f
}
