package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Transport modes.
const (
	TransportPoll = "poll"
	TransportPush = "push"
)

// Config holds the kiosk settings.
type Config struct {
	BackendURL       string
	Transport        string
	PollInterval     time.Duration
	HeartbeatTimeout time.Duration
	ReconnectDelay   time.Duration
	ResyncDelay      time.Duration
	MaxPostEndTicks  int
	TickInterval     time.Duration
	Crossfade        time.Duration
	BackgroundWidth  int
	BackgroundHeight int
	MinScale         float64
	MaxScale         float64
	MinScaleDelta    float64
	LogFile          string
	LogLevel         log.Level
	PrefsPath        string
}

const (
	defaultConfigPath = "~/.config/marquee/config.toml"
	defaultLogFile    = "~/.local/state/marquee/marquee.log"
	defaultPrefsPath  = "~/.config/marquee/prefs.toml"
	defaultBackendURL = "127.0.0.1:8183"
)

// Environment overrides.
const (
	EnvBackendURL = "MARQUEE_BACKEND_URL"
	EnvTransport  = "MARQUEE_TRANSPORT"
	EnvLogLevel   = "MARQUEE_LOG_LEVEL"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BackendURL:       defaultBackendURL,
		Transport:        TransportPush,
		PollInterval:     2 * time.Second,
		HeartbeatTimeout: 30 * time.Second,
		ReconnectDelay:   2 * time.Second,
		ResyncDelay:      2 * time.Second,
		MaxPostEndTicks:  10,
		TickInterval:     250 * time.Millisecond,
		Crossfade:        500 * time.Millisecond,
		BackgroundWidth:  640,
		BackgroundHeight: 360,
		MinScale:         1,
		MaxScale:         3,
		MinScaleDelta:    0.25,
		LogFile:          mustExpand(defaultLogFile),
		LogLevel:         log.InfoLevel,
		PrefsPath:        mustExpand(defaultPrefsPath),
	}
}

type rawConfig struct {
	BackendURL       string  `toml:"backend_url"`
	Transport        string  `toml:"transport"`
	PollInterval     string  `toml:"poll_interval"`
	HeartbeatTimeout string  `toml:"heartbeat_timeout"`
	ReconnectDelay   string  `toml:"reconnect_delay"`
	ResyncDelay      string  `toml:"resync_delay"`
	MaxPostEndTicks  int     `toml:"max_post_end_ticks"`
	TickInterval     string  `toml:"tick_interval"`
	Crossfade        string  `toml:"crossfade"`
	BackgroundWidth  int     `toml:"background_width"`
	BackgroundHeight int     `toml:"background_height"`
	MinScale         float64 `toml:"min_scale"`
	MaxScale         float64 `toml:"max_scale"`
	MinScaleDelta    float64 `toml:"min_scale_delta"`
	LogFile          string  `toml:"log_file"`
	LogLevel         string  `toml:"log_level"`
	PrefsPath        string  `toml:"prefs_path"`
}

// Load locates and parses the config, falling back to defaults when missing.
// Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	var raw rawConfig

	bytes, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if bytes != nil {
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&raw)

	if v := strings.TrimSpace(raw.BackendURL); v != "" {
		cfg.BackendURL = v
	}
	if v := strings.ToLower(strings.TrimSpace(raw.Transport)); v != "" {
		if v != TransportPoll && v != TransportPush {
			return Config{}, fmt.Errorf("invalid transport %q: want %q or %q", raw.Transport, TransportPoll, TransportPush)
		}
		cfg.Transport = v
	}

	durations := []struct {
		key   string
		value string
		dst   *time.Duration
	}{
		{"poll_interval", raw.PollInterval, &cfg.PollInterval},
		{"heartbeat_timeout", raw.HeartbeatTimeout, &cfg.HeartbeatTimeout},
		{"reconnect_delay", raw.ReconnectDelay, &cfg.ReconnectDelay},
		{"resync_delay", raw.ResyncDelay, &cfg.ResyncDelay},
		{"tick_interval", raw.TickInterval, &cfg.TickInterval},
		{"crossfade", raw.Crossfade, &cfg.Crossfade},
	}
	for _, d := range durations {
		v := strings.TrimSpace(d.value)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		if parsed > 0 {
			*d.dst = parsed
		}
	}

	if raw.MaxPostEndTicks > 0 {
		cfg.MaxPostEndTicks = raw.MaxPostEndTicks
	}
	if raw.BackgroundWidth > 0 {
		cfg.BackgroundWidth = raw.BackgroundWidth
	}
	if raw.BackgroundHeight > 0 {
		cfg.BackgroundHeight = raw.BackgroundHeight
	}
	if raw.MinScale > 0 {
		cfg.MinScale = raw.MinScale
	}
	if raw.MaxScale > 0 {
		cfg.MaxScale = raw.MaxScale
	}
	if raw.MinScaleDelta > 0 {
		cfg.MinScaleDelta = raw.MinScaleDelta
	}
	if cfg.MaxScale < cfg.MinScale {
		return Config{}, fmt.Errorf("max_scale %.2f is below min_scale %.2f", cfg.MaxScale, cfg.MinScale)
	}

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		level, err := log.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}
	if v := strings.TrimSpace(raw.PrefsPath); v != "" {
		cfg.PrefsPath = mustExpand(v)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

func applyEnv(raw *rawConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		raw.BackendURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTransport)); v != "" {
		raw.Transport = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		raw.LogLevel = v
	}
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return bytes, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
