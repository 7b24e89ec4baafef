package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != defaultBackendURL {
		t.Fatalf("BackendURL = %q, want %q", cfg.BackendURL, defaultBackendURL)
	}
	if cfg.Transport != TransportPush {
		t.Fatalf("Transport = %q, want %q", cfg.Transport, TransportPush)
	}

	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.LogLevel != log.InfoLevel {
		t.Fatalf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
backend_url = "  10.0.0.5:9999  "
transport = " POLL "
poll_interval = "750ms"
heartbeat_timeout = "10s"
max_post_end_ticks = 4
background_width = 1280
min_scale = 1.5
max_scale = 2.5
log_file = "  ~/.marquee/kiosk.log  "
log_level = "debug"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != "10.0.0.5:9999" {
		t.Fatalf("BackendURL = %q, want %q", cfg.BackendURL, "10.0.0.5:9999")
	}
	if cfg.Transport != TransportPoll {
		t.Fatalf("Transport = %q, want poll", cfg.Transport)
	}
	if cfg.PollInterval != 750*time.Millisecond || cfg.HeartbeatTimeout != 10*time.Second {
		t.Fatalf("durations = %v/%v", cfg.PollInterval, cfg.HeartbeatTimeout)
	}
	if cfg.ReconnectDelay != Default().ReconnectDelay {
		t.Fatalf("ReconnectDelay = %v, want default", cfg.ReconnectDelay)
	}
	if cfg.MaxPostEndTicks != 4 || cfg.BackgroundWidth != 1280 || cfg.BackgroundHeight != 360 {
		t.Fatalf("ints = %d/%d/%d", cfg.MaxPostEndTicks, cfg.BackgroundWidth, cfg.BackgroundHeight)
	}
	if cfg.MinScale != 1.5 || cfg.MaxScale != 2.5 {
		t.Fatalf("scale = %v..%v", cfg.MinScale, cfg.MaxScale)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.LogLevel != log.DebugLevel {
		t.Fatalf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvBackendURL, "https://kiosk.example:8443")
	t.Setenv(EnvTransport, "poll")
	t.Setenv(EnvLogLevel, "warn")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`backend_url = "10.0.0.5:9999"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BackendURL != "https://kiosk.example:8443" || cfg.Transport != TransportPoll || cfg.LogLevel != log.WarnLevel {
		t.Fatalf("cfg = %+v, want env overrides applied", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MARQUEE_TRANSPORT=poll\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(EnvTransport, "")
	os.Unsetenv(EnvTransport)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if got := os.Getenv(EnvTransport); got != "poll" {
		t.Fatalf("%s = %q, want poll", EnvTransport, got)
	}

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv on missing file: %v", err)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
backend_url = "   "
transport = ""
poll_interval = ""
log_file = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg.BackendURL != def.BackendURL || cfg.Transport != def.Transport || cfg.PollInterval != def.PollInterval {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
	if cfg.LogFile != def.LogFile {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, def.LogFile)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "invalid toml", content: `backend_url = [`, want: "parse config"},
		{name: "bad transport", content: `transport = "carrier-pigeon"`, want: "invalid transport"},
		{name: "bad duration", content: `poll_interval = "soon"`, want: "parse poll_interval"},
		{name: "bad log level", content: `log_level = "loud"`, want: "parse log_level"},
		{name: "inverted scale", content: "min_scale = 3.0\nmax_scale = 2.0", want: "max_scale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load returned nil error, want %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %q, want it to mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
