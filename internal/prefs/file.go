package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// File is the on-disk preference document.
type File struct {
	Theme    string          `toml:"theme"`
	Settings map[string]bool `toml:"settings"`
}

const (
	defaultPrefsPath = "~/.config/marquee/prefs.toml"
	defaultTheme     = "Artwork"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path. A missing file yields defaults
// and no error; an unreadable or invalid file yields defaults and the error.
func Load(path string) (File, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return defaultFile(), fmt.Errorf("resolve path: %w", err)
	}

	f := defaultFile()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("open prefs: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return f, fmt.Errorf("read prefs: %w", err)
	}

	if err := toml.Unmarshal(bytes, &f); err != nil {
		return defaultFile(), fmt.Errorf("parse prefs: %w", err)
	}

	if strings.TrimSpace(f.Theme) == "" {
		f.Theme = defaultTheme
	}
	if f.Settings == nil {
		f.Settings = map[string]bool{}
	}

	return f, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, f File) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// ResolvePath expands ~ and makes path absolute, using the default path when
// path is blank.
func ResolvePath(path string) (string, error) {
	return resolvePath(path)
}

func defaultFile() File {
	return File{Theme: defaultTheme, Settings: map[string]bool{}}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
