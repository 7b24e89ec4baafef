package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", f.Theme, defaultTheme)
	}
	if f.Settings == nil {
		t.Fatal("Settings is nil, want empty map")
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "marquee")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	content := "theme = \"Slate\"\n\n[settings]\nhd-artwork = true\nalbum-view = false\n"
	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", f.Theme, "Slate")
	}
	if !f.Settings[HDArtwork] {
		t.Fatalf("Settings[%s] = false, want true", HDArtwork)
	}
	if v, ok := f.Settings[AlbumView]; !ok || v {
		t.Fatalf("Settings[%s] = %v (present %v), want false", AlbumView, v, ok)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	f := File{Theme: "Slate", Settings: map[string]bool{ShowVolume: true}}
	if err := Save(prefsFile, f); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, "Slate")
	}
	if !loaded.Settings[ShowVolume] {
		t.Fatalf("Settings[%s] = false, want true", ShowVolume)
	}
}

func TestLoad_FallsBackToDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "empty theme", content: "theme = \"\"\n"},
		{name: "invalid toml", content: "not valid toml {{{\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefsFile := filepath.Join(t.TempDir(), "prefs.toml")
			if err := os.WriteFile(prefsFile, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}

			f, err := Load(prefsFile)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load error = %v, wantErr %v", err, tt.wantErr)
			}
			if f.Theme != defaultTheme {
				t.Fatalf("Theme = %q, want %q", f.Theme, defaultTheme)
			}
			if f.Settings == nil {
				t.Fatal("Settings is nil")
			}
		})
	}
}
