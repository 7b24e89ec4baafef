package prefs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func newTestStore() *Store {
	return NewStore(DefaultCatalog(), log.New(io.Discard))
}

func TestDefaultCatalog_UniqueIDs(t *testing.T) {
	c := DefaultCatalog()
	seen := map[string]bool{}
	for _, d := range c.Preferences {
		if seen[d.ID] {
			t.Fatalf("duplicate preference id %q", d.ID)
		}
		seen[d.ID] = true
	}
	for _, p := range c.Presets {
		if seen[p.ID] {
			t.Fatalf("preset id %q collides with another id", p.ID)
		}
		seen[p.ID] = true
		for _, ref := range p.Enabled {
			if _, ok := c.Lookup(ref); !ok {
				t.Fatalf("preset %q references unknown id %q", p.ID, ref)
			}
		}
	}
}

func TestStore_Defaults(t *testing.T) {
	s := newTestStore()
	for _, d := range DefaultCatalog().Preferences {
		if got := s.IsEnabled(d.ID); got != d.Default {
			t.Errorf("IsEnabled(%q) = %v, want %v", d.ID, got, d.Default)
		}
	}
	if s.IsEnabled("no-such-pref") {
		t.Fatal("unknown id reported enabled")
	}
}

func TestStore_Toggle(t *testing.T) {
	s := newTestStore()

	var seen []map[string]bool
	s.OnChange(func(changed map[string]bool) {
		seen = append(seen, changed)
	})

	got, err := s.Toggle(HDArtwork)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !got || !s.IsEnabled(HDArtwork) {
		t.Fatalf("Toggle(%s) = %v, want true", HDArtwork, got)
	}
	if len(seen) != 1 || len(seen[0]) != 1 || !seen[0][HDArtwork] {
		t.Fatalf("hook saw %v, want one call with %s on", seen, HDArtwork)
	}
}

func TestStore_UnknownIDsAreNotFatal(t *testing.T) {
	s := newTestStore()
	before := s.States()

	if _, err := s.Toggle("bogus"); !errors.Is(err, ErrUnknownPreference) {
		t.Fatalf("Toggle error = %v, want ErrUnknownPreference", err)
	}
	if err := s.ApplyPreset("bogus"); !errors.Is(err, ErrUnknownPreference) {
		t.Fatalf("ApplyPreset error = %v, want ErrUnknownPreference", err)
	}
	changed, err := s.Apply("bogus")
	if !errors.Is(err, ErrUnknownPreference) || changed {
		t.Fatalf("Apply = (%v, %v), want (false, ErrUnknownPreference)", changed, err)
	}

	after := s.States()
	for id, v := range before {
		if after[id] != v {
			t.Fatalf("state of %q changed after unknown id", id)
		}
	}
}

func TestStore_ApplyPresetSkipsProtected(t *testing.T) {
	s := newTestStore()
	if err := s.Set(FullscreenClock, true); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := s.ApplyPreset("minimal"); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}

	if !s.IsEnabled(FullscreenClock) {
		t.Fatal("protected preference changed by preset")
	}
	if s.IsEnabled(AlbumView) {
		t.Fatal("album-view still enabled after minimal preset")
	}
	if !s.IsEnabled(BackgroundArtwork) {
		t.Fatal("bg-artwork disabled after minimal preset")
	}
}

func TestStore_ApplyReportsChange(t *testing.T) {
	s := newTestStore()

	changed, err := s.Apply("balanced")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if changed {
		t.Fatal("balanced preset changed defaults, want no change")
	}

	changed, err = s.Apply(ShowVolume)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed || !s.IsEnabled(ShowVolume) {
		t.Fatal("toggle via Apply did not change show-volume")
	}
}

func TestStore_RestoreAndEffects(t *testing.T) {
	s := newTestStore()
	s.Restore(File{
		Theme:    "Slate",
		Settings: map[string]bool{BackgroundDim: true, BackgroundTint: false, "bogus": true},
	})

	if s.Theme() != "Slate" {
		t.Fatalf("Theme = %q, want Slate", s.Theme())
	}
	if _, ok := s.States()["bogus"]; ok {
		t.Fatal("unknown persisted id was stored")
	}

	s.SetTheme("")
	if s.Theme() != "Slate" {
		t.Fatal("empty theme name replaced the current theme")
	}
	s.SetTheme("Kanagawa")
	if got := s.Snapshot().Theme; got != "Kanagawa" {
		t.Fatalf("Snapshot theme = %q, want Kanagawa", got)
	}

	effects := s.Effects()
	want := map[string]bool{"title-extra-muted": true, "bg-artwork": true, "bg-dim": true, "bg-gradient": true}
	if len(effects) != len(want) {
		t.Fatalf("Effects = %v, want %d entries", effects, len(want))
	}
	for _, e := range effects {
		if !want[e] {
			t.Fatalf("unexpected effect %q in %v", e, effects)
		}
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.toml")
	if err := Save(path, File{Theme: "Artwork"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan File, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(f File) {
			select {
			case got <- f:
			default:
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	for {
		if err := os.WriteFile(path, []byte("theme = \"Slate\"\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		select {
		case f := <-got:
			if f.Theme != "Slate" {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("Watch returned error: %v", err)
			}
			return
		case <-time.After(50 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestStore_PresetRunsHooksOncePerBatch(t *testing.T) {
	s := newTestStore()

	calls := 0
	var last map[string]bool
	s.OnChange(func(changed map[string]bool) {
		calls++
		last = changed
	})

	if err := s.ApplyPreset("everything"); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if calls != 1 {
		t.Fatalf("hook ran %d times, want 1", calls)
	}
	if len(last) < 2 {
		t.Fatalf("changed = %v, want several ids in one batch", last)
	}

	if err := s.ApplyPreset("everything"); err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if calls != 1 {
		t.Fatalf("reapplying the same preset ran hooks again")
	}
}

func TestStore_RestoreReportsChangesWithoutHooks(t *testing.T) {
	s := newTestStore()
	calls := 0
	s.OnChange(func(map[string]bool) { calls++ })

	f := s.Snapshot()
	if s.Restore(f) {
		t.Fatal("restoring the current state reported a change")
	}

	f.Settings[ShowVolume] = !f.Settings[ShowVolume]
	if !s.Restore(f) {
		t.Fatal("restoring a flipped setting reported no change")
	}
	if s.IsEnabled(ShowVolume) != f.Settings[ShowVolume] {
		t.Fatalf("%s not restored", ShowVolume)
	}
	if !s.Restore(File{Theme: "Slate"}) {
		t.Fatal("restoring a new theme reported no change")
	}
	if calls != 0 {
		t.Fatalf("Restore ran hooks %d times, want 0", calls)
	}
}
