package prefs

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrUnknownPreference is returned for ids that are neither a preference nor
// a preset.
var ErrUnknownPreference = errors.New("unknown preference")

// Store holds the current state of every catalog entry.
type Store struct {
	mu      sync.RWMutex
	catalog Catalog
	enabled map[string]bool
	theme   string
	logger  *log.Logger
	hooks   []func(changed map[string]bool)
}

// NewStore returns a store with every preference at its default.
func NewStore(catalog Catalog, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		catalog: catalog,
		enabled: make(map[string]bool, len(catalog.Preferences)),
		theme:   defaultTheme,
		logger:  logger.With("component", "prefs"),
	}
	for _, d := range catalog.Preferences {
		s.enabled[d.ID] = d.Default
	}
	return s
}

// Catalog returns the static catalog backing the store.
func (s *Store) Catalog() Catalog {
	return s.catalog
}

// OnChange registers fn to run once per batch of preference changes with the
// new value of every changed id. Hooks run outside the store lock.
func (s *Store) OnChange(fn func(changed map[string]bool)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}

// IsEnabled reports whether the preference id is on. Unknown ids are off.
func (s *Store) IsEnabled(id string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled[id]
}

// Set forces a preference to the given state.
func (s *Store) Set(id string, enabled bool) error {
	if _, ok := s.catalog.Lookup(id); !ok {
		s.logger.Warn("ignoring unknown preference", "id", id)
		return fmt.Errorf("set %q: %w", id, ErrUnknownPreference)
	}
	s.set(map[string]bool{id: enabled}, true)
	return nil
}

// Toggle flips a preference and returns its new state.
func (s *Store) Toggle(id string) (bool, error) {
	if _, ok := s.catalog.Lookup(id); !ok {
		s.logger.Warn("ignoring unknown preference", "id", id)
		return false, fmt.Errorf("toggle %q: %w", id, ErrUnknownPreference)
	}
	s.mu.RLock()
	next := !s.enabled[id]
	s.mu.RUnlock()
	s.set(map[string]bool{id: next}, true)
	return next, nil
}

// ApplyPreset enables the preset's entries and disables every other
// unprotected preference. Ids in the preset that are missing from the catalog
// are logged and skipped.
func (s *Store) ApplyPreset(id string) error {
	preset, ok := s.catalog.LookupPreset(id)
	if !ok {
		s.logger.Warn("ignoring unknown preset", "id", id)
		return fmt.Errorf("apply preset %q: %w", id, ErrUnknownPreference)
	}
	for _, ref := range preset.Enabled {
		if _, ok := s.catalog.Lookup(ref); !ok {
			s.logger.Warn("preset references unknown preference", "preset", id, "id", ref)
		}
	}

	updates := make(map[string]bool, len(s.catalog.Preferences))
	for _, d := range s.catalog.Preferences {
		if d.Protected {
			continue
		}
		updates[d.ID] = slices.Contains(preset.Enabled, d.ID)
	}
	s.set(updates, true)
	return nil
}

// Apply handles one toggle entry: a preset id applies the preset, anything
// else toggles the preference with that id. It reports whether any state
// changed.
func (s *Store) Apply(entry string) (bool, error) {
	before := s.States()
	var err error
	if _, ok := s.catalog.LookupPreset(entry); ok {
		err = s.ApplyPreset(entry)
	} else {
		_, err = s.Toggle(entry)
	}
	if err != nil {
		return false, err
	}
	after := s.States()
	for id, v := range after {
		if before[id] != v {
			return true, nil
		}
	}
	return false, nil
}

// States returns a copy of the current state of every preference.
func (s *Store) States() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.enabled))
	for id, v := range s.enabled {
		out[id] = v
	}
	return out
}

// Effects returns the style classes of every enabled preference, in catalog
// order.
func (s *Store) Effects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []string
	for _, d := range s.catalog.Preferences {
		if d.Effect != "" && s.enabled[d.ID] {
			out = append(out, d.Effect)
		}
	}
	return out
}

// Theme returns the persisted theme name.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme changes the theme name. It does not run OnChange hooks.
func (s *Store) SetTheme(name string) {
	if name == "" {
		return
	}
	s.mu.Lock()
	s.theme = name
	s.mu.Unlock()
}

// Restore loads persisted state and reports whether anything changed. Unknown
// ids are logged and skipped; entries missing from f keep their current value.
// OnChange hooks do not run, since the state already matches f.
func (s *Store) Restore(f File) bool {
	updates := make(map[string]bool, len(f.Settings))
	for id, v := range f.Settings {
		if _, ok := s.catalog.Lookup(id); !ok {
			s.logger.Warn("ignoring unknown persisted preference", "id", id)
			continue
		}
		updates[id] = v
	}
	s.mu.Lock()
	themeChanged := f.Theme != "" && f.Theme != s.theme
	if themeChanged {
		s.theme = f.Theme
	}
	s.mu.Unlock()
	return s.set(updates, false) || themeChanged
}

// Snapshot returns the persisted form of the store.
func (s *Store) Snapshot() File {
	return File{Theme: s.Theme(), Settings: s.States()}
}

func (s *Store) set(updates map[string]bool, notify bool) bool {
	changed := make(map[string]bool)

	s.mu.Lock()
	for _, d := range s.catalog.Preferences {
		v, ok := updates[d.ID]
		if !ok || s.enabled[d.ID] == v {
			continue
		}
		s.enabled[d.ID] = v
		changed[d.ID] = v
	}
	hooks := slices.Clone(s.hooks)
	s.mu.Unlock()

	if len(changed) == 0 {
		return false
	}
	s.logger.Debug("preferences changed", "changed", changed)
	if notify {
		for _, hook := range hooks {
			hook(changed)
		}
	}
	return true
}
