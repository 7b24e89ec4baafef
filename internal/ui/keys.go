package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/marquee/internal/prefs"
)

// keyMap defines all keyboard bindings for the kiosk.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Playback
	PlayPause key.Binding
	Next      key.Binding
	Previous  key.Binding

	// Preferences
	CyclePreset      key.Binding
	ToggleTrackList  key.Binding
	ToggleTimestamps key.Binding
	ToggleClock      key.Binding
	ToggleHD         key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		PlayPause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space/p", "Play/pause"),
		),
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "Next track"),
		),
		Previous: key.NewBinding(
			key.WithKeys("b", "left"),
			key.WithHelp("b/←", "Previous track"),
		),

		CyclePreset: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle preset"),
		),
		ToggleTrackList: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Toggle track list"),
		),
		ToggleTimestamps: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Toggle timestamps"),
		),
		ToggleClock: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Toggle idle clock"),
		),
		ToggleHD: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "Toggle HD artwork"),
		),
	}
}

// toggles maps preference bindings to the preference they flip.
func (k keyMap) toggles() []struct {
	binding key.Binding
	id      string
} {
	return []struct {
		binding key.Binding
		id      string
	}{
		{k.ToggleTrackList, prefs.ShowTrackList},
		{k.ToggleTimestamps, prefs.ShowTimestamps},
		{k.ToggleClock, prefs.FullscreenClock},
		{k.ToggleHD, prefs.HDArtwork},
	}
}

// helpBindings lists bindings in help overlay order.
func (k keyMap) helpBindings() []key.Binding {
	return []key.Binding{
		k.PlayPause, k.Next, k.Previous,
		k.CyclePreset, k.ToggleTrackList, k.ToggleTimestamps, k.ToggleClock, k.ToggleHD,
		k.CycleTheme, k.Help, k.Quit,
	}
}
